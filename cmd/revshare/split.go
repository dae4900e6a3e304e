package main

import (
	"fmt"

	"github.com/caarlos0/tablewriter"
	"github.com/hirewell/revshare/cmd"
	"github.com/hirewell/revshare/pkg/money"
	"github.com/hirewell/revshare/pkg/split"
	"github.com/spf13/cobra"
)

var splitCmd = &cobra.Command{
	Use:   "split",
	Short: "Offline split calculator",
}

func calcCommand() *cobra.Command {
	var (
		fee    string
		policy string
		ojson  bool
	)

	c := &cobra.Command{
		Use:   "calc FILE",
		Short: "Calculate a split from a scenario file",
		Long:  "Divide a fee among the contributors of a YAML scenario file without touching the database.",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			s, err := cmd.ReadScenario(args[0])
			if err != nil {
				return err
			}
			total, err := money.ParseMoney(fee)
			if err != nil {
				return err
			}

			var opts []split.Option
			if policy != "" {
				opts = append(opts, split.WithEmptyTierPolicy(split.EmptyTierPolicy(policy)))
			} else if s.EmptyTierPolicy != "" {
				opts = append(opts, split.WithEmptyTierPolicy(s.EmptyTierPolicy))
			}

			shares, err := split.Calculate(split.Model(s.Model), s.Config, s.Contributors, total, opts...)
			if err != nil {
				return err
			}

			if ojson {
				return cmd.WriteJSON(c.OutOrStdout(), shares)
			}

			if err := tablewriter.Render(
				c.OutOrStdout(),
				shares,
				[]string{"Recruiter", "Percentage", "Amount"},
				func(s split.Share) ([]string, error) {
					return []string{s.RecruiterID, s.Percentage.String() + "%", s.Amount.String()}, nil
				},
			); err != nil {
				return err
			}
			fmt.Fprintln(c.OutOrStdout(), totalStyle.Render(fmt.Sprintf("Total %s", total)))
			return nil
		},
	}

	c.Flags().StringVar(&fee, "fee", "", "total placement fee, e.g. 500.00")
	c.Flags().StringVar(&policy, "empty-tier-policy", "", "reject or redistribute")
	c.Flags().BoolVar(&ojson, "json", false, "output as JSON")
	_ = c.MarkFlagRequired("fee")

	return c
}

func init() {
	splitCmd.AddCommand(calcCommand())
}
