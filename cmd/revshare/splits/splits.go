package splits

import (
	"fmt"

	"github.com/caarlos0/tablewriter"
	"github.com/hirewell/revshare/cmd"
	"github.com/hirewell/revshare/cmd/revshare/team"
	"github.com/hirewell/revshare/pkg/backend"
	"github.com/hirewell/revshare/pkg/money"
	"github.com/hirewell/revshare/pkg/proto"
	"github.com/spf13/cobra"
)

var ojson bool

// Command is the splits command.
var Command = &cobra.Command{
	Use:                "splits",
	Short:              "Calculate and commit placement splits",
	PersistentPreRunE:  cmd.InitBackendContext,
	PersistentPostRunE: cmd.CloseDBContext,
}

func init() {
	Command.PersistentFlags().BoolVar(&ojson, "json", false, "output as JSON")
	Command.AddCommand(
		calculateCommand(false),
		calculateCommand(true),
		showCommand(),
	)
}

func calculateCommand(commit bool) *cobra.Command {
	var (
		fee      string
		configID int64
	)
	use, short := "calc", "Preview the split of a placement fee"
	if commit {
		use, short = "commit", "Calculate and commit the split of a placement fee"
	}

	c := &cobra.Command{
		Use:   use + " TEAM PLACEMENT",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			be := backend.FromContext(ctx)
			t, err := team.Resolve(ctx, be, args[0])
			if err != nil {
				return err
			}
			total, err := money.ParseMoney(fee)
			if err != nil {
				return err
			}
			var cfg *int64
			if configID > 0 {
				cfg = &configID
			}

			var set proto.SplitSet
			if commit {
				set, err = be.CommitSplits(ctx, t.ID, args[1], total, cfg)
			} else {
				set, err = be.CalculateSplits(ctx, t.ID, args[1], total, cfg)
			}
			if err != nil {
				return err
			}
			return printSplitSet(c, set)
		},
	}
	c.Flags().StringVar(&fee, "fee", "", "total placement fee, e.g. 500.00")
	c.Flags().Int64Var(&configID, "config", 0, "configuration id, defaults to the team default")
	_ = c.MarkFlagRequired("fee")
	return c
}

func showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show TEAM PLACEMENT",
		Short: "Show the committed split of a placement",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			be := backend.FromContext(ctx)
			t, err := team.Resolve(ctx, be, args[0])
			if err != nil {
				return err
			}
			set, err := be.PlacementSplits(ctx, t.ID, args[1])
			if err != nil {
				return err
			}
			return printSplitSet(c, set)
		},
	}
}

func printSplitSet(c *cobra.Command, set proto.SplitSet) error {
	if ojson {
		return cmd.WriteJSON(c.OutOrStdout(), set)
	}
	if err := tablewriter.Render(
		c.OutOrStdout(),
		set.Splits,
		[]string{"Recruiter", "Percentage", "Amount"},
		func(s proto.PlacementSplit) ([]string, error) {
			return []string{s.RecruiterID, s.SplitPercentage.String() + "%", s.SplitAmount.String()}, nil
		},
	); err != nil {
		return err
	}
	state := "preview"
	if set.Committed {
		state = "committed " + set.BatchID
	}
	fmt.Fprintf(c.OutOrStdout(), "Total %s (configuration %d, %s)\n", set.TotalFee, set.ConfigurationID, state)
	return nil
}
