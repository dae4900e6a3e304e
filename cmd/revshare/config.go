package main

import (
	"fmt"

	"github.com/hirewell/revshare/cmd"
	"github.com/hirewell/revshare/pkg/split"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Work with split configuration files",
}

var validateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Validate a split configuration file",
	Long:  "Validate the model and configuration of a YAML split configuration file without touching the database.",
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		s, err := cmd.ReadScenario(args[0])
		if err != nil {
			return err
		}

		verrs, err := split.Validate(split.Model(s.Model), s.Config)
		if err != nil {
			verrs = split.ValidationErrors{{Field: "model", Message: err.Error()}}
		}
		if len(verrs) == 0 {
			fmt.Fprintln(c.OutOrStdout(), okStyle.Render("valid"), s.Model)
			return nil
		}

		for _, e := range verrs {
			fmt.Fprintln(c.ErrOrStderr(), errStyle.Render("✗"), fieldStyle.Render(e.Field), e.Message)
		}
		return fmt.Errorf("%d validation error(s)", len(verrs))
	},
}

func init() {
	configCmd.AddCommand(validateCmd)
}
