package team

import (
	"fmt"
	"strconv"

	"github.com/caarlos0/tablewriter"
	"github.com/dustin/go-humanize"
	"github.com/hirewell/revshare/cmd"
	"github.com/hirewell/revshare/pkg/backend"
	"github.com/hirewell/revshare/pkg/proto"
	"github.com/hirewell/revshare/pkg/split"
	"github.com/spf13/cobra"
)

func configurationCommand() *cobra.Command {
	c := &cobra.Command{
		Use:     "config",
		Aliases: []string{"configs", "configuration"},
		Short:   "Manage team split configurations",
	}

	var makeDefault bool
	createCmd := &cobra.Command{
		Use:   "create TEAM FILE",
		Short: "Create a split configuration from a YAML file",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			be := backend.FromContext(ctx)
			t, err := Resolve(ctx, be, args[0])
			if err != nil {
				return err
			}
			s, err := cmd.ReadScenario(args[1])
			if err != nil {
				return err
			}
			cfg, err := be.CreateConfiguration(ctx, t.ID, s.Name, split.Model(s.Model), s.Config)
			if err != nil {
				return err
			}
			if makeDefault {
				if cfg, err = be.SetDefaultConfiguration(ctx, t.ID, cfg.ID); err != nil {
					return err
				}
			}
			return printConfiguration(c, cfg)
		},
	}
	createCmd.Flags().BoolVar(&makeDefault, "default", false, "make it the team default")

	reviseCmd := &cobra.Command{
		Use:   "revise TEAM ID FILE",
		Short: "Store a revision of a split configuration",
		Args:  cobra.ExactArgs(3),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			be := backend.FromContext(ctx)
			t, err := Resolve(ctx, be, args[0])
			if err != nil {
				return err
			}
			id, err := cmd.ParseID("configuration", args[1])
			if err != nil {
				return err
			}
			s, err := cmd.ReadScenario(args[2])
			if err != nil {
				return err
			}
			cfg, err := be.ReviseConfiguration(ctx, t.ID, id, s.Name, split.Model(s.Model), s.Config)
			if err != nil {
				return err
			}
			return printConfiguration(c, cfg)
		},
	}

	setDefaultCmd := &cobra.Command{
		Use:   "set-default TEAM ID",
		Short: "Set the default split configuration of a team",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			be := backend.FromContext(ctx)
			t, err := Resolve(ctx, be, args[0])
			if err != nil {
				return err
			}
			id, err := cmd.ParseID("configuration", args[1])
			if err != nil {
				return err
			}
			cfg, err := be.SetDefaultConfiguration(ctx, t.ID, id)
			if err != nil {
				return err
			}
			return printConfiguration(c, cfg)
		},
	}

	defaultCmd := &cobra.Command{
		Use:   "default TEAM",
		Short: "Show the default split configuration of a team",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			be := backend.FromContext(ctx)
			t, err := Resolve(ctx, be, args[0])
			if err != nil {
				return err
			}
			cfg, err := be.DefaultConfiguration(ctx, t.ID)
			if err != nil {
				return err
			}
			return printConfiguration(c, cfg)
		},
	}

	listCmd := &cobra.Command{
		Use:     "list TEAM",
		Aliases: []string{"ls"},
		Short:   "List the split configurations of a team",
		Args:    cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			be := backend.FromContext(ctx)
			t, err := Resolve(ctx, be, args[0])
			if err != nil {
				return err
			}
			cfgs, err := be.ListConfigurations(ctx, t.ID)
			if err != nil {
				return err
			}
			if ojson {
				return cmd.WriteJSON(c.OutOrStdout(), cfgs)
			}
			return tablewriter.Render(
				c.OutOrStdout(),
				cfgs,
				[]string{"ID", "Name", "Model", "Default", "Revises", "Created"},
				func(cfg proto.SplitConfiguration) ([]string, error) {
					parent := "-"
					if cfg.ParentID != nil {
						parent = strconv.FormatInt(*cfg.ParentID, 10)
					}
					def := ""
					if cfg.IsDefault {
						def = "*"
					}
					return []string{
						strconv.FormatInt(cfg.ID, 10),
						cfg.Name,
						string(cfg.Model),
						def,
						parent,
						humanize.Time(cfg.CreatedAt),
					}, nil
				},
			)
		},
	}

	c.AddCommand(createCmd, reviseCmd, setDefaultCmd, defaultCmd, listCmd)
	return c
}

func printConfiguration(c *cobra.Command, cfg proto.SplitConfiguration) error {
	if ojson {
		return cmd.WriteJSON(c.OutOrStdout(), cfg)
	}
	w := c.OutOrStdout()
	fmt.Fprintf(w, "ID: %d\n", cfg.ID)
	fmt.Fprintf(w, "Name: %s\n", cfg.Name)
	fmt.Fprintf(w, "Model: %s\n", cfg.Model)
	fmt.Fprintf(w, "Default: %t\n", cfg.IsDefault)
	return nil
}
