package team

import (
	"context"
	"fmt"
	"strconv"

	"github.com/caarlos0/tablewriter"
	"github.com/dustin/go-humanize"
	"github.com/hirewell/revshare/cmd"
	"github.com/hirewell/revshare/pkg/backend"
	"github.com/hirewell/revshare/pkg/proto"
	"github.com/spf13/cobra"
)

var ojson bool

// Command is the team command.
var Command = &cobra.Command{
	Use:                "team",
	Aliases:            []string{"teams"},
	Short:              "Manage teams, members, configurations and placements",
	PersistentPreRunE:  cmd.InitBackendContext,
	PersistentPostRunE: cmd.CloseDBContext,
}

func init() {
	Command.PersistentFlags().BoolVar(&ojson, "json", false, "output as JSON")
	Command.AddCommand(
		createCommand(),
		listCommand(),
		infoCommand(),
		statusCommand("suspend", proto.TeamSuspended),
		statusCommand("activate", proto.TeamActive),
		memberCommand(),
		configurationCommand(),
		placementCommand(),
		submissionCommand(),
	)
}

// Resolve finds a team by numeric id or by name.
func Resolve(ctx context.Context, be *backend.Backend, arg string) (proto.Team, error) {
	if id, err := strconv.ParseInt(arg, 10, 64); err == nil {
		return be.Team(ctx, id)
	}
	return be.TeamByName(ctx, arg)
}

func printTeam(c *cobra.Command, t proto.Team) error {
	if ojson {
		return cmd.WriteJSON(c.OutOrStdout(), t)
	}
	def := "-"
	if t.DefaultConfigurationID != nil {
		def = strconv.FormatInt(*t.DefaultConfigurationID, 10)
	}
	w := c.OutOrStdout()
	fmt.Fprintf(w, "ID: %d\n", t.ID)
	fmt.Fprintf(w, "Name: %s\n", t.Name)
	fmt.Fprintf(w, "Owner: %s\n", t.Owner)
	fmt.Fprintf(w, "Status: %s\n", t.Status)
	fmt.Fprintf(w, "Default configuration: %s\n", def)
	return nil
}

func createCommand() *cobra.Command {
	var owner string
	c := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a team",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			be := backend.FromContext(ctx)
			t, err := be.CreateTeam(ctx, args[0], owner)
			if err != nil {
				return err
			}
			return printTeam(c, t)
		},
	}
	c.Flags().StringVar(&owner, "owner", "", "recruiter id of the team owner")
	_ = c.MarkFlagRequired("owner")
	return c
}

func listCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List teams",
		Args:    cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			ctx := c.Context()
			teams, err := backend.FromContext(ctx).ListTeams(ctx)
			if err != nil {
				return err
			}
			if ojson {
				return cmd.WriteJSON(c.OutOrStdout(), teams)
			}
			if len(teams) == 0 {
				fmt.Fprintln(c.OutOrStdout(), "No teams found")
				return nil
			}
			return tablewriter.Render(
				c.OutOrStdout(),
				teams,
				[]string{"ID", "Name", "Owner", "Status", "Created"},
				func(t proto.Team) ([]string, error) {
					return []string{
						strconv.FormatInt(t.ID, 10),
						t.Name,
						t.Owner,
						string(t.Status),
						humanize.Time(t.CreatedAt),
					}, nil
				},
			)
		},
	}
}

func infoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info TEAM",
		Short: "Show a team",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			t, err := Resolve(ctx, backend.FromContext(ctx), args[0])
			if err != nil {
				return err
			}
			return printTeam(c, t)
		},
	}
}

func statusCommand(use string, status proto.TeamStatus) *cobra.Command {
	return &cobra.Command{
		Use:   use + " TEAM",
		Short: fmt.Sprintf("Mark a team %s", status),
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			be := backend.FromContext(ctx)
			t, err := Resolve(ctx, be, args[0])
			if err != nil {
				return err
			}
			t, err = be.SetTeamStatus(ctx, t.ID, status)
			if err != nil {
				return err
			}
			return printTeam(c, t)
		},
	}
}
