package team

import (
	"github.com/caarlos0/tablewriter"
	"github.com/hirewell/revshare/cmd"
	"github.com/hirewell/revshare/pkg/backend"
	"github.com/hirewell/revshare/pkg/proto"
	"github.com/hirewell/revshare/pkg/split"
	"github.com/spf13/cobra"
)

func memberCommand() *cobra.Command {
	c := &cobra.Command{
		Use:     "member",
		Aliases: []string{"members"},
		Short:   "Manage team members",
	}

	var role string
	addCmd := &cobra.Command{
		Use:   "add TEAM RECRUITER",
		Short: "Add a member to a team",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			be := backend.FromContext(ctx)
			t, err := Resolve(ctx, be, args[0])
			if err != nil {
				return err
			}
			_, err = be.AddMember(ctx, t.ID, args[1], split.MemberRole(role))
			return err
		},
	}
	addCmd.Flags().StringVar(&role, "role", string(split.RegularMemberRole), "membership role: owner, admin, member or collaborator")

	removeCmd := &cobra.Command{
		Use:     "remove TEAM RECRUITER",
		Aliases: []string{"rm"},
		Short:   "Remove a member from a team",
		Args:    cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			be := backend.FromContext(ctx)
			t, err := Resolve(ctx, be, args[0])
			if err != nil {
				return err
			}
			return be.RemoveMember(ctx, t.ID, args[1])
		},
	}

	listCmd := &cobra.Command{
		Use:     "list TEAM",
		Aliases: []string{"ls"},
		Short:   "List team members",
		Args:    cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			be := backend.FromContext(ctx)
			t, err := Resolve(ctx, be, args[0])
			if err != nil {
				return err
			}
			members, err := be.Members(ctx, t.ID)
			if err != nil {
				return err
			}
			if ojson {
				return cmd.WriteJSON(c.OutOrStdout(), members)
			}
			return tablewriter.Render(
				c.OutOrStdout(),
				members,
				[]string{"Recruiter", "Role", "Status"},
				func(m proto.Member) ([]string, error) {
					return []string{m.RecruiterID, string(m.Role), string(m.Status)}, nil
				},
			)
		},
	}

	c.AddCommand(addCmd, removeCmd, listCmd)
	return c
}
