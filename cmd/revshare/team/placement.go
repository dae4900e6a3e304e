package team

import (
	"strconv"
	"time"

	"github.com/hirewell/revshare/pkg/backend"
	"github.com/hirewell/revshare/pkg/proto"
	"github.com/spf13/cobra"
)

func placementCommand() *cobra.Command {
	c := &cobra.Command{
		Use:     "placement",
		Aliases: []string{"placements"},
		Short:   "Record placements and stage credits",
	}

	var (
		roleID, roleTitle string
		openedAt          string
	)
	recordCmd := &cobra.Command{
		Use:   "record TEAM PLACEMENT",
		Short: "Record the metadata of a placement",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			be := backend.FromContext(ctx)
			t, err := Resolve(ctx, be, args[0])
			if err != nil {
				return err
			}
			meta := proto.PlacementMeta{
				PlacementID: args[1],
				RoleID:      roleID,
				RoleTitle:   roleTitle,
			}
			if openedAt != "" {
				ts, err := time.Parse(time.DateOnly, openedAt)
				if err != nil {
					return err
				}
				meta.RoleOpenedAt = &ts
			}
			_, err = be.RecordPlacement(ctx, t.ID, meta)
			return err
		},
	}
	recordCmd.Flags().StringVar(&roleID, "role-id", "", "role (job order) id")
	recordCmd.Flags().StringVar(&roleTitle, "role-title", "", "role title")
	recordCmd.Flags().StringVar(&openedAt, "opened-at", "", "date the role opened, YYYY-MM-DD")
	_ = recordCmd.MarkFlagRequired("role-id")

	creditCmd := &cobra.Command{
		Use:   "credit TEAM PLACEMENT RECRUITER STAGE CREDITS",
		Short: "Set the credits a recruiter earned for a stage",
		Args:  cobra.ExactArgs(5),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			be := backend.FromContext(ctx)
			t, err := Resolve(ctx, be, args[0])
			if err != nil {
				return err
			}
			credits, err := strconv.ParseInt(args[4], 10, 64)
			if err != nil {
				return err
			}
			return be.RecordStageCredit(ctx, t.ID, args[1], args[2], args[3], credits)
		},
	}

	c.AddCommand(recordCmd, creditCmd)
	return c
}

func submissionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "submit TEAM CANDIDATE",
		Short: "Record a candidate submission",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			be := backend.FromContext(ctx)
			t, err := Resolve(ctx, be, args[0])
			if err != nil {
				return err
			}
			return be.RecordSubmission(ctx, t.ID, args[1], time.Now())
		},
	}
}
