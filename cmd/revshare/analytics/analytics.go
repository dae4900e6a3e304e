package analytics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/caarlos0/duration"
	"github.com/caarlos0/tablewriter"
	"github.com/hirewell/revshare/cmd"
	"github.com/hirewell/revshare/cmd/revshare/team"
	"github.com/hirewell/revshare/pkg/analytics"
	"github.com/hirewell/revshare/pkg/backend"
	"github.com/hirewell/revshare/pkg/config"
	"github.com/spf13/cobra"
)

var (
	since string
	ojson bool

	// Command is the analytics command.
	Command = &cobra.Command{
		Use:                "analytics TEAM",
		Short:              "Show team performance",
		Long:               "Aggregate the committed splits of a team over a trailing window.",
		Args:               cobra.ExactArgs(1),
		PersistentPreRunE:  cmd.InitBackendContext,
		PersistentPostRunE: cmd.CloseDBContext,
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			cfg := config.FromContext(ctx)
			be := backend.FromContext(ctx)
			t, err := team.Resolve(ctx, be, args[0])
			if err != nil {
				return err
			}

			window := cfg.Jobs.AnalyticsWindow
			if since != "" {
				if window, err = duration.Parse(since); err != nil {
					return err
				}
			}
			end := time.Now().UTC()
			a, err := be.ComputeAnalytics(ctx, t.ID, end.Add(-window), end)
			if err != nil {
				return err
			}
			if ojson {
				return cmd.WriteJSON(c.OutOrStdout(), a)
			}
			return printAnalytics(c, a)
		},
	}
)

func init() {
	Command.Flags().StringVar(&since, "since", "", "trailing window (e.g. 30d, 2w, 3mo); defaults to the configured window")
	Command.Flags().BoolVar(&ojson, "json", false, "output as JSON")
}

func printAnalytics(c *cobra.Command, a analytics.TeamAnalytics) error {
	w := c.OutOrStdout()
	fmt.Fprintf(w, "Placements: %d\n", a.TotalPlacements)
	fmt.Fprintf(w, "Revenue: %s\n", a.TotalRevenue)
	if a.ConversionRate != nil {
		fmt.Fprintf(w, "Conversion: %.1f%% of %d submissions\n", *a.ConversionRate*100, *a.Submissions)
	}
	if len(a.MemberPerformance) == 0 {
		return nil
	}

	fmt.Fprintln(w)
	if err := tablewriter.Render(
		w,
		a.MemberPerformance,
		[]string{"Recruiter", "Placements", "Revenue", "Avg Time To Placement"},
		func(m analytics.MemberPerformance) ([]string, error) {
			ttp := "-"
			if m.AvgTimeToPlacement != nil {
				ttp = m.AvgTimeToPlacement.String()
			}
			return []string{m.RecruiterID, strconv.Itoa(m.Placements), m.Revenue.String(), ttp}, nil
		},
	); err != nil {
		return err
	}

	fmt.Fprintln(w)
	return tablewriter.Render(
		w,
		a.TopRoles,
		[]string{"Role", "Title", "Placements", "Revenue"},
		func(r analytics.RolePerformance) ([]string, error) {
			return []string{r.RoleID, r.RoleTitle, strconv.Itoa(r.Placements), r.Revenue.String()}, nil
		},
	)
}
