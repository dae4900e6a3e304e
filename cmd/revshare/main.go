package main

import (
	"context"
	"os"
	"runtime/debug"

	"github.com/charmbracelet/log"
	"github.com/hirewell/revshare/cmd/revshare/admin"
	"github.com/hirewell/revshare/cmd/revshare/analytics"
	"github.com/hirewell/revshare/cmd/revshare/serve"
	"github.com/hirewell/revshare/cmd/revshare/splits"
	"github.com/hirewell/revshare/cmd/revshare/team"
	"github.com/hirewell/revshare/pkg/config"
	logr "github.com/hirewell/revshare/pkg/log"
	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"
)

var (
	// Version contains the application version number. It's set via ldflags
	// when building.
	Version = ""

	// CommitSHA contains the SHA of the commit that this application was built
	// against. It's set via ldflags when building.
	CommitSHA = ""

	rootCmd = &cobra.Command{
		Use:          "revshare",
		Short:        "Revenue sharing for recruiting teams",
		Long:         "revshare divides placement fees among the recruiters of a team and reports on team performance.",
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.AddCommand(
		manCmd,
		configCmd,
		splitCmd,
		serve.Command,
		admin.Command,
		team.Command,
		splits.Command,
		analytics.Command,
	)

	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Sum != "" {
			Version = info.Main.Version
		} else {
			Version = "unknown (built from source)"
		}
	}
	rootCmd.Version = Version
}

func main() {
	os.Exit(run())
}

func run() int {
	ctx := context.Background()
	cfg := config.DefaultConfig()
	if err := cfg.Parse(); err != nil {
		log.Error("configuration error", "err", err)
		return 1
	}

	ctx = config.WithContext(ctx, cfg)
	logger, f, err := logr.NewLogger(cfg)
	if err != nil {
		log.Errorf("failed to create logger: %v", err)
		return 1
	}
	if f != nil {
		defer f.Close() // nolint: errcheck
	}

	// Set global logger
	log.SetDefault(logger)

	// Set the max number of processes to the number of CPUs
	// This is useful when running revshare in a container
	if _, err := maxprocs.Set(maxprocs.Logger(log.Debugf)); err != nil {
		log.Warn("couldn't set automaxprocs", "error", err)
	}

	ctx = log.WithContext(ctx, logger)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}
