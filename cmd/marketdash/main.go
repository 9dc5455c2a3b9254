// marketdash runs the market data collection jobs once and exits. Scheduling
// is left to cron or the platform's job runner.
//
// Usage:
//
//	marketdash [-config path] [job ...]
//
// With no job arguments, or with "all", every job runs in order. A failed
// job is logged and the run continues; the exit code is non-zero when any
// job failed.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bobmcallan/marketdash/internal/app"
	"github.com/bobmcallan/marketdash/internal/common"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	showVersion := flag.Bool("version", false, "print version and exit")
	listJobs := flag.Bool("list", false, "list available jobs and exit")
	flag.Parse()

	if *showVersion {
		common.LoadVersionFromFile()
		fmt.Printf("marketdash %s (build %s, commit %s)\n",
			common.GetVersion(), common.GetBuild(), common.GetGitCommit())
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.NewApp(ctx, *configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "marketdash: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	if *listJobs {
		for _, name := range application.Collector.JobNames() {
			fmt.Println(name)
		}
		return
	}

	common.PrintBanner(application.Config, application.Logger, application.RunID)

	names := flag.Args()
	if len(names) == 0 || (len(names) == 1 && strings.EqualFold(names[0], "all")) {
		names = application.Collector.JobNames()
	}

	failed := 0
	for _, name := range names {
		if ctx.Err() != nil {
			application.Logger.Warn().Msg("Run interrupted")
			break
		}
		if err := application.Collector.RunJob(ctx, name); err != nil {
			failed++
		}
	}

	common.PrintShutdownBanner(application.Logger)

	if failed > 0 {
		application.Logger.Error().Int("failed", failed).Msg("Run finished with failures")
		os.Exit(1)
	}
}
