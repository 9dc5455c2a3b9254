package common

import (
	"fmt"
	"os"
	"strings"

	"github.com/ternarybob/banner"
)

// PrintBanner displays the job-runner startup banner to stderr.
func PrintBanner(config *Config, logger *Logger, runID string) {
	version := GetVersion()
	build := GetBuild()
	commit := GetGitCommit()
	sink := fmt.Sprintf("%s (%s)", config.Storage.Driver, config.Storage.DSN)

	lineColor := banner.ColorCyan
	textColor := banner.ColorBold + banner.ColorWhite
	width := 70
	hr := lineColor + strings.Repeat("═", width) + banner.ColorReset

	art := []string{
		` 888b     d888 8888888b.        d8888  .d8888b.  888    888`,
		` 8888b   d8888 888  "Y88b      d88888 d88P  Y88b 888    888`,
		` 88888b.d88888 888    888     d88P888 Y88b.      888    888`,
		` 888Y88888P888 888    888    d88P 888  "Y888b.   8888888888`,
		` 888 Y888P 888 888    888   d88P  888     "Y88b. 888    888`,
		` 888  Y8P  888 888    888  d88P   888       "888 888    888`,
		` 888   "   888 888  .d88P d8888888888 Y88b  d88P 888    888`,
		` 888       888 8888888P" d88P     888  "Y8888P"  888    888`,
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "%s\n", hr)
	fmt.Fprintf(os.Stderr, "\n")
	for _, line := range art {
		fmt.Fprintf(os.Stderr, "%s%s%s\n", textColor, line, banner.ColorReset)
	}
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "%s  Market Data Collection Jobs%s\n", textColor, banner.ColorReset)
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "%s\n", hr)
	fmt.Fprintf(os.Stderr, "\n")

	kvPad := 16
	kvLines := [][2]string{
		{"Version", version},
		{"Build", build},
		{"Commit", commit},
		{"Environment", config.Environment},
		{"Run", runID},
		{"Sink", sink},
	}
	for _, kv := range kvLines {
		fmt.Fprintf(os.Stderr, "%s  %-*s %s%s\n", textColor, kvPad, kv[0], kv[1], banner.ColorReset)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "%s\n", hr)
	fmt.Fprintf(os.Stderr, "\n")

	logger.Info().
		Str("version", version).
		Str("build", build).
		Str("commit", commit).
		Str("environment", config.Environment).
		Str("run_id", runID).
		Str("sink", sink).
		Msg("Job runner started")
}

// PrintShutdownBanner displays the job-runner shutdown banner to stderr.
func PrintShutdownBanner(logger *Logger) {
	lineColor := banner.ColorCyan
	textColor := banner.ColorBold + banner.ColorWhite
	width := 42
	hr := lineColor + strings.Repeat("═", width) + banner.ColorReset

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "%s\n", hr)
	fmt.Fprintf(os.Stderr, "%s  MARKETDASH RUN COMPLETE%s\n", textColor, banner.ColorReset)
	fmt.Fprintf(os.Stderr, "%s\n", hr)
	fmt.Fprintf(os.Stderr, "\n")

	logger.Info().Msg("Job runner finished")
}
