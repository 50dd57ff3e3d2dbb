// Package main provides the killstats CLI application.
//
// Killstats fetches a corporation's monthly kill and loss records from
// the zKillboard API, enriches them through ESI, and renders ranked
// per-pilot and per-ship statistics.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"
)

// version is set during build time.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run executes the main application logic.
func run() error {
	// Define global flags.
	configPath := flag.String("config", "", "path to configuration file")
	showVersion := flag.Bool("version", false, "show version information")

	// Parse command.
	flag.Parse()

	// Handle version flag.
	if *showVersion {
		fmt.Printf("killstats %s\n", version)
		return nil
	}

	// Get command.
	args := flag.Args()
	if len(args) == 0 {
		return showUsage()
	}

	command := args[0]

	switch command {
	case "kills":
		return runStatsCommand(*configPath, kindKills, args[1:])
	case "losses":
		return runStatsCommand(*configPath, kindLosses, args[1:])
	case "config":
		return runConfigCommand(*configPath, args[1:])
	case "help":
		return showUsage()
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

// runStatsCommand runs the kills or losses command.
func runStatsCommand(configPath string, kind string, args []string) error {
	now := time.Now().UTC()

	// Define command-specific flags.
	fs := flag.NewFlagSet(kind, flag.ExitOnError)
	corp := fs.Int64("corp", 0, "corporation ID (overrides configuration)")
	year := fs.Int("year", now.Year(), "year of the tracked month")
	month := fs.Int("month", int(now.Month()), "month of the tracked month (1-12)")
	solo := fs.Bool("solo", false, "only solo records")
	wspace := fs.Bool("wspace", false, "only wormhole-space records")
	top := fs.Int("top", 0, "truncate rankings to the top N entries (0 = all)")
	format := fs.String("format", "table", "output format (table, markdown, json)")
	output := fs.String("output", "", "write the report to this directory instead of stdout")
	save := fs.Bool("save", false, "write the report to the configured report directory")
	noProgress := fs.Bool("no-progress", false, "disable the fetch progress bar")
	compact := fs.Bool("compact", false, "compact output")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cmd := &statsCommand{
		kind:       kind,
		corp:       *corp,
		year:       *year,
		month:      *month,
		solo:       *solo,
		wspace:     *wspace,
		top:        *top,
		format:     *format,
		output:     *output,
		save:       *save,
		noProgress: *noProgress,
		compact:    *compact,
		configPath: configPath,
	}

	return cmd.Execute()
}

// runConfigCommand runs the config command.
func runConfigCommand(configPath string, args []string) error {
	cmd := &configCommand{
		configPath: configPath,
	}
	return cmd.Execute(args)
}

// showUsage displays usage information.
func showUsage() error {
	usage := `Killstats - corporation killboard statistics tool

Usage:
  killstats [flags] <command> [command flags]

Commands:
  kills       Fetch and rank the corporation's kills for one month
  losses      Fetch and rank the corporation's losses for one month
  config      Configuration management (show, path, reset)
  help        Show this help message

Global Flags:
  -config      Path to configuration file
  -version     Show version information

Kills/Losses Command Flags:
  -corp        Corporation ID (overrides configuration)
  -year        Year of the tracked month (default: current)
  -month       Month of the tracked month, 1-12 (default: current)
  -solo        Only solo records
  -wspace      Only wormhole-space records
  -top         Truncate rankings to the top N entries (0 = all)
  -format      Output format (table, markdown, json)
  -output      Write the report to this directory instead of stdout
  -save        Write the report to the configured report directory
  -no-progress Disable the fetch progress bar
  -compact     Compact output

Examples:
  # Kills for the current month
  killstats kills -corp 98626718

  # Losses for January 2026, top 10 pilots, markdown on disk
  killstats losses -corp 98626718 -year 2026 -month 1 -top 10 -format markdown -output ./reports

  # Solo kills only, JSON to stdout
  killstats kills -corp 98626718 -solo -format json

  # Configuration management
  killstats config show
  killstats config path
  killstats config reset
`
	fmt.Print(usage)
	return nil
}
