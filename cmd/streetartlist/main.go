package main

import (
	"fmt"
	"os"
	_ "time/tzdata"

	"github.com/urfave/cli/v2"
)

const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitUsageError   = 2
	ExitDataError    = 3
)

const defaultConfigPath = "./streetartlist.yaml"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitGeneralError)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "streetartlist",
		Usage:   "Street art event board and open-call deadline formatter",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   defaultConfigPath,
				Usage:   "Path to the YAML config file",
				EnvVars: []string{"STREETARTLIST_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error (overrides config)",
			},
		},
		Before: setupLogging,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the web board with scheduled feed refresh",
				Action: serve,
			},
			{
				Name:      "range",
				Usage:     "Format an event date range",
				ArgsUsage: "<start> [end]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "Event format: dated or ongoing"},
					&cli.StringFlag{Name: "device", Aliases: []string{"d"}, Value: "desktop", Usage: "mobile or desktop"},
					&cli.BoolFlag{Name: "preview", Aliases: []string{"p"}, Usage: "Compact card variant"},
					&cli.StringFlag{Name: "zone", Aliases: []string{"z"}, Usage: "Display time zone (default: config timezone, else UTC)"},
				},
				Action: formatRange,
			},
			{
				Name:      "deadline",
				Usage:     "Format an open-call deadline",
				ArgsUsage: "<end>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "tz", Usage: "Time zone the deadline is expressed in"},
					&cli.StringFlag{Name: "type", Aliases: []string{"t"}, Value: "Fixed", Usage: "Fixed, Rolling, Invite, Email or False"},
					&cli.BoolFlag{Name: "preview", Aliases: []string{"p"}, Usage: "Compact card variant"},
					&cli.BoolFlag{Name: "recap", Aliases: []string{"r"}, Usage: "Weekly recap variant (no zone)"},
					&cli.StringFlag{Name: "screen", Aliases: []string{"s"}, Value: "desktop", Usage: "mobile, tablet, desktop or xl_desktop"},
					&cli.BoolFlag{Name: "sup", Usage: "Wrap ordinal suffixes in <sup>"},
					&cli.StringFlag{Name: "zone", Aliases: []string{"z"}, Usage: "Fallback display time zone"},
				},
				Action: formatDeadline,
			},
			{
				Name:  "recap",
				Usage: "Refresh feeds once and print the open calls closing soon",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "days", Usage: "Look-ahead window in days (default: config recap_days)"},
					&cli.BoolFlag{Name: "json", Usage: "Print JSON instead of text"},
				},
				Action: printRecap,
			},
			{
				Name:  "export",
				Usage: "Refresh feeds once and print the deadline calendar",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output file (default: stdout)"},
				},
				Action: exportCalendar,
			},
		},
	}
}
