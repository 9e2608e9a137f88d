package main

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/st3v3nmw/ledgerprobe/internal/cli"
	commands "github.com/urfave/cli/v3"
)

func main() {
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cmd := &commands.Command{
		Name:  "ledgerprobe",
		Usage: "Probe a ledger node's HTTP API for protocol conformance",
		Flags: []commands.Flag{
			&commands.BoolFlag{
				Name:    "verbose",
				Usage:   "Log requests, queue waits and signatures",
				Aliases: []string{"v"},
				Value:   false,
			},
		},
		Before: func(ctx context.Context, cmd *commands.Command) (context.Context, error) {
			if cmd.Bool("verbose") {
				logrus.SetLevel(logrus.DebugLevel)
			}
			return ctx, nil
		},
		Commands: []*commands.Command{
			{
				Name:      "init",
				Usage:     "Set up a directory to run a scenario from",
				ArgsUsage: "[path]",
				Flags: []commands.Flag{
					&commands.StringFlag{
						Name:  "scenario",
						Usage: "Scenario to run",
						Value: "community",
					},
					&commands.StringFlag{
						Name:  "base-url",
						Usage: "Where the node under test serves its API",
					},
				},
				Action: cli.InitScenario,
			},
			{
				Name:      "run",
				Usage:     "Run a stage against the node",
				ArgsUsage: "[stage]",
				Flags: []commands.Flag{
					&commands.BoolFlag{
						Name:  "keep-going",
						Usage: "Run the remaining tests after a failure",
					},
				},
				Action: cli.RunStage,
			},
			{
				Name:   "list",
				Usage:  "Show available scenarios",
				Action: cli.ListScenarios,
			},
			{
				Name:   "status",
				Usage:  "Show current progress",
				Action: cli.ShowStatus,
			},
			{
				Name:      "check",
				Usage:     "Validate a JSON document against a contract",
				ArgsUsage: "<contract> <file>",
				Action:    cli.CheckDocument,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		logrus.Fatal(err)
	}
}
