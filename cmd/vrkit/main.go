// Package main provides the CLI entry point for vrkit.
package main

import (
	"fmt"
	"os"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"
)

var version = "dev"

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "vrkit",
		Usage:   l10n.T("Repair videos with missing frames"),
		Version: version,
		Description: l10n.T("vrkit decodes a video, fills or drops the frames that failed to decode, " +
			"and re-encodes the result as H.264 MP4."),
		Commands: []*cli.Command{
			{
				Name:      "repair",
				Usage:     l10n.T("Repair a single video"),
				ArgsUsage: "<input>",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "output",
						Aliases:  []string{"o"},
						Usage:    l10n.T("Output MP4 file path (required)"),
						Required: true,
						Category: l10n.T("Output"),
					},
					&cli.StringFlag{
						Name:     "summary",
						Usage:    l10n.T("Output execution summary to file (Markdown format)"),
						Category: l10n.T("Output"),
					},
				}, commonFlags()...),
				Action: repairAction,
			},
			{
				Name:      "batch",
				Usage:     l10n.T("Repair every video in a directory"),
				ArgsUsage: "<dir>",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "output",
						Aliases:  []string{"o"},
						Usage:    l10n.T("Output directory (required)"),
						Required: true,
						Category: l10n.T("Output"),
					},
					&cli.StringFlag{
						Name:     "summary",
						Usage:    l10n.T("Directory for per-file summaries (Markdown format)"),
						Category: l10n.T("Output"),
					},
					&cli.IntFlag{
						Name:     "workers",
						Aliases:  []string{"j"},
						Usage:    l10n.T("Number of videos processed at once"),
						Category: l10n.T("Batch"),
					},
					&cli.StringFlag{
						Name:     "suffix",
						Usage:    l10n.T("Suffix appended to output file names"),
						Category: l10n.T("Batch"),
					},
				}, commonFlags()...),
				Action: batchAction,
			},
			{
				Name:      "probe",
				Usage:     l10n.T("Show stream information of a video"),
				ArgsUsage: "<input>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "ffmpeg",
						Usage: l10n.T("Path to ffmpeg executable"),
					},
				},
				Action: probeAction,
			},
		},
	}
}

// commonFlags returns the flags shared by repair and batch.
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "config",
			Aliases:  []string{"c"},
			Usage:    l10n.T("YAML configuration file"),
			Category: l10n.T("Configuration"),
		},

		// Repair
		&cli.Float64Flag{
			Name:     "threshold",
			Aliases:  []string{"t"},
			Usage:    l10n.T("Gap ratio above which missing frames are dropped (0-1, default: 0.1)"),
			Category: l10n.T("Repair"),
		},
		&cli.Float64Flag{
			Name:     "weight",
			Aliases:  []string{"w"},
			Usage:    l10n.T("Weight of the earlier frame when blending (0-1, default: 0.5)"),
			Category: l10n.T("Repair"),
		},
		&cli.StringFlag{
			Name:     "strategy",
			Aliases:  []string{"s"},
			Usage:    l10n.T("Repair strategy (auto, drop, interpolate)"),
			Category: l10n.T("Repair"),
		},
		&cli.BoolFlag{
			Name:     "no-copy",
			Usage:    l10n.T("Re-encode even when no frame is missing"),
			Category: l10n.T("Repair"),
		},

		// Encoding
		&cli.IntFlag{
			Name:     "quality",
			Aliases:  []string{"q"},
			Usage:    l10n.T("Video quality (0-63, lower is better)"),
			Category: l10n.T("Video and Quality"),
		},
		&cli.IntFlag{
			Name:     "bitrate",
			Usage:    l10n.T("Target bitrate in kbps (0 = CRF only)"),
			Category: l10n.T("Video and Quality"),
		},
		&cli.Float64Flag{
			Name:     "fps",
			Usage:    l10n.T("Output frame rate (default: input frame rate)"),
			Category: l10n.T("Video and Quality"),
		},
		&cli.StringFlag{
			Name:     "ffmpeg",
			Usage:    l10n.T("Path to ffmpeg executable"),
			Category: l10n.T("Video and Quality"),
		},

		// Debug
		&cli.BoolFlag{
			Name:     "debug",
			Aliases:  []string{"d"},
			Usage:    l10n.T("Enable debug output"),
			Category: l10n.T("Debug"),
		},
		&cli.StringFlag{
			Name:     "debug-dir",
			Usage:    l10n.T("Directory for debug output"),
			Category: l10n.T("Debug"),
		},

		// Logging
		&cli.StringFlag{
			Name:     "log-level",
			Aliases:  []string{"l"},
			Usage:    l10n.T("Log level (debug, info, warn, error)"),
			Category: l10n.T("Logging"),
		},
		&cli.BoolFlag{
			Name:     "quiet",
			Aliases:  []string{"Q"},
			Usage:    l10n.T("Suppress all log output"),
			Category: l10n.T("Logging"),
		},
	}
}
