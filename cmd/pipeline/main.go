package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/rxtech-lab/argo-pipeline/internal/config"
	"github.com/rxtech-lab/argo-pipeline/internal/indicator"
	"github.com/rxtech-lab/argo-pipeline/internal/ingest"
	"github.com/rxtech-lab/argo-pipeline/internal/logger"
	"github.com/rxtech-lab/argo-pipeline/internal/pipeline"
	"github.com/rxtech-lab/argo-pipeline/internal/version"
	"github.com/rxtech-lab/argo-pipeline/pkg/store"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// flagOverrides copies every flag the user set onto the loaded configuration.
func flagOverrides(cmd *cli.Command) func(*config.Config) {
	return func(c *config.Config) {
		if cmd.IsSet("input") {
			c.Input.Path = cmd.String("input")
		}

		if cmd.IsSet("format") {
			c.Input.Format = ingest.Format(cmd.String("format"))
		}

		if cmd.IsSet("freq") {
			c.Resample.Frequency = cmd.String("freq")
		}

		if cmd.IsSet("writer") {
			c.Output.Writer = store.WriterType(cmd.String("writer"))
		}

		if cmd.IsSet("output") {
			c.Output.Path = cmd.String("output")
		}

		if cmd.IsSet("table") {
			c.Output.Table = cmd.String("table")
		}

		if cmd.IsSet("parquet") {
			c.Output.ExportParquet = cmd.Bool("parquet")
		}

		if cmd.IsSet("log-level") {
			c.Log.Level = cmd.String("log-level")
		}
	}
}

// runAction loads the configuration and runs the pipeline once.
func runAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(config.LoadOptions{
		ConfigFile: cmd.String("config"),
		EnvFile:    cmd.String("env-file"),
		Overrides:  flagOverrides(cmd),
	})
	if err != nil {
		return err
	}

	log, err := logger.NewLoggerWithOptions(logger.Options{Level: cfg.Log.Level, Development: cfg.Log.Development})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()

	p, err := pipeline.New(cfg, log)
	if err != nil {
		return err
	}
	defer p.Close()

	var bar *progressbar.ProgressBar

	if !cmd.Bool("quiet") {
		p.SetProgress(func(current, total int) {
			if bar == nil {
				bar = progressbar.NewOptions(total,
					progressbar.OptionSetWriter(os.Stderr),
					progressbar.OptionSetDescription(fmt.Sprintf("Writing %s", cfg.Output.Table)),
					progressbar.OptionShowCount(),
				)
			}

			_ = bar.Set(current)
		})
	}

	report, err := p.Run(ctx)
	if bar != nil {
		_ = bar.Finish()
	}

	if err != nil {
		log.Error("Pipeline run failed", zap.String("run_id", report.RunID.String()), zap.Error(err))

		return err
	}

	if report.Diagnostic != "" {
		fmt.Fprintf(os.Stderr, "warning: %s\n", report.Diagnostic)
	}

	fmt.Printf("run %s: %d rows in, %d valid, %d written to %s (%s)\n",
		report.RunID, report.InputRows, report.ValidRows, report.OutputRows, report.OutputPath, report.Duration)

	return nil
}

func schemaAction(_ context.Context, _ *cli.Command) error {
	schema, err := config.Schema()
	if err != nil {
		return err
	}

	fmt.Println(schema)

	return nil
}

func indicatorsAction(_ context.Context, _ *cli.Command) error {
	registry := indicator.DefaultRegistry()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "catalog version %s\n\n", indicator.CatalogVersion)
	fmt.Fprintln(w, "INDICATOR\tCOLUMNS")

	for _, name := range registry.ListIndicators() {
		ind, err := registry.GetIndicator(name)
		if err != nil {
			return err
		}

		fmt.Fprintf(w, "%s\t%s\n", name, strings.Join(ind.Columns(), ", "))
	}

	return w.Flush()
}

func main() {
	cmd := &cli.Command{
		Name:    "pipeline",
		Usage:   "Clean, enrich, resample and persist OHLCV data",
		Version: version.GetVersion(),
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run the pipeline once",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to a YAML configuration file",
					},
					&cli.StringFlag{
						Name:  "env-file",
						Usage: "Path to a .env file",
						Value: ".env",
					},
					&cli.StringFlag{
						Name:    "input",
						Aliases: []string{"i"},
						Usage:   "Path to the raw OHLCV file",
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: fmt.Sprintf("Input format (%s or %s). Inferred from the extension when omitted", ingest.FormatCSV, ingest.FormatJSON),
					},
					&cli.StringFlag{
						Name:    "freq",
						Aliases: []string{"f"},
						Usage:   "Resample bucket width, e.g. `D`, 1h or \"1 day\"",
					},
					&cli.StringFlag{
						Name:    "writer",
						Aliases: []string{"w"},
						Usage:   fmt.Sprintf("Storage engine (%s or %s)", store.WriterSQLite, store.WriterDuckDB),
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Path of the output database file",
					},
					&cli.StringFlag{
						Name:  "table",
						Usage: "Name of the output table",
					},
					&cli.BoolFlag{
						Name:  "parquet",
						Usage: "Also export the table to Parquet (duckdb writer only)",
					},
					&cli.StringFlag{
						Name:  "log-level",
						Usage: "Log level (debug, info, warn, error)",
					},
					&cli.BoolFlag{
						Name:    "quiet",
						Aliases: []string{"q"},
						Usage:   "Do not render the progress bar",
					},
				},
				Action: runAction,
			},
			{
				Name:   "schema",
				Usage:  "Print the JSON schema of the configuration file",
				Action: schemaAction,
			},
			{
				Name:   "indicators",
				Usage:  "List the indicator catalog",
				Action: indicatorsAction,
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		stop()
		log.Fatal(err)
	}
}
