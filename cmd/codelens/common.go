package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/codelens/internal/analyzer"
	"github.com/five82/codelens/internal/app"
	"github.com/five82/codelens/internal/config"
	"github.com/five82/codelens/internal/imagefile"
	"github.com/five82/codelens/internal/report"
	"github.com/five82/codelens/internal/workflow"
)

// setup loads the config and builds the client for a headless command.
func setup(cmd *cobra.Command) (config.Config, *analyzer.Client, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		log.SetOutput(cmd.ErrOrStderr())
	} else {
		log.SetOutput(io.Discard)
	}

	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}
	client, err := app.NewClient(cfg)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("init analyzer client: %w", err)
	}
	return cfg, client, nil
}

func addFormatFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", "text", "output format: text, json or markdown")
}

// writerFor returns the report writer selected by --format.
func writerFor(cmd *cobra.Command) (report.Writer, error) {
	raw, _ := cmd.Flags().GetString("format")
	format, err := report.ParseFormat(raw)
	if err != nil {
		return nil, err
	}
	return report.NewWriter(cmd.OutOrStdout(), format)
}

// scanImage runs one image through extraction and analysis. The report
// describes the run even when it fails.
func scanImage(ctx context.Context, svc workflow.Service, path string) (report.Report, error) {
	img, err := imagefile.Load(path)
	if err != nil {
		return report.Report{Image: path, Error: err.Error(), GeneratedAt: time.Now()}, err
	}

	flow := workflow.New()
	defer flow.Close()
	flow.SelectImage(img)
	runner := workflow.NewRunner(flow, svc)

	if _, err := runner.Extract(ctx); err != nil {
		return report.FromSnapshot(flow.Snapshot(), time.Now()), fmt.Errorf("extract %s: %w", img.Name, err)
	}
	if _, err := runner.Analyze(ctx); err != nil {
		return report.FromSnapshot(flow.Snapshot(), time.Now()), fmt.Errorf("analyze %s: %w", img.Name, err)
	}
	return report.FromSnapshot(flow.Snapshot(), time.Now()), nil
}
