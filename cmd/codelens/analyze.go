package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/codelens/internal/report"
	"github.com/five82/codelens/internal/workflow"
)

// NewAnalyzeCmd creates the analyze command.
func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [FILE|-]",
		Short: "Review code text for readability and bugs",
		Long: `Send code to the service for review. The code is read from FILE, or from
standard input when FILE is "-" or omitted.

Examples:
  codelens analyze main.py
  pbpaste | codelens analyze --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAnalyze,
	}
	addFormatFlag(cmd)
	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	w, err := writerFor(cmd)
	if err != nil {
		return err
	}
	code, err := readCode(cmd, args)
	if err != nil {
		return err
	}
	if strings.TrimSpace(code) == "" {
		return fmt.Errorf("no code to analyze")
	}

	_, client, err := setup(cmd)
	if err != nil {
		return err
	}

	flow := workflow.New()
	flow.EditCode(code)
	if _, err := workflow.NewRunner(flow, client).Analyze(cmd.Context()); err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	return w.Write(report.FromSnapshot(flow.Snapshot(), time.Now()))
}

func readCode(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read code: %w", err)
	}
	return string(data), nil
}
