package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/codelens/internal/report"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan IMAGE",
		Short: "Extract code from an image and review it",
		Long: `Run the whole workflow for one image: extract the code, analyze it, and
print a report. --save also writes a markdown report to report_dir.`,
		Args: cobra.ExactArgs(1),
		RunE: runScan,
	}
	addFormatFlag(cmd)
	cmd.Flags().Bool("save", false, "also write a markdown report to report_dir")
	return cmd
}

func runScan(cmd *cobra.Command, args []string) error {
	w, err := writerFor(cmd)
	if err != nil {
		return err
	}
	cfg, client, err := setup(cmd)
	if err != nil {
		return err
	}

	r, scanErr := scanImage(cmd.Context(), client, args[0])
	if err := w.Write(r); err != nil {
		return err
	}

	if save, _ := cmd.Flags().GetBool("save"); save {
		path, err := report.Save(cfg.ReportDir, r)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "report written to %s\n", path)
	}
	return scanErr
}
