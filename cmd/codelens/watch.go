package main

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/five82/codelens/internal/app"
	"github.com/five82/codelens/internal/imagefile"
	"github.com/five82/codelens/internal/report"
)

// NewWatchCmd creates the watch command.
func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch DIR",
		Short: "Scan every image saved into a directory",
		Long: `Watch DIR and run each new ` + extList() + ` image through
extraction and analysis, printing a report per image. Runs until interrupted.`,
		Args: cobra.ExactArgs(1),
		RunE: runWatch,
	}
	addFormatFlag(cmd)
	cmd.Flags().Duration("settle", app.DefaultSettle, "wait this long after the last write before scanning")
	cmd.Flags().Bool("save", false, "also write a markdown report per image to report_dir")
	return cmd
}

func extList() string {
	return strings.Join(imagefile.Extensions(), "/")
}

func runWatch(cmd *cobra.Command, args []string) error {
	w, err := writerFor(cmd)
	if err != nil {
		return err
	}
	cfg, client, err := setup(cmd)
	if err != nil {
		return err
	}
	settle, _ := cmd.Flags().GetDuration("settle")
	save, _ := cmd.Flags().GetBool("save")

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	fmt.Fprintf(errOut, "watching %s for images (ctrl+c to stop)\n", args[0])

	var mu sync.Mutex
	handle := func(ctx context.Context, path string) {
		r, err := scanImage(ctx, client, path)
		mu.Lock()
		defer mu.Unlock()
		if werr := w.Write(r); werr != nil {
			fmt.Fprintf(errOut, "%s: %v\n", path, werr)
		}
		fmt.Fprintln(out)
		if err != nil {
			fmt.Fprintf(errOut, "%s: %v\n", path, err)
		}
		if save {
			if p, err := report.Save(cfg.ReportDir, r); err != nil {
				fmt.Fprintf(errOut, "%s: %v\n", path, err)
			} else {
				fmt.Fprintf(errOut, "report written to %s\n", p)
			}
		}
	}
	return app.Watch(cmd.Context(), args[0], settle, handle)
}
