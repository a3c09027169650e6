package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/five82/codelens/internal/imagefile"
	"github.com/five82/codelens/internal/workflow"
)

const defaultExtractJobs = 4

// NewExtractCmd creates the extract command.
func NewExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract IMAGE...",
		Short: "Print the code found in one or more images",
		Long: `Upload each image to the service and print the extracted text. Several
images are uploaded concurrently; output keeps the argument order.

Examples:
  codelens extract shot.png
  codelens extract -j 2 screenshots/*.png`,
		Args: cobra.MinimumNArgs(1),
		RunE: runExtract,
	}
	cmd.Flags().IntP("jobs", "j", defaultExtractJobs, "concurrent uploads")
	return cmd
}

type extraction struct {
	name string
	text string
	err  error
}

func runExtract(cmd *cobra.Command, args []string) error {
	_, client, err := setup(cmd)
	if err != nil {
		return err
	}
	jobs, _ := cmd.Flags().GetInt("jobs")
	if jobs <= 0 {
		jobs = defaultExtractJobs
	}

	results := make([]extraction, len(args))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(jobs)

	for i, path := range args {
		g.Go(func() error {
			res := extraction{name: path}
			img, err := imagefile.Load(path)
			if err != nil {
				res.err = err
			} else {
				flow := workflow.New()
				defer flow.Close()
				flow.SelectImage(img)
				res.text, res.err = workflow.NewRunner(flow, client).Extract(ctx)
			}
			if res.err != nil {
				log.Printf("extract %s failed: %v", path, res.err)
			}
			// Failures are reported per image; the rest keep going.
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	failed := 0
	for i, res := range results {
		if res.err != nil {
			failed++
			fmt.Fprintf(errOut, "%s: %v\n", res.name, res.err)
			continue
		}
		if len(results) > 1 {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "==> %s <==\n", res.name)
		}
		fmt.Fprintln(out, res.text)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d extractions failed", failed, len(results))
	}
	return nil
}
