package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/codelens/internal/health"
)

var errUnavailable = errors.New("service unavailable")

// NewHealthCmd creates the health command.
func NewHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check whether the analysis service is reachable",
		Long: `Probe GET /health once. Exits with status 1 when the service does not
answer with a 2xx status within probe_timeout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, client, err := setup(cmd)
			if err != nil {
				return err
			}
			r := health.Check(cmd.Context(), client, cfg.ProbeTimeout)
			out := cmd.OutOrStdout()
			if r.Available() {
				fmt.Fprintf(out, "%s: available (%s)\n", client.BaseURL(), r.Latency.Round(time.Millisecond))
				return nil
			}
			reason := "no response"
			if r.TimedOut {
				reason = fmt.Sprintf("no response within %s", cfg.ProbeTimeout)
			} else if r.Err != nil {
				reason = r.Err.Error()
			}
			fmt.Fprintf(out, "%s: unavailable: %s\n", client.BaseURL(), reason)
			return errUnavailable
		},
	}
}
