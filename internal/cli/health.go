package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

const healthPollInterval = 250 * time.Millisecond

func newHealthCmd() *cobra.Command {
	var wait time.Duration

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check server and store health",
		Long: `Check server and store health.

With --wait, keep polling until the server reports ok or the duration
elapses. Useful in scripts that start the server first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := waitHealthy(wait)
			if err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().DurationVar(&wait, "wait", 0, "Keep retrying for up to this long")

	return cmd
}

// waitHealthy polls /api/health until it succeeds or wait has elapsed.
// A zero wait makes a single attempt.
func waitHealthy(wait time.Duration) (HealthResult, error) {
	deadline := time.Now().Add(wait)

	for {
		var result HealthResult
		err := client.Get("/api/health", &result)
		if err == nil {
			return result, nil
		}
		if !time.Now().Add(healthPollInterval).Before(deadline) {
			if wait > 0 {
				return HealthResult{}, fmt.Errorf("server not healthy after %s: %w", wait, err)
			}
			return HealthResult{}, err
		}
		time.Sleep(healthPollInterval)
	}
}
