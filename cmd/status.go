package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/parakeep/parakeep/internal/state"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show inference, vault, and processing health",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		provider, err := newProvider(cfg)
		if err != nil {
			return err
		}
		store, err := newStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		health := provider.Health(cmd.Context())
		fmt.Printf("Inference (%s):\n", provider.Name())
		fmt.Printf("  server:  %s\n", yesNo(health.ServerRunning))
		fmt.Printf("  model:   %s (%s)\n", health.Model, yesNo(health.ModelAvailable))
		if health.Detail != "" {
			fmt.Printf("  detail:  %s\n", health.Detail)
		}

		healthy, detail := state.Healthy(store, 24*time.Hour)
		fmt.Printf("\nProcessing:\n")
		fmt.Printf("  healthy: %s\n", yesNo(healthy))
		if detail != "" {
			fmt.Printf("  detail:  %s\n", detail)
		}

		runs, err := store.Runs(5)
		if err != nil {
			return err
		}
		if len(runs) > 0 {
			fmt.Printf("\nRecent runs:\n")
			for _, run := range runs {
				fmt.Printf("  %s  %-7s  %s\n", run.Timestamp.Format(time.RFC3339), run.Outcome, run.Detail)
			}
		}
		return nil
	},
}

func yesNo(ok bool) string {
	if ok {
		return "ok"
	}
	return "NOT OK"
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
