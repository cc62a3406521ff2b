package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/parakeep/parakeep/internal/inbox"
	"github.com/parakeep/parakeep/internal/note"
	"github.com/parakeep/parakeep/internal/progress"
)

var (
	processDaemon   bool
	processInterval time.Duration
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Classify and file pending captures from the inbox",
	Long: `Reads capture files from the inbox directory, classifies each with the
configured model, and files them into the vault. Captures that were
already processed are skipped; captures that cannot reach the inference
service are held and retried on the next run.`,
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

		source, err := inbox.NewDirSource(cfg.InboxDir)
		if err != nil {
			return err
		}

		processor := inbox.NewProcessor(
			source,
			newScanner(cfg),
			newClassifier(cfg, provider),
			note.NewWriter(cfg.VaultPath),
			store,
			cfg.Retention(),
		)
		if !processDaemon {
			processor.SetReporter(progress.NewReporter())
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if processDaemon {
			fmt.Printf("Processing inbox every %s (Ctrl+C to stop)\n", processInterval)
			err := processor.RunLoop(ctx, processInterval)
			if err == context.Canceled {
				return nil
			}
			return err
		}

		summary, err := processor.Run(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Processed %d, skipped %d, held %d, failed %d\n",
			summary.Processed, summary.Skipped, summary.Held, summary.Failed)
		return nil
	},
}

func init() {
	processCmd.Flags().BoolVarP(&processDaemon, "daemon", "d", false, "run continuously")
	processCmd.Flags().DurationVar(&processInterval, "interval", 2*time.Minute, "polling interval in daemon mode")
	rootCmd.AddCommand(processCmd)
}
