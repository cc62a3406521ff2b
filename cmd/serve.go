package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/parakeep/parakeep/internal/inbox"
	"github.com/parakeep/parakeep/internal/note"
	"github.com/parakeep/parakeep/internal/server"
)

var (
	servePort      int
	serveAllowAll  bool
	serveProcessor bool
	serveInterval  time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the parakeep HTTP server",
	Long: `Starts the parakeep HTTP server with a REST API for classification,
vault taxonomy browsing, note previews, and a websocket event stream.
With --process, the inbox processor runs alongside the server and publishes
filing events to connected clients.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		provider, err := newProvider(cfg)
		if err != nil {
			return fmt.Errorf("creating provider: %w", err)
		}
		scanner := newScanner(cfg)
		classifier := newClassifier(cfg, provider)

		store, err := newStore(cfg)
		if err != nil {
			return fmt.Errorf("opening state store: %w", err)
		}
		defer store.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}
		srv := server.New(server.Config{
			Port:     port,
			AllowAll: serveAllowAll || cfg.Server.AllowAll,
		}, scanner, classifier, provider, store)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if serveProcessor {
			source, err := inbox.NewDirSource(cfg.InboxDir)
			if err != nil {
				return fmt.Errorf("opening inbox: %w", err)
			}
			writer := note.NewWriter(cfg.VaultPath)
			proc := inbox.NewProcessor(source, scanner, classifier, writer, store, cfg.Retention())
			events := srv.Events()
			proc.SetNotifier(func(kind, detail string) {
				events.Broadcast(server.Event{Type: kind, Detail: detail})
			})
			go func() {
				if err := proc.RunLoop(ctx, serveInterval); err != nil && err != context.Canceled {
					fmt.Fprintf(os.Stderr, "processor stopped: %v\n", err)
				}
			}()
		}

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		fmt.Fprintf(os.Stderr, "parakeep server v%s starting on port %d\n", Version, port)
		fmt.Fprintf(os.Stderr, "  Vault: %s\n", cfg.VaultPath)
		fmt.Fprintf(os.Stderr, "  Provider: %s (%s)\n", cfg.Provider, cfg.Model)

		return srv.Start()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	serveCmd.Flags().BoolVar(&serveAllowAll, "allow-all", false, "Allow cross-origin requests from any origin")
	serveCmd.Flags().BoolVar(&serveProcessor, "process", false, "Run the inbox processor alongside the server")
	serveCmd.Flags().DurationVar(&serveInterval, "interval", 2*time.Minute, "Processing interval when --process is set")
	rootCmd.AddCommand(serveCmd)
}
