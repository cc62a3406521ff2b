package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/parakeep/parakeep/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing capture classification and vault taxonomy tools for AI agents.`,
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

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "parakeep MCP server started on stdio (vault=%s, provider=%s)\n", cfg.VaultPath, cfg.Provider)

		srv := mcpserver.NewServer(scanner, classifier, store)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
