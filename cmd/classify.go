package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <text>",
	Short: "Classify a capture without filing it",
	Long: `Runs the classification pipeline on the given text and prints the
resulting domain, section, subject, and category as JSON. Nothing is
written to the vault or the state store.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		provider, err := newProvider(cfg)
		if err != nil {
			return err
		}

		scanner := newScanner(cfg)
		hierarchy, err := scanner.GetHierarchy(false)
		if err != nil {
			return err
		}

		text := strings.Join(args, " ")
		result, err := newClassifier(cfg, provider).Classify(cmd.Context(), text, hierarchy)
		if err != nil {
			return err
		}

		if !verbose {
			result.Raw = ""
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Would file to: %s/%s/%s\n", result.Domain, result.Section, result.Subject)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}
