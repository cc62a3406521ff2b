package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "parakeep",
	Short: "Route free-text captures into a PARA-organized note vault",
	Long: `Parakeep scans your note vault's folder taxonomy, classifies free-text
captures with a local LLM into domain, section, subject, and category,
and files each capture as a markdown note in the right folder. Processed
captures are tracked so reruns never duplicate notes, and corrections
can relocate a note after the fact.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".parakeep.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
