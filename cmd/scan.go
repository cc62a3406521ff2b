package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var scanRefresh bool

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Discover the vault's folder taxonomy",
	Long: `Walks the vault three levels deep (domain / section / subject) and
prints the discovered taxonomy. The result is cached; use --refresh to
force a fresh walk.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		scanner := newScanner(cfg)
		hierarchy, err := scanner.GetHierarchy(scanRefresh)
		if err != nil {
			return err
		}

		vocab := hierarchy.Vocabulary()
		fmt.Printf("Vault: %s (%d domains, %d sections, %d subjects)\n",
			cfg.VaultPath, len(vocab.Domains), len(vocab.Sections), len(vocab.Subjects))

		for _, domain := range hierarchy.Domains() {
			fmt.Printf("\n%s\n", domain)
			sections := make([]string, 0, len(hierarchy[domain]))
			for section := range hierarchy[domain] {
				sections = append(sections, section)
			}
			sort.Strings(sections)
			for _, section := range sections {
				fmt.Printf("  %s\n", section)
				for _, subject := range hierarchy[domain][section] {
					fmt.Printf("    %s\n", subject)
				}
			}
		}
		return nil
	},
}

func init() {
	scanCmd.Flags().BoolVar(&scanRefresh, "refresh", false, "bypass the cached taxonomy and rescan")
	rootCmd.AddCommand(scanCmd)
}
