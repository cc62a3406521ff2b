package cmd

import (
	"fmt"
	"sort"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/parakeep/parakeep/internal/note"
)

var fixCmd = &cobra.Command{
	Use:   "fix <capture-id>",
	Short: "Relocate a misfiled capture",
	Long: `Looks up the note created for a capture and moves it to a different
domain/section/subject picked interactively from the vault taxonomy.
The capture's artifact mapping is updated to the new location.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := newStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		path, ok, err := store.Artifact(id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no note recorded for capture %q", id)
		}
		fmt.Printf("Current location: %s\n", path)

		hierarchy, err := newScanner(cfg).GetHierarchy(false)
		if err != nil {
			return err
		}

		domainPrompt := promptui.Select{
			Label: "Select domain",
			Items: hierarchy.Domains(),
		}
		_, domain, err := domainPrompt.Run()
		if err != nil {
			return fmt.Errorf("domain selection: %w", err)
		}

		sections := make([]string, 0, len(hierarchy[domain]))
		for section := range hierarchy[domain] {
			sections = append(sections, section)
		}
		sort.Strings(sections)
		sectionPrompt := promptui.Select{
			Label: "Select section",
			Items: sections,
		}
		_, section, err := sectionPrompt.Run()
		if err != nil {
			return fmt.Errorf("section selection: %w", err)
		}

		subjects := append([]string{cfg.Defaults.Subject}, hierarchy[domain][section]...)
		subjectPrompt := promptui.Select{
			Label: "Select subject",
			Items: subjects,
		}
		_, subject, err := subjectPrompt.Run()
		if err != nil {
			return fmt.Errorf("subject selection: %w", err)
		}

		dest, err := note.Move(path, cfg.VaultPath, domain, section, subject)
		if err != nil {
			return fmt.Errorf("moving note: %w", err)
		}
		if err := store.SetArtifact(id, dest); err != nil {
			return fmt.Errorf("updating artifact mapping: %w", err)
		}

		fmt.Printf("Moved to: %s\n", dest)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fixCmd)
}
