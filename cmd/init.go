package cmd

import (
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/parakeep/parakeep/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a parakeep config file interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(cfgFile); err == nil {
			confirm := promptui.Prompt{
				Label:     fmt.Sprintf("%s already exists, overwrite", cfgFile),
				IsConfirm: true,
			}
			if _, err := confirm.Run(); err != nil {
				fmt.Println("Aborted.")
				return nil
			}
		}

		cfg := config.DefaultConfig()

		vaultPrompt := promptui.Prompt{
			Label:   "Vault root directory",
			Default: cfg.VaultPath,
		}
		vaultPath, err := vaultPrompt.Run()
		if err != nil {
			return fmt.Errorf("vault path: %w", err)
		}
		cfg.VaultPath = vaultPath

		providerPrompt := promptui.Select{
			Label: "Select inference provider",
			Items: []string{"ollama", "openai"},
		}
		_, providerStr, err := providerPrompt.Run()
		if err != nil {
			return fmt.Errorf("provider selection: %w", err)
		}
		cfg.Provider = config.ProviderType(providerStr)

		modelPrompt := promptui.Prompt{
			Label:   "Model",
			Default: config.DefaultModel(cfg.Provider),
		}
		model, err := modelPrompt.Run()
		if err != nil {
			return fmt.Errorf("model: %w", err)
		}
		cfg.Model = model

		inboxPrompt := promptui.Prompt{
			Label:   "Inbox directory for capture files",
			Default: cfg.InboxDir,
		}
		inboxDir, err := inboxPrompt.Run()
		if err != nil {
			return fmt.Errorf("inbox dir: %w", err)
		}
		cfg.InboxDir = inboxDir

		if err := cfg.Save(cfgFile); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("\nWrote %s\n", cfgFile)
		fmt.Println("Next steps:")
		fmt.Println("  parakeep scan        # discover your vault taxonomy")
		fmt.Println("  parakeep process     # classify and file pending captures")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
