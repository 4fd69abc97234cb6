package main

import (
	"fmt"
	"os"

	"github.com/homekey-labs/homekey/internal/config"
	"github.com/spf13/cobra"
)

var setupFlags struct {
	project bool
	force   bool
	company string
	phone   string
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create homekey configuration file",
	Long: `Create a homekey configuration file with sensible defaults.

By default, creates a global config at ~/.config/homekey/homekey.yml.
Use --project to create a project-local config in the current directory.`,
	RunE: runSetup,
}

func init() {
	setupCmd.Flags().BoolVarP(&setupFlags.project, "project", "p", false, "Create config in current directory instead of global location")
	setupCmd.Flags().BoolVarP(&setupFlags.force, "force", "f", false, "Overwrite existing config file")
	setupCmd.Flags().StringVar(&setupFlags.company, "company", "", "Business name shown in the header")
	setupCmd.Flags().StringVar(&setupFlags.phone, "phone", "", "Business phone number")
}

func runSetup(cmd *cobra.Command, args []string) error {
	targetPath := config.GlobalPath()
	if setupFlags.project {
		targetPath = config.ProjectPath()
	}

	if !setupFlags.force && fileExists(targetPath) {
		return fmt.Errorf("config file already exists at %s\n\nUse --force to overwrite", targetPath)
	}

	cfg := config.Default()
	if setupFlags.company != "" {
		cfg.CompanyName = setupFlags.company
	}
	if setupFlags.phone != "" {
		cfg.Phone = setupFlags.phone
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	var err error
	if setupFlags.project {
		err = config.WriteProject(cfg)
	} else {
		err = config.WriteGlobal(cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Printf("Config written to: %s\n\n", targetPath)
	fmt.Println("Run 'homekey' to start the kiosk.")
	return nil
}

// fileExists checks if a file exists (helper for setup command).
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
