package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"srvhelper/internal/action"
	"srvhelper/internal/config"
	"srvhelper/internal/log"
	"srvhelper/internal/tui"
)

var (
	version = "dev"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:     "srvhelper",
		Short:   "Interactive helper for common Windows Server admin tasks",
		Long:    `Srvhelper is a menu-driven terminal tool for checking and installing winget and NetBird, and for backing up and restoring installed server roles.`,
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			// The TUI owns the terminal, so logs go to a file
			if err := log.Setup(cfg.Log.File, cfg.Log.Level); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
			}
			log.Infof("srvhelper %s starting", version)

			runner := action.NewRunner(cfg.Backups.Directory)
			p := tea.NewProgram(tui.New(cfg, runner))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("error running interface: %w", err)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadConfigFile(path)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	return cfg, nil
}

// configCmd writes the default configuration so the operator has a file to
// edit.
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Write the default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.DefaultPath()
			if err != nil {
				return fmt.Errorf("error resolving config path: %w", err)
			}
			if err := config.SaveConfig(config.New(), path); err != nil {
				return fmt.Errorf("error writing config: %w", err)
			}
			fmt.Printf("Default configuration written to %s\n", path)
			return nil
		},
	}
}
