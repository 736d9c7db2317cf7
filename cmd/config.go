package cmd

import (
	"fmt"
	"strconv"

	cfgpkg "github.com/sheetwright/sheetwright/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set Sheetwright configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("ollama_host: %s\n", cfg.OllamaHost)
		fmt.Printf("ollama_model: %s\n", cfg.OllamaModel)
		fmt.Printf("ollama_timeout_sec: %d\n", cfg.OllamaTimeoutSec)
		fmt.Printf("json_temperature: %.2f\n", cfg.JSONTemperature)
		fmt.Printf("text_temperature: %.2f\n", cfg.TextTemperature)
		fmt.Printf("server_host: %s\n", cfg.ServerHost)
		fmt.Printf("server_port: %d\n", cfg.ServerPort)
		fmt.Printf("workspace_dir: %s\n", cfg.WorkspaceDir)
		fmt.Printf("preview_rows: %d\n", cfg.PreviewRows)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value and save it",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			cfg = &cfgpkg.Global{}
		}
		key, value := args[0], args[1]
		switch key {
		case "ollama_host":
			cfg.OllamaHost = value
		case "ollama_model":
			cfg.OllamaModel = value
		case "ollama_timeout_sec":
			n, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", key, err)
			}
			cfg.OllamaTimeoutSec = n
		case "server_host":
			cfg.ServerHost = value
		case "server_port":
			n, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", key, err)
			}
			cfg.ServerPort = n
		case "workspace_dir":
			cfg.WorkspaceDir = value
		case "preview_rows":
			n, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", key, err)
			}
			cfg.PreviewRows = n
		default:
			return fmt.Errorf("unknown config key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Printf("✓ Set %s = %s\n", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
