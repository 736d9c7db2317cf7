package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sheetwright/sheetwright/internal/ai"
	cfgpkg "github.com/sheetwright/sheetwright/internal/config"
	"github.com/sheetwright/sheetwright/internal/service"
	"github.com/sheetwright/sheetwright/internal/table"
)

var (
	// Global flags (wired later to config/viper)
	cfgFile string
	debug   bool
	// Ollama flags (override config if set)
	flagOllamaHost  string
	flagOllamaModel string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "sheetwright",
	Short: "Sheetwright: turn plain-English intents into spreadsheet formulas",
	Long:  `Sheetwright cleans, profiles and pivots Excel worksheets and synthesizes spreadsheet formulas from natural language, using deterministic rules first and a local Ollama model only for what the rules cannot handle.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.sheetwright/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagOllamaHost, "ollama-host", "", "Ollama host URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagOllamaModel, "model", "", "Ollama model name (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: allow running commands that don't need config
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("ollama-host") && flagOllamaHost != "" {
		cfg.OllamaHost = flagOllamaHost
	}
	if f.Changed("model") && flagOllamaModel != "" {
		cfg.OllamaModel = flagOllamaModel
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func newOracle() ai.Oracle {
	if cfg == nil {
		return ai.NewOllamaClient("", "", 0)
	}
	return ai.NewOllamaClient(cfg.OllamaHost, cfg.OllamaModel, time.Duration(cfg.OllamaTimeoutSec)*time.Second)
}

func newService() *service.Service {
	var opts service.Options
	if cfg != nil {
		opts = service.Options{
			JSONTemperature: cfg.JSONTemperature,
			TextTemperature: cfg.TextTemperature,
			PreviewRows:     cfg.PreviewRows,
		}
	}
	return service.NewWithOptions(newOracle(), newLogger(), opts)
}

// loadTable reads a worksheet or, for .csv/.tsv files, the whole file.
func loadTable(path, sheet string) (*table.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv":
		return table.LoadCSV(path)
	default:
		return table.LoadWorkbook(path, sheet)
	}
}
