package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Local runtimes (Ollama)
	OllamaHost       string `mapstructure:"ollama_host" yaml:"ollama_host"`
	OllamaModel      string `mapstructure:"ollama_model" yaml:"ollama_model"`
	OllamaTimeoutSec int    `mapstructure:"ollama_timeout_sec" yaml:"ollama_timeout_sec"`

	// Oracle sampling
	JSONTemperature float64 `mapstructure:"json_temperature" yaml:"json_temperature"`
	TextTemperature float64 `mapstructure:"text_temperature" yaml:"text_temperature"`

	// HTTP server
	ServerHost string `mapstructure:"server_host" yaml:"server_host"`
	ServerPort int    `mapstructure:"server_port" yaml:"server_port"`

	// All workbook paths handled by the server must resolve inside this
	// directory.
	WorkspaceDir string `mapstructure:"workspace_dir" yaml:"workspace_dir"`

	// Rows of data shared with the oracle when answering questions.
	PreviewRows int `mapstructure:"preview_rows" yaml:"preview_rows"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.sheetwright/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".sheetwright")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("SHEETWRIGHT")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("ollama_host", "http://127.0.0.1:11434")
	v.SetDefault("ollama_model", "llama3")
	v.SetDefault("ollama_timeout_sec", 45)
	v.SetDefault("json_temperature", 0.1)
	v.SetDefault("text_temperature", 0.3)
	v.SetDefault("server_host", "127.0.0.1")
	v.SetDefault("server_port", 8000)
	v.SetDefault("workspace_dir", "sample_files")
	v.SetDefault("preview_rows", 5)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".sheetwright")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	// A relative workspace dir anchors at the working directory.
	if abs, err := filepath.Abs(c.WorkspaceDir); err == nil {
		c.WorkspaceDir = abs
	}
	return &c, nil
}
