package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/quotex/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// envOnlyKeys are omitted from the default YAML, so viper only learns about
// them through explicit env bindings
var envOnlyKeys = []string{
	"coref.api_key",
	"coref.model",
	"http.http_proxy",
	"http.https_proxy",
	"http.no_proxy",
}

// configure points v at the config file and the QUOTEX_* environment and
// registers every default, so env overrides reach nested keys
func configure(v *viper.Viper, file, home string) error {
	if file != "" {
		v.SetConfigFile(file)
	} else if home != "" {
		v.AddConfigPath(filepath.Join(home, ".quotex"))
		v.SetConfigType("yaml")
		v.SetConfigName("config")
	}

	// QUOTEX_COREF_PROVIDER sets coref.provider
	v.SetEnvPrefix("QUOTEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := setDefaults(v, model.DefaultConfig()); err != nil {
		return err
	}
	for _, key := range envOnlyKeys {
		_ = v.BindEnv(key)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// setDefaults registers every field of cfg as a viper default under its
// dotted YAML key
func setDefaults(v *viper.Viper, cfg *model.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal defaults: %w", err)
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("unmarshal defaults: %w", err)
	}

	var walk func(prefix string, node map[string]any)
	walk = func(prefix string, node map[string]any) {
		for key, val := range node {
			if sub, ok := val.(map[string]any); ok {
				walk(prefix+key+".", sub)
				continue
			}
			v.SetDefault(prefix+key, val)
		}
	}
	walk("", tree)
	return nil
}

// providerKeyEnv names the vendor key variable read when a model provider
// has no key of its own
var providerKeyEnv = map[string]string{
	"openai":    "OPENAI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
	"claude":    "ANTHROPIC_API_KEY",
}

// loadConfig decodes the effective configuration, falling back to the
// vendor key variable for model providers without a configured key.
func loadConfig(v *viper.Viper) (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if env, ok := providerKeyEnv[strings.ToLower(cfg.Coref.Provider)]; ok && cfg.Coref.APIKey == "" {
		cfg.Coref.APIKey = os.Getenv(env)
	}
	return cfg, nil
}

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage quotex configuration",
	Long: `Manage quotex configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (QUOTEX_*, .env is loaded first)
3. Config file (~/.quotex/config.yaml)
4. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration after merging defaults, config file, env vars and flags.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		if cfg.Coref.APIKey != "" {
			cfg.Coref.APIKey = "********"
		}

		if configFile := viper.ConfigFileUsed(); configFile != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", configFile)
		} else {
			fmt.Fprintf(os.Stderr, "No configuration file found (using defaults)\n\n")
		}

		yamlData, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}
		fmt.Print(string(yamlData))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize default configuration file",
	Long:  `Create a default configuration file at ~/.quotex/config.yaml.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("error finding home directory: %w", err)
		}

		configPath := filepath.Join(home, ".quotex", "config.yaml")
		if err := writeDefaultConfig(configPath); err != nil {
			return err
		}

		fmt.Printf("✓ Created default configuration: %s\n", configPath)
		fmt.Printf("\nTo customize, edit the file with your preferred editor:\n")
		fmt.Printf("  $EDITOR %s\n", configPath)
		return nil
	},
}

// writeDefaultConfig writes the commented default configuration to path,
// refusing to overwrite an existing file
func writeDefaultConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s\nUse 'quotex config show' to view it, or delete it first to recreate", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	yamlData, err := yaml.Marshal(model.DefaultConfig())
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	var buf strings.Builder
	buf.WriteString("# quotex configuration file\n")
	buf.WriteString("#\n")
	buf.WriteString("# Configuration hierarchy (highest to lowest priority):\n")
	buf.WriteString("#   1. CLI flags\n")
	buf.WriteString("#   2. Environment variables (QUOTEX_*)\n")
	buf.WriteString("#   3. This config file\n")
	buf.WriteString("#   4. Built-in defaults\n\n")
	buf.Write(yamlData)
	buf.WriteString("\n# Coref provider keys (recommended to use environment variables instead):\n")
	buf.WriteString("#   export QUOTEX_COREF_API_KEY=...\n")
	buf.WriteString("#   export OPENAI_API_KEY=sk-...\n")
	buf.WriteString("#   export ANTHROPIC_API_KEY=sk-ant-...\n")

	if err := os.WriteFile(path, []byte(buf.String()), 0644); err != nil {
		return fmt.Errorf("error writing config: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
