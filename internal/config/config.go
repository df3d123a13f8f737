package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/samsaffron/mdast/internal/cache"
	"github.com/samsaffron/mdast/pkg/markdown"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Parser ParserConfig `mapstructure:"parser" yaml:"parser"`
	Output OutputConfig `mapstructure:"output" yaml:"output"`
	Cache  cache.Config `mapstructure:"cache" yaml:"cache"`
}

// ParserConfig selects the markdown extensions
type ParserConfig struct {
	GFM  bool `mapstructure:"gfm" yaml:"gfm"`   // tables, strikethrough, task lists, autolinks
	Math bool `mapstructure:"math" yaml:"math"` // $inline$ and $$display$$
}

// OutputConfig controls how JSON is written
type OutputConfig struct {
	Pretty string `mapstructure:"pretty" yaml:"pretty"` // "auto", "always" or "never"
	Indent int    `mapstructure:"indent" yaml:"indent"` // spaces per level when pretty
}

const (
	PrettyAuto   = "auto"
	PrettyAlways = "always"
	PrettyNever  = "never"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("parser.gfm", true)
	v.SetDefault("parser.math", true)
	v.SetDefault("output.pretty", PrettyAuto)
	v.SetDefault("output.indent", 2)
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.max_entries", 1000)
	v.SetDefault("cache.path", "")
}

// Default returns the configuration used when no file or environment
// overrides exist.
func Default() *Config {
	return &Config{
		Parser: ParserConfig{GFM: true, Math: true},
		Output: OutputConfig{Pretty: PrettyAuto, Indent: 2},
		Cache:  cache.DefaultConfig(),
	}
}

// Load reads configuration from path, or from the XDG config directory
// when path is empty. Environment variables prefixed with MDAST_ override
// file values, e.g. MDAST_PARSER_GFM=false.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("MDAST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		configDir, err := GetConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get config dir: %w", err)
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(configDir)
	}

	// Read config file (optional unless given explicitly)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values Load cannot act on.
func (c *Config) Validate() error {
	switch c.Output.Pretty {
	case PrettyAuto, PrettyAlways, PrettyNever:
	default:
		return fmt.Errorf("output.pretty must be auto, always or never, got %q", c.Output.Pretty)
	}
	if c.Output.Indent < 0 || c.Output.Indent > 8 {
		return fmt.Errorf("output.indent must be between 0 and 8, got %d", c.Output.Indent)
	}
	if c.Cache.MaxEntries < 0 {
		return fmt.Errorf("cache.max_entries must not be negative, got %d", c.Cache.MaxEntries)
	}
	return nil
}

// ParserOptions converts the parser section into markdown options.
func (c *Config) ParserOptions() markdown.Options {
	return markdown.Options{
		GFM:  markdown.Bool(c.Parser.GFM),
		Math: markdown.Bool(c.Parser.Math),
	}
}

// GetConfigDir returns the XDG config directory for mdast.
// Uses $XDG_CONFIG_HOME if set, otherwise ~/.config
func GetConfigDir() (string, error) {
	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		return filepath.Join(xdgHome, "mdast"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "mdast"), nil
}

// GetConfigPath returns the path where the config file should be located
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.yaml"), nil
}

// Exists returns true if a config file exists
func Exists() bool {
	path, err := GetConfigPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Marshal renders cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return out, nil
}

// Save writes the config to path, or to the default location when path is
// empty.
func Save(cfg *Config, path string) error {
	if path == "" {
		var err error
		if path, err = GetConfigPath(); err != nil {
			return err
		}
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	content, err := Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, content, 0600)
}
