package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/dkoosis/morphd/pkg/adapter"
	"github.com/dkoosis/morphd/pkg/render"
)

// FileName is the config file looked up in the working directory and in
// the user config directory.
const FileName = ".morphd.yaml"

const envPrefix = "MORPHD_"

// Constants for default values.
const (
	DefaultFormat   = "json"
	DefaultColor    = "auto"
	DefaultTheme    = "default"
	DefaultLogLevel = "info"
	DefaultLogFmt   = "text"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config is the resolved morphd configuration.
type Config struct {
	Lexicon       string    `koanf:"lexicon"`
	Format        string    `koanf:"format"`
	Color         string    `koanf:"color"`
	Theme         string    `koanf:"theme"`
	Interactive   bool      `koanf:"interactive"`
	HistoryFile   string    `koanf:"history_file"`
	MaxWordLength int       `koanf:"max_word_length"`
	Log           LogConfig `koanf:"log"`

	// File is the config file that was loaded, empty if none.
	File string `koanf:"-"`
}

// LogConfig configures diagnostic logging.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

func defaults() map[string]any {
	return map[string]any{
		"lexicon":         "",
		"format":          DefaultFormat,
		"color":           DefaultColor,
		"theme":           DefaultTheme,
		"interactive":     false,
		"history_file":    "",
		"max_word_length": adapter.DefaultMaxWordLength,
		"log.level":       DefaultLogLevel,
		"log.format":      DefaultLogFmt,
	}
}

// RegisterFlags adds the configuration flags to fs. Flag defaults are
// informational only; a flag overrides other sources only when set.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "config file (default "+FileName+" or ~/.config/morphd/"+FileName+")")
	fs.StringP("lexicon", "l", "", "lexicon file, YAML or SQLite (default built-in)")
	fs.StringP("format", "f", DefaultFormat, "output format: json or text")
	fs.String("color", DefaultColor, "colorize text output: auto, always or never")
	fs.String("theme", DefaultTheme, "text output theme: "+strings.Join(render.ThemeNames(), " or "))
	fs.BoolP("interactive", "i", false, "read words from a line editor with history")
	fs.String("history-file", "", "line editor history file")
	fs.Int("max-word-length", adapter.DefaultMaxWordLength, "reject words longer than this many bytes")
	fs.String("log-level", DefaultLogLevel, "log level: debug, info, warn or error")
	fs.String("log-format", DefaultLogFmt, "log format: text or json")
}

// Load resolves configuration from defaults, the config file, the
// environment and flags, in increasing order of precedence. cfgFile, when
// non-empty, must exist. flags may be nil.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	path, err := findConfigFile(cfgFile)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	if os.Getenv("NO_COLOR") != "" {
		if err := k.Load(confmap.Provider(map[string]any{"color": "never"}, "."), nil); err != nil {
			return nil, fmt.Errorf("applying NO_COLOR: %w", err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			return flagKey(f.Name), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("loading flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.File = path

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps MORPHD_LOG_LEVEL to log.level and MORPHD_MAX_WORD_LENGTH to
// max_word_length.
func envKey(s string) string {
	return nestKey(strings.ToLower(strings.TrimPrefix(s, envPrefix)))
}

// flagKey maps --log-level to log.level and --history-file to history_file.
func flagKey(name string) string {
	return nestKey(strings.ReplaceAll(name, "-", "_"))
}

func nestKey(key string) string {
	if rest, ok := strings.CutPrefix(key, "log_"); ok {
		return "log." + rest
	}
	return key
}

// findConfigFile returns the config file to load, or "" when there is none.
// Priority: explicit path > ./.morphd.yaml > user config dir.
func findConfigFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file: %w", err)
		}
		return explicit, nil
	}
	if _, err := os.Stat(FileName); err == nil {
		return FileName, nil
	}
	if dir, err := os.UserConfigDir(); err == nil {
		candidate := filepath.Join(dir, "morphd", FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", nil
}

// Validate rejects unknown enum values and non-positive limits.
func (c *Config) Validate() error {
	checks := []struct {
		key, value string
		allowed    []string
	}{
		{"format", c.Format, []string{"json", "text"}},
		{"color", c.Color, []string{"auto", "always", "never"}},
		{"theme", c.Theme, render.ThemeNames()},
		{"log.level", c.Log.Level, []string{"debug", "info", "warn", "error"}},
		{"log.format", c.Log.Format, []string{"text", "json"}},
	}
	for _, chk := range checks {
		if !slices.Contains(chk.allowed, chk.value) {
			return fmt.Errorf("%w: %s %q (must be one of: %s)",
				ErrInvalid, chk.key, chk.value, strings.Join(chk.allowed, ", "))
		}
	}
	if c.MaxWordLength <= 0 {
		return fmt.Errorf("%w: max_word_length must be positive, got %d", ErrInvalid, c.MaxWordLength)
	}
	return nil
}
