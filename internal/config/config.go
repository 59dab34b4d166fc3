package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/davebream/lint-mcp/internal/lint"
	"github.com/davebream/lint-mcp/launcher"
)

// BinaryConfig selects the server binary below the installation directory.
type BinaryConfig struct {
	Dir     string `toml:"dir"`
	Name    string `toml:"name"`
	PerArch bool   `toml:"per_arch"`
}

// LogConfig controls the launcher's own diagnostics. The server's output
// is never routed through it.
type LogConfig struct {
	Level  string `toml:"level"`
	Dir    string `toml:"dir"`
	Format string `toml:"format"`
}

// LintConfig is read by `lint-mcpctl lint`.
type LintConfig struct {
	// GolangciLint is an executable name looked up in PATH, or a path.
	GolangciLint string `toml:"golangci_lint"`
}

type Config struct {
	Binary BinaryConfig `toml:"binary"`
	Log    LogConfig    `toml:"log"`
	Lint   LintConfig   `toml:"lint"`
}

func DefaultConfig() *Config {
	return &Config{
		Binary: BinaryConfig{
			Dir:  launcher.DefaultBinDir,
			Name: launcher.DefaultName,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Lint: LintConfig{
			GolangciLint: lint.DefaultBinary,
		},
	}
}

// Load reads the TOML file at path on top of DefaultConfig. A missing file
// is not an error: the launcher runs with defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	var raw Config
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	if meta.IsDefined("binary", "dir") {
		cfg.Binary.Dir = strings.TrimSpace(raw.Binary.Dir)
	}
	if meta.IsDefined("binary", "name") {
		cfg.Binary.Name = strings.TrimSpace(raw.Binary.Name)
	}
	if meta.IsDefined("binary", "per_arch") {
		cfg.Binary.PerArch = raw.Binary.PerArch
	}
	if meta.IsDefined("log", "level") {
		cfg.Log.Level = strings.TrimSpace(raw.Log.Level)
	}
	if meta.IsDefined("log", "dir") {
		cfg.Log.Dir = strings.TrimSpace(raw.Log.Dir)
	}
	if meta.IsDefined("log", "format") {
		cfg.Log.Format = strings.ToLower(strings.TrimSpace(raw.Log.Format))
	}
	if meta.IsDefined("lint", "golangci_lint") {
		cfg.Lint.GolangciLint = strings.TrimSpace(raw.Lint.GolangciLint)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	name := c.Binary.Name
	if name == "" || filepath.Base(name) != name || name == "." || name == ".." {
		return fmt.Errorf("binary.name %q must be a plain file name", name)
	}
	if strings.HasSuffix(strings.ToLower(name), ".exe") {
		return fmt.Errorf("binary.name %q must not carry the .exe suffix", name)
	}
	if c.Binary.Dir == "" {
		return errors.New("binary.dir must not be empty")
	}
	if !filepath.IsLocal(c.Binary.Dir) {
		return fmt.Errorf("binary.dir %q must be relative and stay inside the installation directory", c.Binary.Dir)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format %q (expected text|json)", c.Log.Format)
	}
	if c.Lint.GolangciLint == "" {
		return errors.New("lint.golangci_lint must not be empty")
	}
	return nil
}

// Save writes the config as TOML. The launcher itself never calls it.
func (c *Config) Save(path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return AtomicWriteFile(path, buf.Bytes(), 0600)
}

func (c *Config) Layout() launcher.Layout {
	return launcher.Layout{
		BinDir:  c.Binary.Dir,
		Name:    c.Binary.Name,
		PerArch: c.Binary.PerArch,
	}
}

// LogLevel returns the configured level. LINT_MCP_LOG_LEVEL wins over the
// file; invalid values fall back to warn.
func (c *Config) LogLevel() slog.Level {
	value := c.Log.Level
	if env := os.Getenv(LogLevelEnv); env != "" {
		value = env
	}
	level, err := ParseLevel(value)
	if err != nil {
		return slog.LevelWarn
	}
	return level
}

// ParseLevel accepts debug, info, warn and error in any case. Empty means warn.
func ParseLevel(s string) (slog.Level, error) {
	if strings.TrimSpace(s) == "" {
		return slog.LevelWarn, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(strings.TrimSpace(s)))); err != nil {
		return 0, fmt.Errorf("log.level %q (expected debug|info|warn|error)", s)
	}
	return level, nil
}
