package config

import (
	"path/filepath"
	"runtime"

	"github.com/davebream/lint-mcp/launcher"
)

const (
	ConfigFileName = "lint-mcp.toml"
	LogFileName    = "launcher.log"

	LogLevelEnv = "LINT_MCP_LOG_LEVEL"
)

// Host platform; variables so tests can resolve foreign layouts.
var (
	goos   = runtime.GOOS
	goarch = runtime.GOARCH
)

// InstallDir returns the launcher's installation directory.
func InstallDir() (string, error) {
	return launcher.InstallDir()
}

// ConfigFilePath returns the path to lint-mcp.toml next to the launcher.
func ConfigFilePath(installDir string) string {
	return filepath.Join(installDir, ConfigFileName)
}

// LogDir returns the directory for launcher log files, or "" when file
// logging is off. Relative directories are taken from installDir.
func LogDir(cfg *Config, installDir string) string {
	dir := cfg.Log.Dir
	if dir == "" {
		return ""
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(installDir, dir)
	}
	return dir
}

// LogFilePath returns the launcher log file inside logDir.
func LogFilePath(logDir string) string {
	return filepath.Join(logDir, LogFileName)
}

// BinaryPath resolves the configured layout for the host platform.
func BinaryPath(cfg *Config, installDir string) string {
	return launcher.ResolveBinaryPath(installDir, goos, goarch, cfg.Layout())
}
