package launcher

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const (
	// DefaultName is the base filename of the bundled server binary.
	DefaultName = "lint-mcp"
	// DefaultBinDir is the installation subdirectory reserved for bundled binaries.
	DefaultBinDir = "bin"

	// InstallDirEnv overrides the installation directory.
	InstallDirEnv = "LINT_MCP_INSTALL_DIR"
)

// Layout describes where the server binary lives below the installation directory.
type Layout struct {
	BinDir string
	Name   string
	// PerArch selects <name>-<goos>-<goarch> instead of a single name per OS.
	PerArch bool
}

// DefaultLayout is bin/lint-mcp[.exe] regardless of architecture.
func DefaultLayout() Layout {
	return Layout{BinDir: DefaultBinDir, Name: DefaultName}
}

// ResolveBinaryPath joins installDir, the layout's bin directory and the
// binary name. ".exe" is appended only when goos is windows.
func ResolveBinaryPath(installDir, goos, goarch string, layout Layout) string {
	binDir := layout.BinDir
	if binDir == "" {
		binDir = DefaultBinDir
	}
	name := layout.Name
	if name == "" {
		name = DefaultName
	}
	if layout.PerArch {
		name = name + "-" + goos + "-" + goarch
	}
	if goos == "windows" {
		name += ".exe"
	}
	return filepath.Join(installDir, binDir, name)
}

// InstallDir returns the directory holding the running executable.
// Respects LINT_MCP_INSTALL_DIR override.
func InstallDir() (string, error) {
	if dir := os.Getenv(InstallDirEnv); dir != "" {
		return dir, nil
	}
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("install dir: %w", err)
	}
	// Package managers usually link the launcher into a bin directory on PATH.
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

// BinaryPath resolves the default layout for the host platform.
func BinaryPath() (string, error) {
	return BinaryPathFor(DefaultLayout())
}

// BinaryPathFor resolves layout for the host platform.
func BinaryPathFor(layout Layout) (string, error) {
	dir, err := InstallDir()
	if err != nil {
		return "", err
	}
	return ResolveBinaryPath(dir, runtime.GOOS, runtime.GOARCH, layout), nil
}
