// Package lint runs golangci-lint over the Go code a caller is working on.
// It finds the project from a directory or a file, narrows the run to files
// changed in git when asked to, and reports golangci-lint's issues.
package lint

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNoStart is returned when a Request names neither a project nor a file.
var ErrNoStart = errors.New("no starting point: provide a project path or the absolute path of a file in the project")

// Request selects what Check lints.
type Request struct {
	// Files are absolute paths. Without OnlyChanges their packages are
	// linted; the first one locates the project when ProjectPath is empty.
	Files []string
	// ProjectPath is the directory to start from, preferably a module root.
	ProjectPath string
	// OnlyChanges lints the Go files git reports as changed instead of
	// whole packages. Outside a git work tree every Go file is linted.
	OnlyChanges bool
}

// Linter drives golangci-lint. The zero value uses golangci-lint from PATH.
type Linter struct {
	// Binary is the golangci-lint executable. Empty means DefaultBinary.
	Binary string

	runner   Runner
	lookPath func(file string) (string, error)
	logger   *slog.Logger
}

func New(logger *slog.Logger) *Linter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Linter{
		runner:   execRunner{},
		lookPath: exec.LookPath,
		logger:   logger,
	}
}

// NewWithRunner returns a Linter that executes git and golangci-lint
// through runner.
func NewWithRunner(runner Runner, logger *slog.Logger) *Linter {
	l := New(logger)
	l.runner = runner
	return l
}

func (l *Linter) binary() string {
	if l.Binary == "" {
		return DefaultBinary
	}
	return l.Binary
}

// Check lints what req selects. Failures to start are returned as errors;
// a golangci-lint run that fails for one project is reported in-band as an
// issue so the other projects still get checked.
func (l *Linter) Check(ctx context.Context, req Request) (*Result, error) {
	if l.runner == nil {
		l.runner = execRunner{}
	}
	if l.lookPath == nil {
		l.lookPath = exec.LookPath
	}
	if l.logger == nil {
		l.logger = slog.New(slog.DiscardHandler)
	}

	if _, err := l.lookPath(l.binary()); err != nil {
		return nil, ErrNotInstalled
	}
	baseDir, err := startDir(req)
	if err != nil {
		return nil, err
	}
	l.logger.Info("lint started", "dir", baseDir, "only_changes", req.OnlyChanges, "files", len(req.Files))

	var result *Result
	if req.OnlyChanges {
		result, err = l.checkChanges(ctx, baseDir)
	} else {
		result, err = l.checkPackages(ctx, baseDir, req.Files)
	}
	if err != nil {
		return nil, err
	}
	l.logger.Info("lint finished", "dir", baseDir, "issues", len(result.Issues))
	return result, nil
}

func startDir(req Request) (string, error) {
	if req.ProjectPath != "" {
		dir, err := filepath.Abs(req.ProjectPath)
		if err != nil {
			return "", fmt.Errorf("project path %s: %w", req.ProjectPath, err)
		}
		info, err := os.Stat(dir)
		if err != nil {
			return "", fmt.Errorf("project path: %w", err)
		}
		if !info.IsDir() {
			return "", fmt.Errorf("project path %s is not a directory", dir)
		}
		return dir, nil
	}
	if len(req.Files) > 0 && strings.TrimSpace(req.Files[0]) != "" {
		return ProjectRoot(req.Files[0])
	}
	return "", ErrNoStart
}

func (l *Linter) checkChanges(ctx context.Context, baseDir string) (*Result, error) {
	g := &git{dir: baseDir, runner: l.runner, logger: l.logger}
	files, err := g.changedGoFiles(ctx)
	if err != nil {
		l.logger.Info("git change detection failed, linting every Go file", "dir", baseDir, "error", err)
		var scanErr error
		files, scanErr = GoFiles(baseDir)
		if scanErr != nil {
			return nil, fmt.Errorf("find files to lint: %v; %w", err, scanErr)
		}
	}

	byProject := make(map[string][]string)
	for _, file := range files {
		root, err := ProjectRoot(file)
		if err != nil {
			l.logger.Warn("skipping file", "file", file, "error", err)
			continue
		}
		byProject[root] = append(byProject[root], file)
	}

	issues := []Issue{}
	for _, root := range sortedKeys(byProject) {
		vendor := VendorMode(root)
		for _, file := range byProject[root] {
			found, err := l.lintFile(ctx, root, file, vendor)
			if err != nil {
				return nil, err
			}
			issues = append(issues, found...)
		}
	}
	return &Result{Issues: issues}, nil
}

// lintFile runs golangci-lint on one file, retrying with plainer flags and
// then a project-relative path when a run yields nothing. Some
// golangci-lint versions reject the extra flags or absolute file targets.
func (l *Linter) lintFile(ctx context.Context, root, file string, vendor bool) ([]Issue, error) {
	target := file
	if rel, err := filepath.Rel(root, file); err == nil && !strings.HasPrefix(rel, "..") {
		target = rel
	}
	attempts := [][]string{
		golangciArgs(vendor, true, file),
		golangciArgs(vendor, false, file),
		golangciArgs(vendor, false, target),
	}
	for i, args := range attempts {
		result, err := l.runGolangci(ctx, root, args)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if err != nil {
			l.logger.Debug("golangci-lint attempt failed", "file", file, "attempt", i+1, "error", err)
			continue
		}
		if len(result.Issues) > 0 {
			return result.Issues, nil
		}
	}
	return nil, nil
}

func (l *Linter) checkPackages(ctx context.Context, baseDir string, files []string) (*Result, error) {
	var byProject map[string][]string
	if len(nonEmpty(files)) == 0 {
		byProject = map[string][]string{baseDir: {"./..."}}
	} else {
		var err error
		byProject, err = PackagesByProject(files)
		if err != nil {
			return nil, err
		}
	}

	issues := []Issue{}
	for _, root := range sortedKeys(byProject) {
		vendor := VendorMode(root)
		result, err := l.runGolangci(ctx, root, golangciArgs(vendor, true, byProject[root]...))
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if err != nil {
			issues = append(issues, Issue{
				FromLinter: "golangci-lint",
				Text:       fmt.Sprintf("%s (project %s, packages %v, vendor mode %v)", err, root, byProject[root], vendor),
				Pos:        Pos{Filename: "unknown"},
			})
			continue
		}
		issues = append(issues, result.Issues...)
	}
	return &Result{Issues: issues}, nil
}

func nonEmpty(files []string) []string {
	var out []string
	for _, f := range files {
		if strings.TrimSpace(f) != "" {
			out = append(out, f)
		}
	}
	return out
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
