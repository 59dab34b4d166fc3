package lint

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errExit = errors.New("exit status 1")

type reply struct {
	out string
	err error
}

type call struct {
	dir  string
	line string
}

// scriptedRunner answers commands by their full command line. Unscripted
// commands fail like a git error would.
type scriptedRunner struct {
	mu      sync.Mutex
	replies map[string]reply
	calls   []call
}

func newScriptedRunner(replies map[string]reply) *scriptedRunner {
	return &scriptedRunner{replies: replies}
}

func (r *scriptedRunner) run(dir, name string, args []string) ([]byte, error) {
	line := strings.Join(append([]string{name}, args...), " ")
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call{dir: dir, line: line})
	rep, ok := r.replies[line]
	if !ok {
		return nil, fmt.Errorf("%s: %w", line, errExit)
	}
	return []byte(rep.out), rep.err
}

func (r *scriptedRunner) Output(_ context.Context, dir, name string, args ...string) ([]byte, error) {
	return r.run(dir, name, args)
}

func (r *scriptedRunner) CombinedOutput(_ context.Context, dir, name string, args ...string) ([]byte, error) {
	return r.run(dir, name, args)
}

func (r *scriptedRunner) linted() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var lines []string
	for _, c := range r.calls {
		if strings.HasPrefix(c.line, DefaultBinary+" ") {
			lines = append(lines, c.line)
		}
	}
	return lines
}

func newTestLinter(r Runner) *Linter {
	l := NewWithRunner(r, nil)
	l.lookPath = func(file string) (string, error) { return "/usr/bin/" + file, nil }
	return l
}

// writeProject creates a module with the given files (relative paths) and
// returns its root.
func writeProject(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module example.com/demo\n"), 0644))
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("package demo\n"), 0644))
	}
	return root
}

const reportOneIssue = `{"Issues":[{"FromLinter":"errcheck","Text":"Error return value is not checked","Pos":{"Filename":"a.go","Line":3,"Column":2}}],"Report":{"Linters":[{"Name":"errcheck","Enabled":true}]}}`

func lintLine(args ...string) string {
	return strings.Join(append([]string{DefaultBinary}, args...), " ")
}

func TestCheckRequiresGolangciLint(t *testing.T) {
	l := NewWithRunner(newScriptedRunner(nil), nil)
	l.lookPath = func(string) (string, error) { return "", errors.New("not found") }

	_, err := l.Check(context.Background(), Request{ProjectPath: t.TempDir()})
	assert.ErrorIs(t, err, ErrNotInstalled)
}

func TestCheckStartDir(t *testing.T) {
	l := newTestLinter(newScriptedRunner(nil))

	t.Run("neither project nor files", func(t *testing.T) {
		_, err := l.Check(context.Background(), Request{Files: []string{""}})
		assert.ErrorIs(t, err, ErrNoStart)
	})

	t.Run("project path is a file", func(t *testing.T) {
		root := writeProject(t, "a.go")
		_, err := l.Check(context.Background(), Request{ProjectPath: filepath.Join(root, "a.go")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a directory")
	})

	t.Run("relative file", func(t *testing.T) {
		_, err := l.Check(context.Background(), Request{Files: []string{"a.go"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "absolute")
	})
}

func TestCheckPackages(t *testing.T) {
	t.Run("lints the packages of the given files", func(t *testing.T) {
		root := writeProject(t, "a.go", "pkg/b.go", "pkg/c.go")
		require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("vendor/\n"), 0644))
		runner := newScriptedRunner(map[string]reply{
			lintLine("run", "--out-format", "json", "--print-issued-lines=false", "--print-linter-name=true", ".", "./pkg"): {
				out: "level=warning msg=\"[runner] deprecated linter\"\n" + reportOneIssue + "\n",
				err: errExit,
			},
		})

		result, err := newTestLinter(runner).Check(context.Background(), Request{
			Files: []string{
				filepath.Join(root, "a.go"),
				filepath.Join(root, "pkg", "b.go"),
				filepath.Join(root, "pkg", "c.go"),
			},
		})
		require.NoError(t, err)
		require.Len(t, result.Issues, 1)
		assert.Equal(t, "errcheck", result.Issues[0].FromLinter)
		assert.Equal(t, 3, result.Issues[0].Pos.Line)
		assert.Equal(t, root, runner.calls[0].dir)
	})

	t.Run("whole project without files", func(t *testing.T) {
		root := writeProject(t, "a.go")
		runner := newScriptedRunner(map[string]reply{
			lintLine("run", "--modules-download-mode=vendor", "--out-format", "json", "--print-issued-lines=false", "--print-linter-name=true", "./..."): {
				out: `{"Issues":null}`,
			},
		})

		result, err := newTestLinter(runner).Check(context.Background(), Request{ProjectPath: root})
		require.NoError(t, err)
		assert.NotNil(t, result.Issues)
		assert.Empty(t, result.Issues)
	})

	t.Run("failed run is reported in-band", func(t *testing.T) {
		root := writeProject(t, "a.go")

		result, err := newTestLinter(newScriptedRunner(nil)).Check(context.Background(), Request{
			Files: []string{filepath.Join(root, "a.go")},
		})
		require.NoError(t, err)
		require.Len(t, result.Issues, 1)
		assert.Equal(t, "golangci-lint", result.Issues[0].FromLinter)
		assert.Equal(t, "unknown", result.Issues[0].Pos.Filename)
		assert.Contains(t, result.Issues[0].Text, "golangci-lint failed")
	})

	t.Run("no Go files among inputs", func(t *testing.T) {
		root := writeProject(t, "README.md")
		_, err := newTestLinter(newScriptedRunner(nil)).Check(context.Background(), Request{
			Files: []string{filepath.Join(root, "README.md")},
		})
		assert.ErrorIs(t, err, ErrNoPackages)
	})
}

func TestCheckChanges(t *testing.T) {
	t.Run("lints changed files with fallback attempts", func(t *testing.T) {
		root := writeProject(t, "a.go", "pkg/b.go", "untouched.go")
		require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("/vendor/\n"), 0644))
		a := filepath.Join(root, "a.go")
		b := filepath.Join(root, "pkg", "b.go")

		verbose := func(target string) string {
			return lintLine("run", "--out-format", "json", "--print-issued-lines=false", "--print-linter-name=true", target)
		}
		plain := func(target string) string {
			return lintLine("run", "--out-format", "json", target)
		}

		replies := map[string]reply{}
		replies["git rev-parse --show-toplevel"] = reply{out: root + "\n"}
		replies["git status --porcelain"] = reply{out: " M a.go\n"}
		replies["git diff --name-only"] = reply{out: "a.go\nREADME.md\n"}
		replies["git diff --name-only --cached"] = reply{out: "pkg/b.go\n"}
		replies["git ls-files --others --exclude-standard --full-name"] = reply{out: "deleted.go\n"}
		// a.go: the verbose run finds nothing, the plain one does.
		replies[verbose(a)] = reply{out: `{"Issues":[]}`}
		replies[plain(a)] = reply{out: reportOneIssue, err: errExit}
		// pkg/b.go: clean after all three attempts.
		replies[verbose(b)] = reply{}
		replies[plain(b)] = reply{out: "not json"}
		replies[plain(filepath.Join("pkg", "b.go"))] = reply{out: `{"Issues":[]}`}
		runner := newScriptedRunner(replies)

		result, err := newTestLinter(runner).Check(context.Background(), Request{ProjectPath: root, OnlyChanges: true})
		require.NoError(t, err)
		require.Len(t, result.Issues, 1)
		assert.Equal(t, "errcheck", result.Issues[0].FromLinter)

		assert.Equal(t, []string{
			verbose(a), plain(a),
			verbose(b), plain(b), plain(filepath.Join("pkg", "b.go")),
		}, runner.linted())
	})

	t.Run("outside git every Go file is linted", func(t *testing.T) {
		root := writeProject(t, "a.go", "a_test.go", "vendor/dep/dep.go")
		a := filepath.Join(root, "a.go")
		runner := newScriptedRunner(map[string]reply{
			lintLine("run", "--modules-download-mode=vendor", "--out-format", "json", "--print-issued-lines=false", "--print-linter-name=true", a): {out: reportOneIssue},
		})

		result, err := newTestLinter(runner).Check(context.Background(), Request{ProjectPath: root, OnlyChanges: true})
		require.NoError(t, err)
		require.Len(t, result.Issues, 1)
		assert.Len(t, runner.linted(), 1)
	})

	t.Run("nothing to lint", func(t *testing.T) {
		_, err := newTestLinter(newScriptedRunner(nil)).Check(context.Background(), Request{ProjectPath: t.TempDir(), OnlyChanges: true})
		assert.ErrorIs(t, err, ErrNoGoFiles)
	})

	t.Run("cancelled context", func(t *testing.T) {
		root := writeProject(t, "a.go")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := newTestLinter(newScriptedRunner(nil)).Check(ctx, Request{ProjectPath: root, OnlyChanges: true})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestLinterZeroValue(t *testing.T) {
	l := &Linter{Binary: filepath.Join(t.TempDir(), "missing-golangci-lint")}
	_, err := l.Check(context.Background(), Request{ProjectPath: t.TempDir()})
	assert.ErrorIs(t, err, ErrNotInstalled)
}
