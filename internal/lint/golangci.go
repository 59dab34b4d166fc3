package lint

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// DefaultBinary is looked up in PATH unless configured otherwise.
const DefaultBinary = "golangci-lint"

// ErrNotInstalled is returned when the golangci-lint binary cannot be found.
var ErrNotInstalled = errors.New("golangci-lint is not installed or not in PATH; " +
	"install v1.52.2 with: go install github.com/golangci/golangci-lint/cmd/golangci-lint@v1.52.2")

// golangciArgs builds `run` arguments for JSON output. verbose adds the
// linter-name flags; vendor resolves modules from vendor/.
func golangciArgs(vendor, verbose bool, targets ...string) []string {
	args := []string{"run"}
	if vendor {
		args = append(args, "--modules-download-mode=vendor")
	}
	args = append(args, "--out-format", "json")
	if verbose {
		args = append(args, "--print-issued-lines=false", "--print-linter-name=true")
	}
	return append(args, targets...)
}

// runGolangci runs golangci-lint in dir and parses its report. A non-zero
// exit is expected when issues are found, so only an empty output turns
// the exit status into an error.
func (l *Linter) runGolangci(ctx context.Context, dir string, args []string) (*Result, error) {
	l.logger.Debug("running golangci-lint", "dir", dir, "args", args)
	out, runErr := l.runner.CombinedOutput(ctx, dir, l.binary(), args...)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(bytes.TrimSpace(out)) == 0 {
		if runErr != nil {
			return nil, fmt.Errorf("golangci-lint failed: %w", runErr)
		}
		return &Result{Issues: []Issue{}}, nil
	}

	data := ExtractJSON(string(out))
	if data == "" {
		return nil, fmt.Errorf("no JSON report in golangci-lint output: %s", truncate(string(out), 200))
	}
	var report golangciReport
	if err := json.Unmarshal([]byte(data), &report); err != nil {
		return nil, fmt.Errorf("parse golangci-lint report: %w", err)
	}
	if report.Issues == nil {
		report.Issues = []Issue{}
	}
	return &Result{Issues: report.Issues}, nil
}

// ExtractJSON finds the JSON object in golangci-lint output that may be
// mixed with log lines. It prefers the whole output, then a single line,
// then the longest balanced {...} fragment. Returns "" if there is none.
func ExtractJSON(output string) string {
	trimmed := strings.TrimSpace(output)
	if trimmed == "" {
		return ""
	}
	if isJSONObject(trimmed) {
		return trimmed
	}

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "{") && isJSONObject(line) {
			return line
		}
	}

	best := ""
	for start := 0; start < len(output); start++ {
		if output[start] != '{' {
			continue
		}
		depth := 0
		for end := start; end < len(output); end++ {
			switch output[end] {
			case '{':
				depth++
			case '}':
				depth--
			}
			if depth != 0 {
				continue
			}
			if candidate := output[start : end+1]; len(candidate) > len(best) && isJSONObject(candidate) {
				best = candidate
			}
			break
		}
	}
	return best
}

func isJSONObject(s string) bool {
	var obj map[string]json.RawMessage
	return json.Unmarshal([]byte(s), &obj) == nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
