package lint

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// mainBranchCandidates are tried in order when neither the remote default
// branch nor the reflog names one.
var mainBranchCandidates = []string{"origin/main", "main", "origin/master", "master", "origin/develop", "develop"}

type git struct {
	dir    string
	runner Runner
	logger *slog.Logger
}

func (g *git) output(ctx context.Context, args ...string) (string, error) {
	out, err := g.runner.Output(ctx, g.dir, "git", args...)
	return strings.TrimSpace(string(out)), err
}

func (g *git) lines(ctx context.Context, args ...string) []string {
	out, err := g.output(ctx, args...)
	if err != nil {
		g.logger.Debug("git failed", "args", args, "error", err)
		return nil
	}
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

func (g *git) exists(ctx context.Context, rev string) bool {
	_, err := g.output(ctx, "rev-parse", "--verify", rev)
	return err == nil
}

func (g *git) currentBranch(ctx context.Context) string {
	branch, err := g.output(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return ""
	}
	return branch
}

// mainBranch guesses the branch the current one was forked from: the
// remote's default branch, then the reflog checkout that created the
// current branch, then well-known names. Returns "" when none exists.
func (g *git) mainBranch(ctx context.Context) string {
	if ref, err := g.output(ctx, "symbolic-ref", "refs/remotes/origin/HEAD"); err == nil {
		if parts := strings.Split(ref, "/"); len(parts) > 3 {
			name := strings.Join(parts[3:], "/")
			for _, branch := range []string{"origin/" + name, name} {
				if g.exists(ctx, branch) {
					return branch
				}
			}
		}
	}

	if current := g.currentBranch(ctx); current != "" {
		for _, line := range g.lines(ctx, "reflog", "--oneline", "-n", "15") {
			source, ok := checkoutSource(line, current)
			if !ok {
				continue
			}
			for _, branch := range []string{"origin/" + source, source} {
				if g.exists(ctx, branch) {
					return branch
				}
			}
		}
	}

	for _, branch := range mainBranchCandidates {
		if g.exists(ctx, branch) {
			return branch
		}
	}
	return ""
}

// checkoutSource extracts X from a reflog line "checkout: moving from X to
// current".
func checkoutSource(line, current string) (string, bool) {
	const marker = "checkout: moving from "
	idx := strings.Index(line, marker)
	if idx < 0 || !strings.HasSuffix(line, " to "+current) {
		return "", false
	}
	rest := line[idx+len(marker):]
	to := strings.Index(rest, " to ")
	if to <= 0 {
		return "", false
	}
	source := rest[:to]
	if source == current {
		return "", false
	}
	return source, true
}

// baseCommit picks the revision changes are measured from. Strategies in
// order: commits not yet pushed to the tracking remote, the fork point from
// the main branch, the worktree alone (base ""), then the last few commits.
func (g *git) baseCommit(ctx context.Context) (base, strategy string) {
	if current := g.currentBranch(ctx); current != "" {
		for _, remote := range []string{"origin/", "upstream/", "remote/"} {
			remoteBranch := remote + current
			if !g.exists(ctx, remoteBranch) {
				continue
			}
			count, err := g.output(ctx, "rev-list", "--count", remoteBranch+"..HEAD")
			if err == nil && count != "0" {
				return remoteBranch, fmt.Sprintf("unpushed commits (%s)", count)
			}
		}
	}

	if main := g.mainBranch(ctx); main != "" {
		if mergeBase, err := g.output(ctx, "merge-base", "HEAD", main); err == nil {
			count, err := g.output(ctx, "rev-list", "--count", mergeBase+"..HEAD")
			if err == nil && count != "0" {
				return mergeBase, fmt.Sprintf("fork point from %s (%s commits)", main, count)
			}
		}
	}

	if status, err := g.output(ctx, "status", "--porcelain"); err == nil && status != "" {
		return "", "worktree changes"
	}

	for i := 2; i <= 5; i++ {
		rev := fmt.Sprintf("HEAD~%d", i)
		if g.exists(ctx, rev) {
			return rev, fmt.Sprintf("last %d commits", i)
		}
	}
	return "HEAD~1", "last commit"
}

// changedGoFiles returns the existing Go files that are modified in the
// worktree, staged, untracked, or changed since baseCommit, sorted.
func (g *git) changedGoFiles(ctx context.Context) ([]string, error) {
	top, err := g.output(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, fmt.Errorf("%s is not in a git work tree: %w", g.dir, err)
	}

	base, strategy := g.baseCommit(ctx)
	g.logger.Debug("change detection", "strategy", strategy, "base", base)

	// All listings are relative to the top level.
	var names []string
	names = append(names, g.lines(ctx, "diff", "--name-only")...)
	names = append(names, g.lines(ctx, "diff", "--name-only", "--cached")...)
	names = append(names, g.lines(ctx, "ls-files", "--others", "--exclude-standard", "--full-name")...)
	if base != "" {
		names = append(names, g.lines(ctx, "diff", "--name-only", base, "HEAD")...)
	}

	set := make(map[string]struct{})
	for _, name := range names {
		name = strings.TrimSpace(name)
		if !strings.HasSuffix(name, ".go") {
			continue
		}
		path := name
		if !filepath.IsAbs(path) {
			path = filepath.Join(top, filepath.FromSlash(name))
		}
		path = filepath.Clean(path)
		if _, err := os.Stat(path); err == nil {
			set[path] = struct{}{}
		}
	}
	if len(set) == 0 {
		return nil, fmt.Errorf("no changed Go files in %s (%s)", g.dir, strategy)
	}

	files := make([]string, 0, len(set))
	for path := range set {
		files = append(files, path)
	}
	sort.Strings(files)
	return files, nil
}
