package cmd

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/davebream/lint-mcp/internal/lint"
	"github.com/spf13/cobra"
)

var (
	lintProject string
	lintAll     bool
)

var lintCmd = &cobra.Command{
	Use:   "lint [file...]",
	Short: "Run golangci-lint over changed Go files, as the lint-mcp server does",
	Long: `Runs golangci-lint and prints its issues as JSON.

By default only Go files that git reports as changed are linted: unpushed
commits, the fork point from the main branch, or the worktree. With --all
the packages of the given files (or the whole project) are linted instead.

Without --project the project is located from the first file, or the
current directory when no files are given. Exits non-zero if issues are
found.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		inst, err := loadInstallation()
		if err != nil {
			return err
		}
		logger, cleanup := ctlLogger(cmd, inst)
		defer cleanup()

		files := make([]string, 0, len(args))
		for _, arg := range args {
			abs, err := filepath.Abs(arg)
			if err != nil {
				return fmt.Errorf("resolve %s: %w", arg, err)
			}
			files = append(files, abs)
		}
		project := lintProject
		if project == "" && len(files) == 0 {
			project = "."
		}

		l := lint.New(logger)
		l.Binary = inst.cfg.Lint.GolangciLint
		result, err := l.Check(cmd.Context(), lint.Request{
			Files:       files,
			ProjectPath: project,
			OnlyChanges: !lintAll,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		enc := json.NewEncoder(out)
		if isTerminal(out) {
			enc.SetIndent("", "  ")
		}
		if err := enc.Encode(result); err != nil {
			return err
		}
		if n := len(result.Issues); n > 0 {
			return fmt.Errorf("%d issue(s) found", n)
		}
		return nil
	},
}

func init() {
	lintCmd.Flags().StringVarP(&lintProject, "project", "p", "", "Project directory to start from")
	lintCmd.Flags().BoolVar(&lintAll, "all", false, "Lint whole packages instead of changed files")
	ctlCmd.AddCommand(lintCmd)
}
