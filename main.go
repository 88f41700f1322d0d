package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/codesync-dev/sink/pkg/exitcode"
	"github.com/codesync-dev/sink/pkg/git"
	"github.com/codesync-dev/sink/pkg/logging"
	"github.com/codesync-dev/sink/pkg/merge"
	"github.com/codesync-dev/sink/pkg/output"
	"github.com/codesync-dev/sink/pkg/repo"
	"github.com/codesync-dev/sink/pkg/ui"
)

func main() {
	os.Exit(execute(os.Args[1:], nil))
}

// execute runs the CLI and returns the exit code. A non-nil executor
// overrides the default git executor (used by tests).
func execute(args []string, exec git.Executor) int {
	code := exitcode.Success
	root := newRootCmd(&code, exec)
	root.SetArgs(args)
	if err := root.Execute(); err != nil && code == exitcode.Success {
		code = exitcode.GitError
	}
	return code
}

func newRootCmd(code *int, exec git.Executor) *cobra.Command {
	var (
		outDir   string
		logLevel string
		jobs     int
		jsonOut  bool
	)

	cmd := &cobra.Command{
		Use:   "sink <repo> <ref-a> <ref-b>",
		Short: "AST-aware three-way merge for TypeScript repositories",
		Long: `sink merges two diverged branches of a TypeScript repository by reasoning
over top-level code units instead of lines. Compatible edits (a parameter
rename on one side, a body change on the other) are composed automatically;
incompatible edits are reported as structured conflicts.

Merged files are written to the output directory, one file per input path
with path separators flattened to "__".`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logging.Init(logging.Config{Level: logLevel, JSONFormat: jsonOut})
			e := exec
			if e == nil {
				e = git.NewDefaultExecutor(args[0])
			}
			*code = runMerge(cmd.Context(), e, args[1], args[2], outDir, jobs, jsonOut)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", ".codesync", "directory for merged output files")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "max concurrent file merges (0 = one per CPU)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "emit a JSON report instead of styled output")
	cmd.Flags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	return cmd
}

func runMerge(ctx context.Context, exec git.Executor, refA, refB, outDir string, jobs int, jsonOut bool) int {
	if ctx == nil {
		ctx = context.Background()
	}

	report := output.NewReport()

	if err := exec.Run(ctx, "rev-parse", "--git-dir"); err != nil {
		if jsonOut {
			report.SetError(fmt.Errorf("not a git repository"))
			output.WriteJSONStdout(report)
		} else {
			ui.Error("Not a git repository")
		}
		return exitcode.NotGitRepo
	}

	if !jsonOut {
		ui.Header("sink semantic merge")
		ui.Step(fmt.Sprintf("Merging %s and %s against their merge-base...", refA, refB))
	}

	results, err := repo.MergeRepository(ctx, exec, refA, refB, repo.Options{Jobs: jobs})
	if err != nil {
		logging.Error("repository merge failed", "error", err)
		if jsonOut {
			report.SetError(err)
			output.WriteJSONStdout(report)
		} else {
			ui.Error(fmt.Sprintf("Merge failed: %v", err))
		}
		return exitcode.GitError
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		if jsonOut {
			report.SetError(err)
			output.WriteJSONStdout(report)
		} else {
			ui.Error(fmt.Sprintf("Cannot create output directory: %v", err))
		}
		return exitcode.GitError
	}

	var rows []ui.Row
	for _, res := range results {
		report.AddFile(writeResult(outDir, res, &rows, jsonOut))
	}
	report.Finalize()

	if jsonOut {
		output.WriteJSONStdout(report)
	} else {
		if len(rows) > 0 {
			fmt.Println()
			ui.ConflictTable(rows)
		}
		ui.Summary(report.AutoMerged, report.Conflicted, report.Skipped, report.Failed)
		if report.Success {
			fmt.Println()
			ui.Success("All files merged cleanly")
		}
	}

	switch {
	case report.Failed > 0:
		return exitcode.ParseFailure
	case report.Conflicted > 0:
		return exitcode.ConflictsRemain
	default:
		return exitcode.Success
	}
}

// writeResult persists one file's outcome to the output directory and
// returns its report entry. Conflicted files still get a best-effort buffer
// plus a sidecar carrying all three candidate texts per conflict.
func writeResult(outDir string, res repo.FileResult, rows *[]ui.Row, jsonOut bool) output.FileReport {
	fr := output.FileReport{Path: res.Path}

	switch {
	case res.Skipped:
		fr.Skipped = true
		logging.Debug("skipped file absent from both branches", "file", res.Path)

	case res.Err != nil:
		fr.Error = res.Err.Error()
		if !jsonOut {
			ui.Warning(fmt.Sprintf("Skipping %s: %v", res.Path, res.Err))
		}

	default:
		outPath := filepath.Join(outDir, res.OutName)
		if err := os.WriteFile(outPath, res.Outcome.Buffer, 0o644); err != nil {
			fr.Error = fmt.Sprintf("write %s: %v", outPath, err)
			return fr
		}
		fr.Output = res.OutName
		fr.AutoMerged = res.Outcome.AutoMerged()
		fr.Conflicts = res.Outcome.Conflicts

		if !res.Outcome.AutoMerged() {
			for _, c := range res.Outcome.Conflicts {
				*rows = append(*rows, ui.Row{File: res.Path, Unit: c.Key, Reason: c.Reason})
			}
			sidecar := outPath + ".conflicts.txt"
			if err := os.WriteFile(sidecar, []byte(formatConflicts(res.Outcome.Conflicts)), 0o644); err != nil {
				logging.Warn("failed to write conflict sidecar", "file", sidecar, "error", err)
			}
		}
	}
	return fr
}

// formatConflicts renders the sidecar file so a conflict can be resolved by
// hand without re-running the merge.
func formatConflicts(records []merge.ConflictRecord) string {
	var sb strings.Builder
	for i, c := range records {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "unit: %s\nreason: %s\n", c.Key, c.Reason)
		if c.LowConfidence {
			sb.WriteString("note: unit identity inferred from position, not a declared name\n")
		}
		fmt.Fprintf(&sb, "--- base\n%s\n--- branch A\n%s\n--- branch B\n%s\n", c.BaseText, c.AText, c.BText)
	}
	return sb.String()
}
