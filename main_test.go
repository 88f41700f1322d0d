package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codesync-dev/sink/pkg/exitcode"
	"github.com/codesync-dev/sink/pkg/git"
	"github.com/codesync-dev/sink/pkg/output"
)

// repoExec returns a mock executor serving a one-file repository where the
// two refs hold the given contents and the merge-base holds base.
func repoExec(base, a, b string) *git.MockExecutor {
	exec := git.NewMockExecutor()
	exec.OnOutput = func(_ context.Context, args []string) ([]byte, error) {
		switch args[0] {
		case "merge-base":
			return []byte("basesha\n"), nil
		case "ls-tree":
			return []byte("src/app.ts\n"), nil
		case "show":
			switch {
			case strings.HasPrefix(args[1], "basesha:"):
				return []byte(base), nil
			case strings.HasPrefix(args[1], "feature-a:"):
				return []byte(a), nil
			case strings.HasPrefix(args[1], "feature-b:"):
				return []byte(b), nil
			}
		}
		return nil, fmt.Errorf("unexpected git call: %v", args)
	}
	return exec
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	orig := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()
	require.NoError(t, w.Close())

	var sb strings.Builder
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		sb.Write(buf[:n])
		if err != nil {
			break
		}
	}
	return sb.String()
}

func TestExecute_CleanMergeWritesOutput(t *testing.T) {
	base := "function f() {\n  return 1;\n}\n"
	a := "function f() {\n  return 2;\n}\n"
	exec := repoExec(base, a, base)

	outDir := t.TempDir()
	code := execute([]string{".", "feature-a", "feature-b", "--out", outDir, "--json"}, exec)
	assert.Equal(t, exitcode.Success, code)

	merged, err := os.ReadFile(filepath.Join(outDir, "src__app.ts"))
	require.NoError(t, err)
	assert.Equal(t, a, string(merged))
}

func TestExecute_ConflictExitCodeAndSidecar(t *testing.T) {
	base := "function f() {\n  return 1;\n}\n"
	a := "function f() {\n  return 2;\n}\n"
	b := "function f() {\n  return 3;\n}\n"
	exec := repoExec(base, a, b)

	outDir := t.TempDir()
	code := execute([]string{".", "feature-a", "feature-b", "--out", outDir, "--json"}, exec)
	assert.Equal(t, exitcode.ConflictsRemain, code)

	// The conflicted unit still gets a best-effort buffer (base text).
	merged, err := os.ReadFile(filepath.Join(outDir, "src__app.ts"))
	require.NoError(t, err)
	assert.Equal(t, base, string(merged))

	sidecar, err := os.ReadFile(filepath.Join(outDir, "src__app.ts.conflicts.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(sidecar), "unit: function:f")
	assert.Contains(t, string(sidecar), "--- branch A")
	assert.Contains(t, string(sidecar), "return 3;")
}

func TestExecute_JSONReport(t *testing.T) {
	base := "function f() {\n  return 1;\n}\n"
	a := "function f() {\n  return 2;\n}\n"
	b := "function f() {\n  return 3;\n}\n"
	exec := repoExec(base, a, b)

	outDir := t.TempDir()
	stdout := captureStdout(t, func() {
		execute([]string{".", "feature-a", "feature-b", "--out", outDir, "--json"}, exec)
	})

	var report output.Report
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.False(t, report.Success)
	assert.Equal(t, 1, report.Conflicted)
	require.Len(t, report.Files, 1)
	assert.Equal(t, "src/app.ts", report.Files[0].Path)
	require.Len(t, report.Files[0].Conflicts, 1)
	assert.Equal(t, "function:f", report.Files[0].Conflicts[0].Key)
}

func TestExecute_NotAGitRepository(t *testing.T) {
	exec := git.NewMockExecutor()
	exec.OnRun = func(_ context.Context, args []string) error {
		return git.ErrNotGitRepo
	}

	code := execute([]string{".", "feature-a", "feature-b", "--out", t.TempDir(), "--json"}, exec)
	assert.Equal(t, exitcode.NotGitRepo, code)
}

func TestExecute_ParseFailureExitCode(t *testing.T) {
	broken := "function f( {\n"
	exec := repoExec(broken, broken, broken)

	code := execute([]string{".", "feature-a", "feature-b", "--out", t.TempDir(), "--json"}, exec)
	assert.Equal(t, exitcode.ParseFailure, code)
}

func TestExecute_WrongArgCount(t *testing.T) {
	code := execute([]string{"only-one"}, git.NewMockExecutor())
	assert.Equal(t, exitcode.GitError, code)
}
