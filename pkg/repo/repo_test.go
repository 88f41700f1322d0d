package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codesync-dev/sink/pkg/git"
)

// fakeRepo wires a MockExecutor to behave like a repository with two refs
// and a merge-base, serving blobs out of in-memory maps.
func fakeRepo(tree []string, base, a, b map[string]string) *git.MockExecutor {
	exec := git.NewMockExecutor()
	exec.OnOutput = func(_ context.Context, args []string) ([]byte, error) {
		switch args[0] {
		case "merge-base":
			return []byte("basesha\n"), nil
		case "ls-tree":
			return []byte(strings.Join(tree, "\n") + "\n"), nil
		case "show":
			ref, path, _ := strings.Cut(args[1], ":")
			var blobs map[string]string
			switch ref {
			case "basesha":
				blobs = base
			case "feature-a":
				blobs = a
			case "feature-b":
				blobs = b
			}
			content, ok := blobs[path]
			if !ok {
				return nil, fmt.Errorf("fatal: path %q does not exist", path)
			}
			return []byte(content), nil
		}
		return nil, fmt.Errorf("unexpected git call: %v", args)
	}
	return exec
}

func TestFlattenPath(t *testing.T) {
	assert.Equal(t, "src__utils__math.ts", FlattenPath("src/utils/math.ts"))
	assert.Equal(t, "index.ts", FlattenPath("index.ts"))
}

func TestMergeBase(t *testing.T) {
	exec := git.NewMockExecutor()
	exec.SetResponse("merge-base", []byte("abc123\n"), nil)

	ref, err := MergeBase(context.Background(), exec, "feature-a", "feature-b")
	require.NoError(t, err)
	assert.Equal(t, "abc123", ref)

	calls := exec.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"merge-base", "feature-a", "feature-b"}, calls[0].Args)

	exec.Reset()
	_, err = MergeBase(context.Background(), exec, "main", "topic")
	require.NoError(t, err)
	calls = exec.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"merge-base", "main", "topic"}, calls[0].Args)
}

func TestMergeBase_Error(t *testing.T) {
	exec := git.NewMockExecutor()
	exec.SetResponse("merge-base", nil, git.ErrBadObject)

	_, err := MergeBase(context.Background(), exec, "feature-a", "feature-b")
	assert.ErrorIs(t, err, git.ErrBadObject)
}

func TestListTree(t *testing.T) {
	exec := git.NewMockExecutor()
	exec.SetResponse("ls-tree", []byte("src/a.ts\nsrc/b.tsx\nREADME.md\n"), nil)

	files, err := ListTree(context.Background(), exec, "basesha")
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.ts", "src/b.tsx", "README.md"}, files)
}

func TestGitBlobReader_MissingBlobIsNotFound(t *testing.T) {
	exec := git.NewMockExecutor()
	exec.SetDefaultResponse(nil, errors.New("fatal: path does not exist"))

	reader := &GitBlobReader{Exec: exec}
	_, err := reader.ReadBlob(context.Background(), "basesha", "src/gone.ts")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMergeRepository_FiltersAndMerges(t *testing.T) {
	base := map[string]string{
		"src/a.ts":  "function f() {\n  return 1;\n}\n",
		"README.md": "# readme\n",
	}
	a := map[string]string{
		"src/a.ts":  "function f() {\n  return 2;\n}\n",
		"README.md": "# readme\n",
	}
	b := map[string]string{
		"src/a.ts":  "function f() {\n  return 1;\n}\n",
		"README.md": "# readme\n",
	}
	exec := fakeRepo([]string{"src/a.ts", "README.md"}, base, a, b)

	results, err := MergeRepository(context.Background(), exec, "feature-a", "feature-b", Options{Jobs: 2})
	require.NoError(t, err)

	// README.md is not a mergeable file and never enters the batch.
	require.Len(t, results, 1)
	res := results[0]
	assert.Equal(t, "src/a.ts", res.Path)
	assert.Equal(t, "src__a.ts", res.OutName)
	require.NotNil(t, res.Outcome)
	assert.True(t, res.Outcome.AutoMerged())
	assert.Equal(t, "function f() {\n  return 2;\n}\n", string(res.Outcome.Buffer))
}

func TestMergeRepository_MissingSideIsAddedOrRemoved(t *testing.T) {
	base := map[string]string{
		"src/a.ts": "function f() {\n  return 1;\n}\n",
	}
	// A deleted the file; B left it alone. The file-level delete composes
	// the same way unit-level deletes do.
	a := map[string]string{}
	b := map[string]string{
		"src/a.ts": "function f() {\n  return 1;\n}\n",
	}
	exec := fakeRepo([]string{"src/a.ts"}, base, a, b)

	results, err := MergeRepository(context.Background(), exec, "feature-a", "feature-b", Options{})
	require.NoError(t, err)
	require.Len(t, results, 1)

	res := results[0]
	require.NotNil(t, res.Outcome)
	assert.True(t, res.Outcome.AutoMerged())
	assert.Empty(t, res.Outcome.Buffer)
}

func TestMergeRepository_GoneFromBothSidesIsSkipped(t *testing.T) {
	base := map[string]string{
		"src/a.ts": "function f() {\n  return 1;\n}\n",
	}
	exec := fakeRepo([]string{"src/a.ts"}, base, map[string]string{}, map[string]string{})

	results, err := MergeRepository(context.Background(), exec, "feature-a", "feature-b", Options{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Skipped)
	assert.Nil(t, results[0].Outcome)
}

func TestMergeRepository_ParseFailureDoesNotAbortBatch(t *testing.T) {
	base := map[string]string{
		"src/bad.ts":  "function f( {\n",
		"src/good.ts": "function g() {\n  return 1;\n}\n",
	}
	exec := fakeRepo([]string{"src/bad.ts", "src/good.ts"}, base, base, base)

	results, err := MergeRepository(context.Background(), exec, "feature-a", "feature-b", Options{Jobs: 1})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Error(t, results[0].Err)
	assert.Nil(t, results[0].Outcome)

	require.NotNil(t, results[1].Outcome)
	assert.True(t, results[1].Outcome.AutoMerged())
}
