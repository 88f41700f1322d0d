// Package repo runs the AST-aware merge across every TypeScript file of a
// git repository, reading file versions from refs and fanning the per-file
// pipelines out in parallel.
package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/codesync-dev/sink/pkg/git"
)

// ErrNotFound signals that a blob does not exist at the given ref. Callers
// treat it as the corresponding added/removed case, not as a failure.
var ErrNotFound = errors.New("blob not found")

// BlobReader retrieves a file's content at a specific ref.
type BlobReader interface {
	ReadBlob(ctx context.Context, ref, path string) ([]byte, error)
}

// GitBlobReader reads blobs via `git show <ref>:<path>`.
type GitBlobReader struct {
	Exec git.Executor
}

// ReadBlob returns the blob content, or ErrNotFound when the path does not
// exist at the ref.
func (r *GitBlobReader) ReadBlob(ctx context.Context, ref, path string) ([]byte, error) {
	out, err := r.Exec.Output(ctx, "show", fmt.Sprintf("%s:%s", ref, path))
	if err != nil {
		return nil, fmt.Errorf("%w: %s at %s", ErrNotFound, path, ref)
	}
	return out, nil
}

// MergeBase resolves the common ancestor of the two refs.
func MergeBase(ctx context.Context, exec git.Executor, refA, refB string) (string, error) {
	out, err := exec.Output(ctx, "merge-base", refA, refB)
	if err != nil {
		return "", fmt.Errorf("merge-base %s %s: %w", refA, refB, err)
	}
	return strings.TrimSpace(string(out)), nil
}

// ListTree returns the repository-relative paths of all files at the ref.
func ListTree(ctx context.Context, exec git.Executor, ref string) ([]string, error) {
	out, err := exec.Output(ctx, "ls-tree", "-r", "--name-only", ref)
	if err != nil {
		return nil, fmt.Errorf("ls-tree %s: %w", ref, err)
	}
	var files []string
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		if line != "" {
			files = append(files, line)
		}
	}
	return files, nil
}
