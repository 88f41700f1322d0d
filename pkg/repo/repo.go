package repo

import (
	"context"
	"errors"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/codesync-dev/sink/pkg/git"
	"github.com/codesync-dev/sink/pkg/logging"
	"github.com/codesync-dev/sink/pkg/merge"
)

// Options controls a repository merge run.
type Options struct {
	// Jobs bounds the number of files merged concurrently.
	// Zero means one pipeline per CPU.
	Jobs int
}

// FileResult is the outcome for one repository file.
type FileResult struct {
	Path    string
	OutName string

	// Outcome is nil when the file was skipped or failed to parse.
	Outcome *merge.Outcome
	Skipped bool
	Err     error
}

// FlattenPath maps a repository-relative path to its output file name:
// each path separator becomes a double underscore. This is the documented
// contract with the output writer.
func FlattenPath(path string) string {
	return strings.ReplaceAll(path, "/", "__")
}

// MergeRepository merges refA and refB against their merge-base for every
// TypeScript file found at the base. Files are independent, so the per-file
// pipelines run in parallel; a parse failure or conflict in one file never
// aborts the batch. Results come back in the base tree's file order.
func MergeRepository(ctx context.Context, exec git.Executor, refA, refB string, opts Options) ([]FileResult, error) {
	baseRef, err := MergeBase(ctx, exec, refA, refB)
	if err != nil {
		return nil, err
	}
	logging.Debug("resolved merge-base", "base", baseRef, "a", refA, "b", refB)

	tree, err := ListTree(ctx, exec, baseRef)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, f := range tree {
		if merge.IsMergeableFile(f) {
			files = append(files, f)
		}
	}
	logging.Info("merging repository", "files", len(files))

	reader := &GitBlobReader{Exec: exec}
	results := make([]FileResult, len(files))

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			results[i] = mergeOne(gctx, reader, baseRef, refA, refB, file)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// mergeOne reads the three versions of a file and runs the merge pipeline.
// A missing blob is the added/removed case and maps to an empty snapshot.
func mergeOne(ctx context.Context, reader BlobReader, baseRef, refA, refB, file string) FileResult {
	result := FileResult{Path: file, OutName: FlattenPath(file)}

	readSide := func(ref string) ([]byte, bool) {
		content, err := reader.ReadBlob(ctx, ref, file)
		if err != nil {
			if !errors.Is(err, ErrNotFound) {
				logging.Warn("blob read failed", "file", file, "ref", ref, "error", err)
			}
			return nil, false
		}
		return content, true
	}

	baseSrc, _ := readSide(baseRef)
	aSrc, aOK := readSide(refA)
	bSrc, bOK := readSide(refB)

	// Gone from both branches: nothing to merge.
	if !aOK && !bOK {
		result.Skipped = true
		return result
	}

	outcome, err := merge.MergeFile(ctx, baseSrc, aSrc, bSrc, file)
	if err != nil {
		logging.Error("merge failed", "file", file, "error", err)
		result.Err = err
		return result
	}
	result.Outcome = outcome
	return result
}
