package merge

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/codesync-dev/sink/pkg/logging"
)

// Outcome is the result of merging one file: the (fully or partially)
// resolved buffer plus every conflict encountered. An empty conflict list
// means the buffer is safe to take as-is.
type Outcome struct {
	Path      string
	Buffer    []byte
	Conflicts []ConflictRecord
}

// AutoMerged reports whether every unit resolved without conflict.
func (o *Outcome) AutoMerged() bool { return len(o.Conflicts) == 0 }

// MergeFile runs the full pipeline for a single file: extract the three
// snapshots, classify every identity key, reconcile, unify imports, and
// splice the output buffer. The only error it returns is a *ParseError;
// per-unit conflicts never abort the merge.
func MergeFile(ctx context.Context, baseSrc, aSrc, bSrc []byte, path string) (*Outcome, error) {
	lang := DetectLanguage(path)
	if lang == LangUnknown {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("no grammar for file")}
	}

	// The three extractions are independent; run them concurrently.
	var base, a, b *Snapshot
	g, gctx := errgroup.WithContext(ctx)
	extract := func(src []byte, dst **Snapshot) func() error {
		return func() error {
			snap, err := Extract(gctx, src, lang)
			if err != nil {
				return err
			}
			*dst = snap
			return nil
		}
	}
	g.Go(extract(baseSrc, &base))
	g.Go(extract(aSrc, &a))
	g.Go(extract(bSrc, &b))
	if err := g.Wait(); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	verdicts := Classify(base, a, b)
	order := outputOrder(base, a, b, verdicts)

	reporter := NewReporter(path)
	resolutions := make(map[string]Resolution, len(verdicts))
	for _, key := range order {
		v := verdicts[key]
		res := Reconcile(v)
		if res.Conflict != nil {
			reporter.Add(*res.Conflict)
			logging.Debug("unit conflict", "path", path, "key", key, "change", v.Change.String())
		}
		resolutions[key] = res
	}

	imports := UnifyImports(base, a, b)
	buffer := Splice(order, resolutions, imports)

	return &Outcome{
		Path:      path,
		Buffer:    buffer,
		Conflicts: reporter.Records(),
	}, nil
}
