package merge

// Resolution is the reconciler's per-key outcome: resolved text, removal,
// or a conflict record. Exactly one Resolution exists per verdict.
type Resolution struct {
	Key     string
	Kind    Kind
	Text    string
	Removed bool

	// Conflict is non-nil when the edits could not be composed. Text then
	// holds the conservative best-effort content for the merged buffer
	// (base text, or nothing for additions absent from base).
	Conflict *ConflictRecord
}

// strategy attempts to compose a ModifiedBoth verdict. Strategies are tried
// in a fixed order: convergent-edit check first, then the rename heuristic,
// then the fallback conflict. New heuristics slot into this list without
// disturbing the decision table.
type strategy func(v Verdict) (string, bool)

var modifiedBothStrategies = []strategy{
	convergentEdit,
	renameHeuristic,
}

// Reconcile applies the decision table to a single verdict. Keys are
// reconciled independently of one another; import-kind verdicts are handled
// by the import unifier instead and must not be passed here.
func Reconcile(v Verdict) Resolution {
	res := Resolution{Key: v.Key, Kind: v.Kind}

	switch v.Change {
	case Unchanged:
		res.Text = v.Base.RawText

	case ModifiedA:
		res.Text = v.A.RawText

	case ModifiedB:
		res.Text = v.B.RawText

	case AddedA:
		res.Text = v.A.RawText

	case AddedB:
		res.Text = v.B.RawText

	case AddedBoth:
		// Same key introduced on both sides. Identical content resolves
		// once; anything else is the conservative default from the
		// fallback-key tie-break: a conflict, never a guessed order.
		if v.A.ContentHash == v.B.ContentHash {
			res.Text = v.A.RawText
		} else {
			res.Conflict = conflictFor(v)
		}

	case RemovedBoth:
		res.Removed = true

	case RemovedA:
		// Deletion composes only with an untouched other side. A delete
		// against a modification is never silently resolved.
		if v.B.ContentHash != v.Base.ContentHash {
			res.Text = v.Base.RawText
			res.Conflict = conflictFor(v)
		} else {
			res.Removed = true
		}

	case RemovedB:
		if v.A.ContentHash != v.Base.ContentHash {
			res.Text = v.Base.RawText
			res.Conflict = conflictFor(v)
		} else {
			res.Removed = true
		}

	case ModifiedBoth:
		for _, try := range modifiedBothStrategies {
			if text, ok := try(v); ok {
				res.Text = text
				return res
			}
		}
		res.Text = v.Base.RawText
		res.Conflict = conflictFor(v)
	}

	return res
}

// convergentEdit resolves the case where both sides produced the same
// resulting text. Equality uses the same normalized hash the classifier
// uses, so byte-identical edits and formatting-only divergence both
// converge; the resolved text is A's.
func convergentEdit(v Verdict) (string, bool) {
	if v.A.ContentHash == v.B.ContentHash {
		return v.A.RawText, true
	}
	return "", false
}

// renameHeuristic composes a first-parameter rename on one side with a
// disjoint edit on the other. Function units only; units identified by a
// positional fallback key are never eligible.
func renameHeuristic(v Verdict) (string, bool) {
	if v.Kind != KindFunction {
		return "", false
	}
	if v.Base.NameFallback || v.A.NameFallback || v.B.NameFallback {
		return "", false
	}
	return tryRenameMerge(v.Base.RawText, v.A.RawText, v.B.RawText)
}

func conflictFor(v Verdict) *ConflictRecord {
	rec := &ConflictRecord{
		Key:    v.Key,
		Reason: ReasonIncompatibleEdit,
	}
	if v.Base != nil {
		rec.BaseText = v.Base.RawText
		rec.LowConfidence = rec.LowConfidence || v.Base.NameFallback
	}
	if v.A != nil {
		rec.AText = v.A.RawText
		rec.LowConfidence = rec.LowConfidence || v.A.NameFallback
	}
	if v.B != nil {
		rec.BText = v.B.RawText
		rec.LowConfidence = rec.LowConfidence || v.B.NameFallback
	}
	return rec
}
