package merge

import "strings"

// outputOrder derives the final unit ordering: base's non-import sequence,
// with added units inserted after the last resolved unit preceding their
// origin position in the originating side's sequence. A's additions are
// placed before B's; additions introduced identically on both sides are
// inserted once, at A's position.
func outputOrder(base, a, b *Snapshot, verdicts map[string]Verdict) []string {
	var order []string
	pos := make(map[string]int)
	fromBase := make(map[string]bool)

	appendKey := func(key string) {
		pos[key] = len(order)
		order = append(order, key)
	}
	insertAfter := func(anchor, key string) {
		at := 0
		if anchor != "" {
			at = pos[anchor] + 1
		}
		// Skip past additions already placed at this point so that when
		// both sides add after the same anchor, A's units stay first.
		for at < len(order) && !fromBase[order[at]] {
			at++
		}
		order = append(order, "")
		copy(order[at+1:], order[at:])
		order[at] = key
		for k, p := range pos {
			if p >= at {
				pos[k] = p + 1
			}
		}
		pos[key] = at
	}

	for _, u := range base.Units {
		if u.Kind == KindImport {
			continue
		}
		if _, dup := pos[u.Key]; !dup {
			appendKey(u.Key)
			fromBase[u.Key] = true
		}
	}

	for _, side := range []*Snapshot{a, b} {
		anchor := ""
		for _, u := range side.Units {
			if u.Kind == KindImport {
				continue
			}
			if _, present := pos[u.Key]; present {
				anchor = u.Key
				continue
			}
			switch verdicts[u.Key].Change {
			case AddedA, AddedB, AddedBoth:
				insertAfter(anchor, u.Key)
				anchor = u.Key
			}
		}
	}

	return order
}

// Splice assembles the output buffer: the unified import block first, then
// each resolved unit in order, separated by a single blank line. Removed
// units are skipped; conflicted units contribute their conservative text
// (base content) while the conflict record carries all three candidates.
// Base's exact inter-unit whitespace is not preserved beyond the blank-line
// normalization.
func Splice(order []string, resolutions map[string]Resolution, imports []string) []byte {
	var blocks []string

	if len(imports) > 0 {
		blocks = append(blocks, strings.Join(imports, "\n"))
	}

	for _, key := range order {
		res, ok := resolutions[key]
		if !ok || res.Removed || res.Text == "" {
			continue
		}
		blocks = append(blocks, res.Text)
	}

	if len(blocks) == 0 {
		return []byte{}
	}
	return []byte(strings.Join(blocks, "\n\n") + "\n")
}
