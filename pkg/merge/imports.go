package merge

import "strings"

// UnifyImports builds the hoisted import block. Import units never pass
// through the reconciler's conflict path: the union of all surviving import
// lines is kept, de-duplicated at line level (no specifier merging).
//
// Output order: imports untouched on both sides in base order, then lines
// introduced or revised by A in A's order, then those from B in B's order.
// Duplicates by whitespace-trimmed line are elided at first occurrence.
func UnifyImports(base, a, b *Snapshot) []string {
	var lines []string
	seen := make(map[string]bool)

	add := func(raw string) {
		line := strings.TrimSpace(raw)
		if line == "" || seen[line] {
			return
		}
		seen[line] = true
		lines = append(lines, line)
	}

	// Base imports survive only when present and unchanged on both sides;
	// a removal on either side drops the line, a revision supersedes it.
	for _, u := range base.Units {
		if u.Kind != KindImport {
			continue
		}
		au, bu := a.Lookup(u.Key), b.Lookup(u.Key)
		if au != nil && bu != nil &&
			au.ContentHash == u.ContentHash && bu.ContentHash == u.ContentHash {
			add(u.RawText)
		}
	}

	for _, side := range []*Snapshot{a, b} {
		for _, u := range side.Units {
			if u.Kind != KindImport {
				continue
			}
			bu := base.Lookup(u.Key)
			if bu == nil || bu.ContentHash != u.ContentHash {
				add(u.RawText)
			}
		}
	}

	return lines
}
