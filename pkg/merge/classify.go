package merge

import "sort"

// Change is the per-key classification of how a unit differs across the
// three snapshots.
type Change int

const (
	Unchanged Change = iota
	AddedA
	AddedB
	AddedBoth
	RemovedA
	RemovedB
	RemovedBoth
	ModifiedA
	ModifiedB
	ModifiedBoth
)

var changeNames = map[Change]string{
	Unchanged:    "unchanged",
	AddedA:       "added-A",
	AddedB:       "added-B",
	AddedBoth:    "added-both",
	RemovedA:     "removed-A",
	RemovedB:     "removed-B",
	RemovedBoth:  "removed-both",
	ModifiedA:    "modified-A",
	ModifiedB:    "modified-B",
	ModifiedBoth: "modified-both",
}

func (c Change) String() string { return changeNames[c] }

// Verdict pairs a classification with references to the units involved.
// The mapping of key to Verdict is the sole handoff between the classifier
// and the reconciler.
type Verdict struct {
	Key    string
	Kind   Kind
	Change Change

	Base *Unit // nil when the key is absent from base
	A    *Unit // nil when the key is absent from A
	B    *Unit // nil when the key is absent from B
}

// Classify computes a verdict for every identity key present in any of the
// three snapshots. Two independent edits that produce the same hash are
// still classified ModifiedBoth; deciding whether equal outcomes compose is
// the reconciler's job.
func Classify(base, a, b *Snapshot) map[string]Verdict {
	verdicts := make(map[string]Verdict)

	for _, snap := range []*Snapshot{base, a, b} {
		for i := range snap.Units {
			key := snap.Units[i].Key
			if _, done := verdicts[key]; done {
				continue
			}
			verdicts[key] = classifyKey(key, base, a, b)
		}
	}
	pairFallbackAdditions(verdicts)
	return verdicts
}

// pairFallbackAdditions folds one-sided additions of identical fallback-key
// content into a single added-both verdict. Positional keys shift whenever
// an edit above a unit changes its offset, so the same untouched text can
// surface as one addition per side; without pairing it would be spliced
// twice. Pairing is by kind and content hash, in offset order, so the
// result does not depend on map iteration.
func pairFallbackAdditions(verdicts map[string]Verdict) {
	byHash := make(map[string][]string)
	for key, v := range verdicts {
		if v.Change == AddedB && v.B.NameFallback {
			h := string(v.Kind) + "\x00" + v.B.ContentHash
			byHash[h] = append(byHash[h], key)
		}
	}
	for _, keys := range byHash {
		sort.Slice(keys, func(i, j int) bool {
			return verdicts[keys[i]].B.StartByte < verdicts[keys[j]].B.StartByte
		})
	}

	var aKeys []string
	for key, v := range verdicts {
		if v.Change == AddedA && v.A.NameFallback {
			aKeys = append(aKeys, key)
		}
	}
	sort.Slice(aKeys, func(i, j int) bool {
		return verdicts[aKeys[i]].A.StartByte < verdicts[aKeys[j]].A.StartByte
	})

	for _, aKey := range aKeys {
		av := verdicts[aKey]
		h := string(av.Kind) + "\x00" + av.A.ContentHash
		candidates := byHash[h]
		if len(candidates) == 0 {
			continue
		}
		bKey := candidates[0]
		byHash[h] = candidates[1:]

		av.Change = AddedBoth
		av.B = verdicts[bKey].B
		verdicts[aKey] = av
		delete(verdicts, bKey)
	}
}

func classifyKey(key string, base, a, b *Snapshot) Verdict {
	v := Verdict{
		Key:  key,
		Base: base.Lookup(key),
		A:    a.Lookup(key),
		B:    b.Lookup(key),
	}
	switch {
	case v.Base != nil:
		v.Kind = v.Base.Kind
	case v.A != nil:
		v.Kind = v.A.Kind
	default:
		v.Kind = v.B.Kind
	}

	switch {
	case v.Base == nil:
		switch {
		case v.A != nil && v.B != nil:
			v.Change = AddedBoth
		case v.A != nil:
			v.Change = AddedA
		default:
			v.Change = AddedB
		}
	case v.A == nil && v.B == nil:
		v.Change = RemovedBoth
	case v.A == nil:
		v.Change = RemovedA
	case v.B == nil:
		v.Change = RemovedB
	default:
		aChanged := v.A.ContentHash != v.Base.ContentHash
		bChanged := v.B.ContentHash != v.Base.ContentHash
		switch {
		case aChanged && bChanged:
			v.Change = ModifiedBoth
		case aChanged:
			v.Change = ModifiedA
		case bChanged:
			v.Change = ModifiedB
		default:
			v.Change = Unchanged
		}
	}
	return v
}
