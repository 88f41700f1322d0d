// Package merge implements an AST-aware three-way merge of TypeScript and
// TSX source files. Instead of diffing lines, it extracts top-level units
// (functions, classes, variable declarations, imports) from the merge-base
// and both branch versions, classifies how each unit changed on each side,
// and composes compatible edits while surfacing incompatible ones as
// structured conflicts.
package merge

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Kind classifies a top-level unit.
type Kind string

const (
	KindFunction Kind = "function"
	KindClass    Kind = "class"
	KindVariable Kind = "variable"
	KindImport   Kind = "import"

	// KindOther covers top-level nodes outside the tracked kinds: default
	// exports, re-exports, expression statements, standalone comments.
	// They carry positional keys and are treated as opaque text so the
	// splicer never drops them.
	KindOther Kind = "other"
)

// Unit is a single top-level declaration extracted from one snapshot.
// Units are immutable once produced by Extract.
type Unit struct {
	Kind Kind

	// Key identifies the same logical unit across the three snapshots.
	// For named declarations it is "<kind>:<name>"; for imports it is
	// "import:<module specifier>". When no name can be determined the
	// key is positional ("anonymous-at-offset-N") and NameFallback is set.
	Key          string
	Name         string
	NameFallback bool

	// Half-open byte range [StartByte, EndByte) into the snapshot source.
	StartByte uint32
	EndByte   uint32

	// RawText is the exact source slice for the range. ContentHash is a
	// hash of RawText with insignificant whitespace collapsed, used for
	// unchanged/changed comparisons.
	RawText     string
	ContentHash string
}

// Snapshot is one version of a file (base, A, or B) together with the
// ordered units extracted from it.
type Snapshot struct {
	Source []byte
	Units  []Unit

	byKey map[string]*Unit
}

// Lookup returns the unit with the given identity key, or nil.
func (s *Snapshot) Lookup(key string) *Unit {
	if s == nil {
		return nil
	}
	return s.byKey[key]
}

// normalize collapses all whitespace runs to single spaces so that two
// formattings of the same code compare equal. The collapse does not parse
// string literals, so a whitespace-only edit inside a literal also hashes
// equal and is not classified as a change.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// hashContent returns the SHA-256 of the whitespace-normalized text.
func hashContent(text string) string {
	sum := sha256.Sum256([]byte(normalize(text)))
	return hex.EncodeToString(sum[:])
}

func identityKey(kind Kind, name string) string {
	return string(kind) + ":" + name
}

func fallbackKey(offset uint32) string {
	return fmt.Sprintf("anonymous-at-offset-%d", offset)
}

// index builds the key lookup table. Within one snapshot identity keys must
// be unique for non-import kinds; a duplicate (e.g. TypeScript overload
// signatures) is demoted to a positional key so both units still participate
// in diffing.
func (s *Snapshot) index() {
	s.byKey = make(map[string]*Unit, len(s.Units))
	for i := range s.Units {
		u := &s.Units[i]
		if _, taken := s.byKey[u.Key]; taken && u.Kind != KindImport {
			u.Key = fallbackKey(u.StartByte)
			u.NameFallback = true
		}
		if _, taken := s.byKey[u.Key]; !taken {
			s.byKey[u.Key] = u
		}
	}
}
