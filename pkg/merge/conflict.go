package merge

// Conflict reasons. HeuristicInapplicable is not its own reason: when the
// rename heuristic's preconditions fail the case falls through to
// incompatible-edit.
const (
	ReasonIncompatibleEdit = "incompatible-edit"
)

// ConflictRecord retains everything needed to resolve a unit by hand: the
// identity key, a human-readable reason, and the three candidate texts.
// Records are never silently dropped.
type ConflictRecord struct {
	Path     string `json:"path"`
	Key      string `json:"key"`
	Reason   string `json:"reason"`
	BaseText string `json:"base_text"`
	AText    string `json:"a_text"`
	BText    string `json:"b_text"`

	// LowConfidence is set when the unit's identity came from a
	// positional fallback key rather than a declared name.
	LowConfidence bool `json:"low_confidence,omitempty"`
}

// Reporter accumulates conflict records for one file, in reconciliation
// order. The report, not the partially merged buffer, is the authoritative
// signal that a file needs manual attention.
type Reporter struct {
	path    string
	records []ConflictRecord
}

// NewReporter creates a reporter for the given file path.
func NewReporter(path string) *Reporter {
	return &Reporter{path: path}
}

// Add records a conflict, stamping it with the reporter's file path.
func (r *Reporter) Add(rec ConflictRecord) {
	rec.Path = r.path
	r.records = append(r.records, rec)
}

// Records returns the accumulated conflicts.
func (r *Reporter) Records() []ConflictRecord {
	return r.records
}

// HasConflicts reports whether any conflict was recorded.
func (r *Reporter) HasConflicts() bool {
	return len(r.records) > 0
}
