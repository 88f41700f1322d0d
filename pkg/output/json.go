// Package output provides JSON report formatting for sink.
package output

import (
	"encoding/json"
	"io"
	"os"

	"github.com/codesync-dev/sink/pkg/merge"
)

// FileReport contains the merge result for a single file.
type FileReport struct {
	Path       string                 `json:"path"`
	Output     string                 `json:"output,omitempty"`
	AutoMerged bool                   `json:"auto_merged"`
	Skipped    bool                   `json:"skipped,omitempty"`
	Conflicts  []merge.ConflictRecord `json:"conflicts,omitempty"`
	Error      string                 `json:"error,omitempty"`
}

// Report contains the overall result of a repository merge.
type Report struct {
	Success    bool         `json:"success"`
	AutoMerged int          `json:"auto_merged"`
	Conflicted int          `json:"conflicted"`
	Skipped    int          `json:"skipped"`
	Failed     int          `json:"failed"`
	Files      []FileReport `json:"files"`
	Error      string       `json:"error,omitempty"`
}

// NewReport creates a new empty Report.
func NewReport() *Report {
	return &Report{
		Files: make([]FileReport, 0),
	}
}

// AddFile adds a file report and updates the counters.
func (r *Report) AddFile(f FileReport) {
	r.Files = append(r.Files, f)
	switch {
	case f.Error != "":
		r.Failed++
	case f.Skipped:
		r.Skipped++
	case len(f.Conflicts) > 0:
		r.Conflicted++
	default:
		r.AutoMerged++
	}
}

// SetError sets the run-level error message.
func (r *Report) SetError(err error) {
	if err != nil {
		r.Error = err.Error()
	}
}

// Finalize calculates the final success state.
func (r *Report) Finalize() {
	r.Success = r.Error == "" && r.Conflicted == 0 && r.Failed == 0
}

// WriteJSON writes the report as indented JSON to the given writer.
func WriteJSON(w io.Writer, report *Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

// WriteJSONStdout writes the report as JSON to stdout.
func WriteJSONStdout(report *Report) error {
	return WriteJSON(os.Stdout, report)
}
