// Package exitcode defines standard exit codes for sink.
package exitcode

const (
	// Success indicates every file merged without conflicts.
	Success = 0

	// ConflictsRemain indicates at least one file carries unresolved
	// conflicts.
	ConflictsRemain = 1

	// GitError indicates a git command failed.
	GitError = 2

	// ParseFailure indicates at least one file was excluded because the
	// grammar parser rejected it.
	ParseFailure = 3

	// NotGitRepo indicates the target path is not a git repository.
	// This matches git's convention for this error.
	NotGitRepo = 128
)
