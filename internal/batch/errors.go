package batch

import "errors"

// Errors reported by a run. Per file errors are joined with their cause, use errors.Is to match them.
var (
	// ErrDirectoryAccess is returned when the target directory cannot be listed. It aborts the run.
	ErrDirectoryAccess = errors.New("cannot access target directory")

	// ErrFileRead is reported when a file cannot be read.
	ErrFileRead = errors.New("cannot read file")

	// ErrParse is reported when a file is not a JSON object.
	ErrParse = errors.New("cannot parse file as a JSON object")

	// ErrFieldAccess is reported when the configured field is missing or is not a string.
	ErrFieldAccess = errors.New("cannot access field")

	// ErrSerialize is reported when the updated document cannot be serialized.
	ErrSerialize = errors.New("cannot serialize file")

	// ErrFileWrite is reported when the updated content cannot be written back.
	ErrFileWrite = errors.New("cannot write file")

	// ErrCanceled is reported for files that were not processed because the run was canceled.
	ErrCanceled = errors.New("processing canceled")
)
