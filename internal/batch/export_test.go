package batch

import "log/slog"

// WithLogger sets the logger used by the runner and its pipeline.
func WithLogger(l *slog.Logger) Options {
	return func(o *options) {
		o.Logger = l
	}
}

// WithRunID sets a fixed run identifier.
func WithRunID(id string) Options {
	return func(o *options) {
		o.RunID = id
	}
}

// ExistingFiles exposes existingFiles for tests.
var ExistingFiles = existingFiles
