package testutils

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// ExpectedRecord is a log record a test expects to be emitted.
type ExpectedRecord struct {
	Level   slog.Level
	Message string
}

// Compare asserts that have matches the expected level and contains the expected message.
func (want ExpectedRecord) Compare(t *testing.T, have slog.Record) {
	t.Helper()

	assert.Equal(t, want.Level, have.Level, "Expected Level did not match real Level")

	if want.Message == "" {
		return
	}
	assert.Contains(t, have.Message, want.Message, "Real Message does not contain Expected")
}

// MockHandler tracks calls to logging functions and implements slog.Handler.
// It is safe for concurrent use.
type MockHandler struct {
	IgnoreBelow slog.Level
	HandleCalls []slog.Record

	attrs []slog.Attr
	mu    *sync.Mutex
	root  *MockHandler
}

// NewMockHandler returns a new MockHandler.
// Records with a level below ignoreBelow are not collected.
func NewMockHandler(ignoreBelow slog.Level) *MockHandler {
	h := &MockHandler{
		IgnoreBelow: ignoreBelow,
		HandleCalls: make([]slog.Record, 0),
		mu:          &sync.Mutex{},
	}
	h.root = h
	return h
}

// Logger returns a logger writing to h.
func (h *MockHandler) Logger() *slog.Logger {
	return slog.New(h)
}

// Enabled implements Handler.Enabled.
func (h *MockHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.IgnoreBelow
}

// Handle implements Handler.Handle.
// Attributes added with WithAttrs are merged into the stored record.
func (h *MockHandler) Handle(_ context.Context, record slog.Record) error {
	r := record.Clone()
	r.AddAttrs(h.attrs...)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.root.HandleCalls = append(h.root.HandleCalls, r)
	return nil
}

// WithAttrs implements Handler.WithAttrs.
func (h *MockHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &MockHandler{
		IgnoreBelow: h.IgnoreBelow,
		attrs:       append(append([]slog.Attr{}, h.attrs...), attrs...),
		mu:          h.mu,
		root:        h.root,
	}
}

// WithGroup implements Handler.WithGroup.
func (h *MockHandler) WithGroup(string) slog.Handler {
	return h
}

// Records returns a copy of the collected records.
func (h *MockHandler) Records() []slog.Record {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]slog.Record{}, h.root.HandleCalls...)
}

// GetLevels returns the number of records per level.
func (h *MockHandler) GetLevels() map[slog.Level]uint {
	levels := make(map[slog.Level]uint)
	for _, r := range h.Records() {
		levels[r.Level]++
	}
	return levels
}

// AssertLevels asserts that the logging levels observed match the expected amount.
func (h *MockHandler) AssertLevels(t *testing.T, levels map[slog.Level]uint) bool {
	t.Helper()

	if levels == nil {
		return assert.Empty(t, h.Records())
	}
	return assert.Equal(t, levels, h.GetLevels())
}

// FileAttrs returns the value of the "file" attribute of every record at level.
func (h *MockHandler) FileAttrs(level slog.Level) []string {
	var files []string
	for _, r := range h.Records() {
		if r.Level != level {
			continue
		}
		r.Attrs(func(a slog.Attr) bool {
			if a.Key == "file" {
				files = append(files, a.Value.String())
				return false
			}
			return true
		})
	}
	return files
}

// OutputLogs outputs the logs collected by the handler in a readable format.
func (h *MockHandler) OutputLogs(t *testing.T) {
	t.Helper()

	for _, call := range h.Records() {
		t.Logf("Logged %v %s:", call.Level, call.Message)
		call.Attrs(func(attr slog.Attr) bool {
			t.Log(attr.String())
			return true
		})
	}
}
