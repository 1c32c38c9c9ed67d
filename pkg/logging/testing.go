package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// TestLogger records JSON log lines for assertions.
type TestLogger struct {
	*zerolog.Logger
	Buffer *bytes.Buffer
}

// Entry is one decoded log line.
type Entry map[string]any

// Str returns a string field of the entry.
func (e Entry) Str(key string) string {
	s, _ := e[key].(string)
	return s
}

// NewTestLogger returns a trace-level logger writing to a buffer. The global
// level is lowered for the duration of the test.
func NewTestLogger(t testing.TB) *TestLogger {
	t.Helper()

	previous := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	t.Cleanup(func() { zerolog.SetGlobalLevel(previous) })

	buf := &bytes.Buffer{}
	logger := zerolog.New(buf).Level(zerolog.TraceLevel)
	return &TestLogger{Logger: &logger, Buffer: buf}
}

// Output returns everything logged so far.
func (tl *TestLogger) Output() string {
	return tl.Buffer.String()
}

// Entries decodes the captured lines. Lines that are not JSON are skipped.
func (tl *TestLogger) Entries() []Entry {
	var entries []Entry
	for _, line := range strings.Split(strings.TrimSpace(tl.Output()), "\n") {
		var e Entry
		if json.Unmarshal([]byte(line), &e) == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

// Count returns the number of captured lines.
func (tl *TestLogger) Count() int {
	return len(tl.Entries())
}

// Find returns the entries with the given message.
func (tl *TestLogger) Find(message string) []Entry {
	var found []Entry
	for _, e := range tl.Entries() {
		if e.Str(zerolog.MessageFieldName) == message {
			found = append(found, e)
		}
	}
	return found
}

// Reset drops everything captured so far.
func (tl *TestLogger) Reset() {
	tl.Buffer.Reset()
}

// AssertContains fails the test unless the output contains substr.
func (tl *TestLogger) AssertContains(t testing.TB, substr string) {
	t.Helper()
	if !strings.Contains(tl.Output(), substr) {
		t.Errorf("log output does not contain %q\noutput:\n%s", substr, tl.Output())
	}
}

// AssertNotContains fails the test if the output contains substr.
func (tl *TestLogger) AssertNotContains(t testing.TB, substr string) {
	t.Helper()
	if strings.Contains(tl.Output(), substr) {
		t.Errorf("log output should not contain %q\noutput:\n%s", substr, tl.Output())
	}
}

// CaptureDefault installs a TestLogger as the default logger until the test ends.
func CaptureDefault(t testing.TB) *TestLogger {
	t.Helper()

	previous := *Default()
	tl := NewTestLogger(t)
	SetDefault(*tl.Logger)
	t.Cleanup(func() { SetDefault(previous) })
	return tl
}
