package testutil

import (
	"fmt"
	"os"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

// CallLogEntry represents a single call record in YAML format.
// It wraps CallRecord for serialization, handling error and time formatting.
type CallLogEntry struct {
	Method    string   `yaml:"method"`
	Name      string   `yaml:"name"`
	Args      []string `yaml:"args,omitempty"`
	Dir       string   `yaml:"dir,omitempty"`
	Env       []string `yaml:"env,omitempty"`
	Timestamp string   `yaml:"timestamp"`
	Response  string   `yaml:"response,omitempty"`
	Error     string   `yaml:"error,omitempty"`
	ExitCode  int      `yaml:"exit_code"`
}

// CallLog wraps []CallLogEntry for YAML serialization.
type CallLog struct {
	Entries []CallLogEntry `yaml:"entries"`
}

// WriteCallLog writes a slice of CallRecords to a YAML file. Useful for
// inspecting what a pipeline ran when a test fails.
func WriteCallLog(path string, records []CallRecord) error {
	log := CallLog{
		Entries: make([]CallLogEntry, 0, len(records)),
	}

	for _, r := range records {
		log.Entries = append(log.Entries, callRecordToEntry(r))
	}

	data, err := yaml.Marshal(log)
	if err != nil {
		return fmt.Errorf("marshaling call log to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing call log to %s: %w", path, err)
	}

	return nil
}

// callRecordToEntry converts a CallRecord to a CallLogEntry.
func callRecordToEntry(r CallRecord) CallLogEntry {
	entry := CallLogEntry{
		Method:    r.Method,
		Name:      r.Name,
		Args:      r.Args,
		Dir:       r.Dir,
		Env:       r.Env,
		Timestamp: r.Timestamp.Format(time.RFC3339Nano),
		Response:  r.Response,
		ExitCode:  r.ExitCode,
	}

	if r.Err != nil {
		entry.Error = r.Err.Error()
	}

	return entry
}

// ReadCallLog reads a YAML call log file back.
// Note: Error is returned as a string since the original error type is gone.
func ReadCallLog(path string) (*CallLog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading call log from %s: %w", path, err)
	}

	var log CallLog
	if err := yaml.Unmarshal(data, &log); err != nil {
		return nil, fmt.Errorf("unmarshaling call log YAML: %w", err)
	}

	return &log, nil
}

// HasError returns true if the entry has a non-empty error string.
func (e CallLogEntry) HasError() bool {
	return e.Error != ""
}

// DumpOnFailure registers a cleanup that writes the recorded calls to a YAML
// file when the test fails, so the exact command sequence the code ran is
// available while diagnosing the failure.
func (r *RecordingRunner) DumpOnFailure(t testing.TB) {
	t.Cleanup(func() {
		if !t.Failed() {
			return
		}
		path, err := r.dumpCalls()
		if err != nil {
			t.Logf("writing call log: %v", err)
			return
		}
		t.Logf("recorded commands written to %s", path)
	})
}

// dumpCalls writes the recorded calls to a fresh file outside the test's
// temporary directory, which is already gone by the time cleanups report.
func (r *RecordingRunner) dumpCalls() (string, error) {
	f, err := os.CreateTemp("", "projector-calls-*.yml")
	if err != nil {
		return "", fmt.Errorf("creating call log file: %w", err)
	}
	path := f.Name()
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing call log file: %w", err)
	}
	if err := WriteCallLog(path, r.Calls()); err != nil {
		return "", err
	}
	return path, nil
}
