package tracker

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileSink appends activity records as JSON lines to a log file. It is
// the default analytics sink; failures are reported to the caller and
// never retried.
type FileSink struct {
	mu   sync.Mutex
	path string
}

// NewFileSink creates a sink writing to dir/user_analytics.log.
func NewFileSink(dir string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	return &FileSink{path: filepath.Join(dir, "user_analytics.log")}, nil
}

// Write appends one record as a JSON line.
func (s *FileSink) Write(record map[string]any) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal activity record: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open activity log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write activity record: %w", err)
	}

	return nil
}
