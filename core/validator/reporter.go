package validator

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

type LogEntry struct {
	Reason      string
	ErrorDetail error
}

// Reporter collects validation failures and writes them to a report file.
// It is safe for concurrent use.
type Reporter struct {
	mu         sync.Mutex
	entries    []LogEntry
	outputPath string
	runID      string
}

func NewReporter(outputPath string) (*Reporter, error) {
	outputPath, err := filepath.Abs(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path of output path: %w", err)
	}
	return &Reporter{
		outputPath: outputPath,
	}, nil
}

// SetRunID records the generate run the report refers to.
func (r *Reporter) SetRunID(runID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runID = runID
}

func (r *Reporter) Record(reason string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, LogEntry{
		Reason:      reason,
		ErrorDetail: err,
	})
}

func (r *Reporter) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Summary counts the recorded entries per reason.
func (r *Reporter) Summary() map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	summary := make(map[string]int)
	for _, entry := range r.entries {
		summary[entry.Reason]++
	}
	return summary
}

// Flush writes the report, sorted by reason, if anything was recorded.
func (r *Reporter) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.entries) == 0 {
		return nil
	}

	slog.Info("Start writing error report to file:", slog.String("OutputPath", r.outputPath), slog.Int("ErrorCount", len(r.entries)))

	file, err := os.Create(r.outputPath)
	if err != nil {
		return fmt.Errorf("failed to create error report file: %w", err)
	}
	defer file.Close()

	sort.SliceStable(r.entries, func(i, j int) bool { return r.entries[i].Reason < r.entries[j].Reason })

	w := bufio.NewWriter(file)
	if r.runID != "" {
		fmt.Fprintf(w, "# run %s\n", r.runID)
	}
	for _, entry := range r.entries {
		fmt.Fprintf(w, "[%s] %s\n", entry.Reason, entry.ErrorDetail.Error())
	}
	if err = w.Flush(); err != nil {
		return fmt.Errorf("failed to write error report file: %w", err)
	}

	slog.Info("Finish writing error report to file:", slog.String("OutputPath", r.outputPath))
	return nil
}
