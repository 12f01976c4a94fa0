// Package trace records the API calls the browser makes against the
// application during a scenario, persists them as JSONL artifacts, and
// replays them for debugging failed runs.
package trace

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Entry is one observed API call.
type Entry struct {
	Timestamp time.Time     `json:"timestamp"`
	Scenario  string        `json:"scenario,omitempty"`
	Method    string        `json:"method"`
	Path      string        `json:"path"`
	Status    int           `json:"status"`
	Duration  time.Duration `json:"duration_ns"`
}

// key identifies a request shape for de-duplication.
type key struct {
	method string
	path   string
	status int
}

// Dedup collapses bursts of identical (method, path, status) entries: within
// window of a kept entry, later duplicates are dropped. Entries are sorted
// by timestamp first so callers can pass them in any order.
func Dedup(entries []Entry, window time.Duration) []Entry {
	if len(entries) == 0 {
		return nil
	}

	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	lastKept := make(map[key]time.Time)
	result := make([]Entry, 0, len(sorted))

	for _, entry := range sorted {
		k := key{method: entry.Method, path: entry.Path, status: entry.Status}

		if kept, ok := lastKept[k]; ok && entry.Timestamp.Sub(kept) < window {
			continue
		}

		lastKept[k] = entry.Timestamp
		result = append(result, entry)
	}

	return result
}

// Window returns the entries within radius of the given instant, both ends
// inclusive. Used to pull the API calls surrounding a failure.
func Window(entries []Entry, around time.Time, radius time.Duration) []Entry {
	from := around.Add(-radius)
	to := around.Add(radius)

	result := make([]Entry, 0)

	for _, entry := range entries {
		if entry.Timestamp.Before(from) || entry.Timestamp.After(to) {
			continue
		}

		result = append(result, entry)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Timestamp.Before(result[j].Timestamp)
	})

	return result
}

// Failures returns the entries with server or client error statuses.
func Failures(entries []Entry) []Entry {
	result := make([]Entry, 0)

	for _, entry := range entries {
		if entry.Status >= 400 {
			result = append(result, entry)
		}
	}

	return result
}

// Save writes entries as JSONL under dir, one file per scenario.
func Save(dir, scenario string, entries []Entry) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating trace dir: %w", err)
	}

	path := filepath.Join(dir, scenario+".jsonl")

	file, err := os.Create(path) //nolint:gosec // G304: artifact path under suite-owned dir
	if err != nil {
		return "", fmt.Errorf("creating trace file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	writer := bufio.NewWriter(file)
	encoder := json.NewEncoder(writer)

	for _, entry := range entries {
		if err := encoder.Encode(entry); err != nil {
			return "", fmt.Errorf("encoding trace entry: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("flushing trace file: %w", err)
	}

	return path, nil
}

// Load reads a JSONL trace file back into entries.
func Load(path string) ([]Entry, error) {
	file, err := os.Open(path) //nolint:gosec // G304: artifact path under suite-owned dir
	if err != nil {
		return nil, fmt.Errorf("opening trace file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	var entries []Entry

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			return nil, fmt.Errorf("parsing trace line: %w", err)
		}

		entries = append(entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading trace file: %w", err)
	}

	return entries, nil
}
