package trace

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC)

func entryAt(offset time.Duration, method, path string, status int) Entry {
	return Entry{
		Timestamp: baseTime.Add(offset),
		Method:    method,
		Path:      path,
		Status:    status,
		Duration:  25 * time.Millisecond,
	}
}

func TestDedupCollapsesBursts(t *testing.T) {
	entries := []Entry{
		entryAt(0, "GET", "/api/saker", 200),
		entryAt(100*time.Millisecond, "GET", "/api/saker", 200),
		entryAt(200*time.Millisecond, "GET", "/api/saker", 200),
		entryAt(300*time.Millisecond, "GET", "/api/oppgaver", 200),
	}

	result := Dedup(entries, time.Second)

	require.Len(t, result, 2)
	assert.Equal(t, "/api/saker", result[0].Path)
	assert.Equal(t, "/api/oppgaver", result[1].Path)
}

func TestDedupKeepsEntriesOutsideWindow(t *testing.T) {
	entries := []Entry{
		entryAt(0, "GET", "/api/saker", 200),
		entryAt(2*time.Second, "GET", "/api/saker", 200),
	}

	result := Dedup(entries, time.Second)
	assert.Len(t, result, 2)
}

func TestDedupDistinguishesStatus(t *testing.T) {
	entries := []Entry{
		entryAt(0, "GET", "/api/saker", 200),
		entryAt(100*time.Millisecond, "GET", "/api/saker", 500),
	}

	result := Dedup(entries, time.Second)
	assert.Len(t, result, 2)
}

func TestDedupSortsUnorderedInput(t *testing.T) {
	entries := []Entry{
		entryAt(500*time.Millisecond, "GET", "/api/saker", 200),
		entryAt(0, "GET", "/api/saker", 200),
	}

	result := Dedup(entries, time.Second)
	require.Len(t, result, 1)
	assert.Equal(t, baseTime, result[0].Timestamp)
}

func TestDedupEmpty(t *testing.T) {
	assert.Nil(t, Dedup(nil, time.Second))
}

func TestWindowIsInclusive(t *testing.T) {
	entries := []Entry{
		entryAt(-3*time.Second, "GET", "/before", 200),
		entryAt(-2*time.Second, "GET", "/edge-low", 200),
		entryAt(0, "GET", "/center", 200),
		entryAt(2*time.Second, "GET", "/edge-high", 200),
		entryAt(3*time.Second, "GET", "/after", 200),
	}

	result := Window(entries, baseTime, 2*time.Second)

	require.Len(t, result, 3)
	assert.Equal(t, "/edge-low", result[0].Path)
	assert.Equal(t, "/center", result[1].Path)
	assert.Equal(t, "/edge-high", result[2].Path)
}

func TestWindowSortsResult(t *testing.T) {
	entries := []Entry{
		entryAt(time.Second, "GET", "/later", 200),
		entryAt(-time.Second, "GET", "/earlier", 200),
	}

	result := Window(entries, baseTime, 2*time.Second)

	require.Len(t, result, 2)
	assert.Equal(t, "/earlier", result[0].Path)
}

func TestFailures(t *testing.T) {
	entries := []Entry{
		entryAt(0, "GET", "/ok", 200),
		entryAt(0, "GET", "/missing", 404),
		entryAt(0, "POST", "/boom", 500),
		entryAt(0, "GET", "/redirect", 302),
	}

	result := Failures(entries)

	require.Len(t, result, 2)
	assert.Equal(t, 404, result[0].Status)
	assert.Equal(t, 500, result[1].Status)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	entries := []Entry{
		entryAt(0, "GET", "/api/saker", 200),
		entryAt(time.Second, "POST", "/api/vedtak", 201),
	}
	entries[0].Scenario = "fatte-vedtak"
	entries[1].Scenario = "fatte-vedtak"

	path, err := Save(dir, "fatte-vedtak", entries)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "fatte-vedtak.jsonl"), path)

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, entries[0].Path, loaded[0].Path)
	assert.Equal(t, entries[1].Status, loaded[1].Status)
	assert.True(t, entries[0].Timestamp.Equal(loaded[0].Timestamp))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.jsonl"))
	require.Error(t, err)
}
