package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Document is the versioned JSON report written after a run, consumed by CI.
type Document struct {
	Version     int              `json:"version"`
	GeneratedAt time.Time        `json:"generated_at"`
	Summary     Summary          `json:"summary"`
	Results     []ScenarioResult `json:"results"`
}

// WriteJSON writes the report document to path.
func WriteJSON(path string, version int, summary Summary, results []ScenarioResult) error {
	doc := Document{
		Version:     version,
		GeneratedAt: time.Now(),
		Summary:     summary,
		Results:     results,
	}

	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}

	if err := os.WriteFile(path, payload, 0o644); err != nil { //nolint:gosec // G306: report artifact
		return fmt.Errorf("writing report: %w", err)
	}

	return nil
}

// LoadJSON reads a report document back from path.
func LoadJSON(path string) (*Document, error) {
	payload, err := os.ReadFile(path) //nolint:gosec // G304: artifact path under suite-owned dir
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("parsing report: %w", err)
	}

	return &doc, nil
}
