// Package mock is a REST client for the melosys-mock service, which stands
// in for the upstream registries (person, arbeidsforhold, journalpost) the
// application talks to. Scenarios seed it before a run and reset it after.
package mock

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const defaultHTTPTimeout = 30 * time.Second

// Person is the test person seeded into the mocked person registry.
type Person struct {
	Fnr          string   `json:"fnr"`
	Fornavn      string   `json:"fornavn"`
	Etternavn    string   `json:"etternavn"`
	Statsborger  string   `json:"statsborgerskap"`
	Bostedsland  string   `json:"bostedsland"`
	Familiemedl  []string `json:"familiemedlemmer,omitempty"`
	Diskresjon   bool     `json:"diskresjon,omitempty"`
	Utenlandsopp []string `json:"utenlandsopphold,omitempty"`
}

// Arbeidsforhold is an employment relation seeded into the mocked
// arbeidsforhold registry.
type Arbeidsforhold struct {
	Fnr          string `json:"fnr"`
	Orgnummer    string `json:"orgnummer"`
	Arbeidsgiver string `json:"arbeidsgiver"`
	Fom          string `json:"fom"`
	Tom          string `json:"tom,omitempty"`
	Stilling     int    `json:"stillingsprosent"`
}

// Journalpost is an incoming document queued for journalføring.
type Journalpost struct {
	Fnr        string   `json:"fnr"`
	Tittel     string   `json:"tittel"`
	Tema       string   `json:"tema"`
	Kanal      string   `json:"kanal"`
	Dokumenter []string `json:"dokumenter,omitempty"`
}

// OutboundRequest is one request the application made to a mocked upstream,
// as recorded by the mock service.
type OutboundRequest struct {
	Timestamp time.Time `json:"timestamp"`
	Method    string    `json:"method"`
	Path      string    `json:"path"`
	Body      string    `json:"body,omitempty"`
}

// Client talks to the melosys-mock admin API.
type Client interface {
	Reset(ctx context.Context) error
	SeedPerson(ctx context.Context, person *Person) error
	SeedArbeidsforhold(ctx context.Context, forhold *Arbeidsforhold) error
	OpprettJournalpost(ctx context.Context, journalpost *Journalpost) (string, error)
	OutboundRequests(ctx context.Context, pathPrefix string) ([]OutboundRequest, error)
}

type client struct {
	baseURL    string
	httpClient *http.Client
	log        logrus.FieldLogger
}

// NewClient creates a mock service client for the given base URL.
func NewClient(log logrus.FieldLogger, baseURL string) Client {
	return &client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
		log: log.WithField("component", "mock_client"),
	}
}

// Reset clears all seeded data and recorded requests.
func (c *client) Reset(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/admin/reset", nil, nil); err != nil {
		return fmt.Errorf("resetting mock state: %w", err)
	}

	c.log.Debug("mock state reset")

	return nil
}

// SeedPerson registers a test person.
func (c *client) SeedPerson(ctx context.Context, person *Person) error {
	if err := c.do(ctx, http.MethodPost, "/admin/personer", person, nil); err != nil {
		return fmt.Errorf("seeding person: %w", err)
	}

	return nil
}

// SeedArbeidsforhold registers an employment relation.
func (c *client) SeedArbeidsforhold(ctx context.Context, forhold *Arbeidsforhold) error {
	if err := c.do(ctx, http.MethodPost, "/admin/arbeidsforhold", forhold, nil); err != nil {
		return fmt.Errorf("seeding arbeidsforhold: %w", err)
	}

	return nil
}

// OpprettJournalpost queues an incoming document and returns its journalpost ID.
func (c *client) OpprettJournalpost(ctx context.Context, journalpost *Journalpost) (string, error) {
	var response struct {
		JournalpostID string `json:"journalpostId"`
	}

	if err := c.do(ctx, http.MethodPost, "/admin/journalposter", journalpost, &response); err != nil {
		return "", fmt.Errorf("creating journalpost: %w", err)
	}

	if response.JournalpostID == "" {
		return "", fmt.Errorf("mock returned empty journalpost id")
	}

	return response.JournalpostID, nil
}

// OutboundRequests fetches the requests the application sent to mocked
// upstreams, optionally filtered by path prefix.
func (c *client) OutboundRequests(ctx context.Context, pathPrefix string) ([]OutboundRequest, error) {
	var all []OutboundRequest

	if err := c.do(ctx, http.MethodGet, "/admin/requests", nil, &all); err != nil {
		return nil, fmt.Errorf("fetching recorded requests: %w", err)
	}

	if pathPrefix == "" {
		return all, nil
	}

	filtered := make([]OutboundRequest, 0, len(all))
	for _, req := range all {
		if strings.HasPrefix(req.Path, pathPrefix) {
			filtered = append(filtered, req)
		}
	}

	return filtered, nil
}

// do issues one JSON request and decodes the response into out when non-nil.
func (c *client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}

		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s %s: %w", method, path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s %s returned %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	if out == nil {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response from %s: %w", path, err)
	}

	return nil
}

// Compile-time interface compliance check
var _ Client = (*client)(nil)
