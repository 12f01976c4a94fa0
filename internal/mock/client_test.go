package mock

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetLevel(logrus.DebugLevel)
	log.SetOutput(os.Stderr)

	return log
}

func TestReset(t *testing.T) {
	var called bool

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/admin/reset", r.URL.Path)
		called = true
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(newTestLogger(), server.URL)
	require.NoError(t, client.Reset(context.Background()))
	assert.True(t, called)
}

func TestSeedPersonSendsJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/admin/personer", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var person Person
		require.NoError(t, json.NewDecoder(r.Body).Decode(&person))
		assert.Equal(t, "01019012345", person.Fnr)
		assert.Equal(t, "NOR", person.Statsborger)

		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := NewClient(newTestLogger(), server.URL)
	err := client.SeedPerson(context.Background(), &Person{
		Fnr:         "01019012345",
		Fornavn:     "Test",
		Etternavn:   "Testesen",
		Statsborger: "NOR",
		Bostedsland: "NOR",
	})
	require.NoError(t, err)
}

func TestOpprettJournalpost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"journalpostId":"453835621"}`))
	}))
	defer server.Close()

	client := NewClient(newTestLogger(), server.URL)
	id, err := client.OpprettJournalpost(context.Background(), &Journalpost{
		Fnr:    "01019012345",
		Tittel: "Søknad om medlemskap",
		Tema:   "MED",
		Kanal:  "NAV_NO",
	})
	require.NoError(t, err)
	assert.Equal(t, "453835621", id)
}

func TestOpprettJournalpostEmptyID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(newTestLogger(), server.URL)
	_, err := client.OpprettJournalpost(context.Background(), &Journalpost{Fnr: "01019012345"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty journalpost id")
}

func TestOutboundRequestsFiltersByPrefix(t *testing.T) {
	recorded := []OutboundRequest{
		{Timestamp: time.Now(), Method: "POST", Path: "/oppgave/api/v1/oppgaver"},
		{Timestamp: time.Now(), Method: "GET", Path: "/aareg/api/arbeidsforhold"},
		{Timestamp: time.Now(), Method: "POST", Path: "/oppgave/api/v1/oppgaver/123"},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(recorded))
	}))
	defer server.Close()

	client := NewClient(newTestLogger(), server.URL)

	all, err := client.OutboundRequests(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	oppgaver, err := client.OutboundRequests(context.Background(), "/oppgave")
	require.NoError(t, err)
	assert.Len(t, oppgaver, 2)
}

func TestErrorIncludesResponseBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("fnr already seeded"))
	}))
	defer server.Close()

	client := NewClient(newTestLogger(), server.URL)
	err := client.SeedPerson(context.Background(), &Person{Fnr: "01019012345"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "fnr already seeded")
}
