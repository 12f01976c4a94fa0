package trace

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
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

func replayEntry(method, path string, status int) Entry {
	return Entry{
		Timestamp: time.Now(),
		Method:    method,
		Path:      path,
		Status:    status,
	}
}

func TestReplayMatchesStatuses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/saker":
			w.WriteHeader(http.StatusOK)
		case "/api/missing":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusTeapot)
		}
	}))
	defer server.Close()

	replayer := NewReplayer(newTestLogger(), server.URL, false)

	report, err := replayer.Replay(context.Background(), []Entry{
		replayEntry("GET", "/api/saker", 200),
		replayEntry("GET", "/api/missing", 404),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 2, report.Replayed)
	assert.Equal(t, 2, report.Matched)
	assert.Empty(t, report.Divergences)
}

func TestReplayReportsDivergence(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	replayer := NewReplayer(newTestLogger(), server.URL, false)

	report, err := replayer.Replay(context.Background(), []Entry{
		replayEntry("GET", "/api/saker", 200),
	})
	require.NoError(t, err)

	require.Len(t, report.Divergences, 1)
	assert.Equal(t, 500, report.Divergences[0].ReplayedStatus)
	assert.Equal(t, 0, report.Matched)
}

func TestReplaySkipsMutatingByDefault(t *testing.T) {
	var posts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			posts.Add(1)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	replayer := NewReplayer(newTestLogger(), server.URL, false)

	report, err := replayer.Replay(context.Background(), []Entry{
		replayEntry("POST", "/api/vedtak", 201),
		replayEntry("GET", "/api/saker", 200),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 1, report.Replayed)
	assert.Equal(t, int32(0), posts.Load())
}

func TestReplayIncludesMutatingWhenEnabled(t *testing.T) {
	var posts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			posts.Add(1)
			w.WriteHeader(http.StatusCreated)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	replayer := NewReplayer(newTestLogger(), server.URL, true)

	report, err := replayer.Replay(context.Background(), []Entry{
		replayEntry("POST", "/api/vedtak", 201),
	})
	require.NoError(t, err)

	assert.Equal(t, 0, report.Skipped)
	assert.Equal(t, 1, report.Matched)
	assert.Equal(t, int32(1), posts.Load())
}

func TestReplayUnreachableTargetIsDivergence(t *testing.T) {
	replayer := NewReplayer(newTestLogger(), "http://127.0.0.1:1", false)

	report, err := replayer.Replay(context.Background(), []Entry{
		replayEntry("GET", "/api/saker", 200),
	})
	require.NoError(t, err)

	require.Len(t, report.Divergences, 1)
	assert.Error(t, report.Divergences[0].Err)
}
