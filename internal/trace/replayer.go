package trace

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	defaultReplayWorkers = 4
	defaultReplayTimeout = 30 * time.Second
)

// Divergence is a replayed call whose status differs from the recording.
type Divergence struct {
	Entry          Entry
	ReplayedStatus int
	Err            error
}

// ReplayReport summarizes a replay run.
type ReplayReport struct {
	Total       int
	Replayed    int
	Skipped     int
	Matched     int
	Divergences []Divergence
}

// Replayer re-issues recorded API calls against a target base URL and
// compares the observed statuses with the recording.
type Replayer struct {
	baseURL         string
	includeMutating bool
	workers         int
	httpClient      *http.Client
	log             logrus.FieldLogger
}

// NewReplayer creates a replayer for the given target base URL. Mutating
// verbs (anything but GET and HEAD) are skipped unless includeMutating is
// set: replaying a POST against a live backend is rarely what you want.
func NewReplayer(log logrus.FieldLogger, baseURL string, includeMutating bool) *Replayer {
	return &Replayer{
		baseURL:         strings.TrimRight(baseURL, "/"),
		includeMutating: includeMutating,
		workers:         defaultReplayWorkers,
		httpClient: &http.Client{
			Timeout: defaultReplayTimeout,
		},
		log: log.WithField("component", "trace_replayer"),
	}
}

// Replay re-issues the entries with bounded concurrency.
func (r *Replayer) Replay(ctx context.Context, entries []Entry) (*ReplayReport, error) {
	report := &ReplayReport{Total: len(entries)}

	var mu sync.Mutex

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(r.workers)

	for _, entry := range entries {
		entry := entry
		if !r.shouldReplay(entry) {
			report.Skipped++
			continue
		}

		group.Go(func() error {
			status, err := r.replayOne(groupCtx, entry)

			mu.Lock()
			defer mu.Unlock()

			report.Replayed++

			switch {
			case err != nil:
				report.Divergences = append(report.Divergences, Divergence{Entry: entry, Err: err})
			case status != entry.Status:
				report.Divergences = append(report.Divergences, Divergence{Entry: entry, ReplayedStatus: status})
			default:
				report.Matched++
			}

			// Individual failures are divergences, not run failures.
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("replaying trace: %w", err)
	}

	r.log.WithFields(logrus.Fields{
		"total":    report.Total,
		"replayed": report.Replayed,
		"skipped":  report.Skipped,
		"diverged": len(report.Divergences),
	}).Info("replay finished")

	return report, nil
}

func (r *Replayer) shouldReplay(entry Entry) bool {
	if entry.Method == http.MethodGet || entry.Method == http.MethodHead {
		return true
	}

	return r.includeMutating
}

func (r *Replayer) replayOne(ctx context.Context, entry Entry) (int, error) {
	req, err := http.NewRequestWithContext(ctx, entry.Method, r.baseURL+entry.Path, nil)
	if err != nil {
		return 0, fmt.Errorf("building request for %s: %w", entry.Path, err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("replaying %s %s: %w", entry.Method, entry.Path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}
