package trace

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sirupsen/logrus"
)

type pendingRequest struct {
	method string
	path   string
	sentAt time.Time
}

// Recorder subscribes to the page's CDP network events and correlates
// request/response pairs by request ID into trace entries.
type Recorder struct {
	log logrus.FieldLogger

	mu       sync.Mutex
	pending  map[proto.NetworkRequestID]pendingRequest
	entries  []Entry
	scenario string
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewRecorder creates a new trace recorder.
func NewRecorder(log logrus.FieldLogger) *Recorder {
	return &Recorder{
		log:     log.WithField("component", "trace_recorder"),
		pending: make(map[proto.NetworkRequestID]pendingRequest),
	}
}

// Attach starts recording network traffic on the given page under the
// given scenario label. Any previous attachment is detached first.
func (r *Recorder) Attach(ctx context.Context, page *rod.Page, scenario string) {
	r.Detach()

	recCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	r.mu.Lock()
	r.pending = make(map[proto.NetworkRequestID]pendingRequest)
	r.entries = nil
	r.scenario = scenario
	r.cancel = cancel
	r.done = done
	r.mu.Unlock()

	wait := page.Context(recCtx).EachEvent(
		func(ev *proto.NetworkRequestWillBeSent) {
			r.onRequest(ev)
		},
		func(ev *proto.NetworkResponseReceived) {
			r.onResponse(ev)
		},
	)

	go func() {
		defer close(done)
		wait()
	}()

	r.log.WithField("scenario", scenario).Debug("trace recording attached")
}

// Detach stops recording. Safe to call when not attached.
func (r *Recorder) Detach() {
	r.mu.Lock()
	cancel := r.cancel
	done := r.done
	r.cancel = nil
	r.done = nil
	r.mu.Unlock()

	if cancel == nil {
		return
	}

	cancel()
	<-done
}

// Entries returns a copy of the recorded entries so far, responses only.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]Entry, len(r.entries))
	copy(result, r.entries)

	return result
}

func (r *Recorder) onRequest(ev *proto.NetworkRequestWillBeSent) {
	if ev.Request == nil {
		return
	}

	path := ev.Request.URL
	if parsed, err := url.Parse(ev.Request.URL); err == nil {
		path = parsed.Path
		if parsed.RawQuery != "" {
			path += "?" + parsed.RawQuery
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.pending[ev.RequestID] = pendingRequest{
		method: ev.Request.Method,
		path:   path,
		sentAt: time.Now(),
	}
}

func (r *Recorder) onResponse(ev *proto.NetworkResponseReceived) {
	if ev.Response == nil {
		return
	}

	now := time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.pending[ev.RequestID]
	if !ok {
		// Response for a request sent before we attached.
		return
	}

	delete(r.pending, ev.RequestID)

	r.entries = append(r.entries, Entry{
		Timestamp: req.sentAt,
		Scenario:  r.scenario,
		Method:    req.method,
		Path:      req.path,
		Status:    ev.Response.Status,
		Duration:  now.Sub(req.sentAt),
	})
}
