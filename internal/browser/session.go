// Package browser manages the Chromium instance the suite drives.
package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sirupsen/logrus"
)

var errNotStarted = errors.New("browser session not started")

// Config holds browser launch settings.
type Config struct {
	// DebuggerURL attaches to an already running Chromium instead of launching one.
	DebuggerURL    string
	Headless       bool
	ViewportWidth  int
	ViewportHeight int
	NavTimeout     time.Duration
}

// Session owns a single Chromium instance and hands out pages.
// Scenarios run against one session, a fresh page each.
type Session interface {
	Start(ctx context.Context) error
	Stop() error
	NewPage(ctx context.Context, url string) (*rod.Page, error)
	ClosePage(page *rod.Page)
}

type session struct {
	cfg Config
	log logrus.FieldLogger

	mu      sync.Mutex
	browser *rod.Browser
	pages   []*rod.Page
}

// NewSession creates a new browser session manager.
func NewSession(log logrus.FieldLogger, cfg Config) Session {
	if cfg.ViewportWidth <= 0 {
		cfg.ViewportWidth = 1920
	}

	if cfg.ViewportHeight <= 0 {
		cfg.ViewportHeight = 1080
	}

	if cfg.NavTimeout <= 0 {
		cfg.NavTimeout = 30 * time.Second
	}

	return &session{
		cfg: cfg,
		log: log.WithField("component", "browser_session"),
	}
}

// Start launches Chromium (or attaches to DebuggerURL) and connects.
func (s *session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.browser != nil {
		if _, err := s.browser.Version(); err == nil {
			return nil
		}

		s.log.Warn("stale browser connection detected, reconnecting")
		_ = s.browser.Close()
		s.browser = nil
	}

	controlURL := s.cfg.DebuggerURL
	if controlURL == "" {
		url, err := launcher.New().Headless(s.cfg.Headless).Launch()
		if err != nil {
			return fmt.Errorf("launching chromium: %w", err)
		}

		controlURL = url
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("connecting to chromium: %w", err)
	}

	s.browser = browser
	s.log.WithField("headless", s.cfg.Headless).Info("browser session started")

	return nil
}

// Stop closes all tracked pages and the browser.
func (s *session) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, page := range s.pages {
		_ = page.Close()
	}
	s.pages = nil

	if s.browser == nil {
		return nil
	}

	err := s.browser.Close()
	s.browser = nil

	if err != nil {
		return fmt.Errorf("closing browser: %w", err)
	}

	s.log.Debug("browser session stopped")

	return nil
}

// NewPage opens a page in a fresh incognito context and navigates to url.
func (s *session) NewPage(ctx context.Context, url string) (*rod.Page, error) {
	s.mu.Lock()
	browser := s.browser
	s.mu.Unlock()

	if browser == nil {
		return nil, errNotStarted
	}

	incognito, err := browser.Incognito()
	if err != nil {
		return nil, fmt.Errorf("creating incognito context: %w", err)
	}

	page, err := incognito.Page(proto.TargetCreateTarget{URL: ""})
	if err != nil {
		return nil, fmt.Errorf("creating page: %w", err)
	}

	page = page.Context(ctx)

	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             s.cfg.ViewportWidth,
		Height:            s.cfg.ViewportHeight,
		DeviceScaleFactor: 1.0,
		Mobile:            false,
	}).Call(page); err != nil {
		s.log.WithError(err).Warn("failed to set viewport")
	}

	if err := page.Timeout(s.cfg.NavTimeout).Navigate(url); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("navigating to %s: %w", url, err)
	}

	if err := page.Timeout(s.cfg.NavTimeout).WaitLoad(); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("waiting for %s to load: %w", url, err)
	}

	s.mu.Lock()
	s.pages = append(s.pages, page)
	s.mu.Unlock()

	return page, nil
}

// ClosePage closes a page and forgets it.
func (s *session) ClosePage(page *rod.Page) {
	if page == nil {
		return
	}

	if err := page.Close(); err != nil {
		s.log.WithError(err).Warn("failed to close page")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.pages {
		if p == page {
			s.pages = append(s.pages[:i], s.pages[i+1:]...)
			break
		}
	}
}

// Compile-time interface compliance check
var _ Session = (*session)(nil)
