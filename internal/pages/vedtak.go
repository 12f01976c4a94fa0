package pages

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/sirupsen/logrus"
)

// Vedtak is the decision screen: preview the decision letter and submit.
type Vedtak struct {
	base
}

// NewVedtak wraps an open page positioned on the vedtak screen.
func NewVedtak(log logrus.FieldLogger, page *rod.Page, timeout time.Duration) *Vedtak {
	return &Vedtak{base: newBase(log, page, timeout, "vedtak")}
}

// ForhaandsvisVedtak opens the decision letter preview and waits for it to render.
func (v *Vedtak) ForhaandsvisVedtak() error {
	if err := v.click(`button[data-testid="forhaandsvis-vedtak"]`); err != nil {
		return err
	}

	_, err := v.element(`[data-testid="vedtaksbrev-preview"]`)

	return err
}

// FattVedtak submits the decision.
func (v *Vedtak) FattVedtak() error {
	if err := v.click(`button[data-testid="fatt-vedtak"]`); err != nil {
		return err
	}

	return v.waitGone(`[data-testid="spinner"]`)
}

// VentPaaStatus polls the decision status chip until it shows want.
// The application flips the status asynchronously after submission, so a
// plain element wait on the chip is not enough.
func (v *Vedtak) VentPaaStatus(want string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)

	for {
		status, err := v.text(`[data-testid="vedtak-status"]`)
		if err == nil && strings.EqualFold(strings.TrimSpace(status), want) {
			return nil
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("decision status never reached %q (last seen %q)", want, status)
		}

		time.Sleep(500 * time.Millisecond)
	}
}
