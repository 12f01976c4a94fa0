package pages

import (
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/sirupsen/logrus"
)

// Dashboard is the landing screen: case search and the task queue.
type Dashboard struct {
	base
}

// NewDashboard wraps an open page positioned on the dashboard.
func NewDashboard(log logrus.FieldLogger, page *rod.Page, timeout time.Duration) *Dashboard {
	return &Dashboard{base: newBase(log, page, timeout, "dashboard")}
}

// SoekPerson searches for a person by fødselsnummer.
func (d *Dashboard) SoekPerson(fnr string) error {
	if err := d.fill(`input[data-testid="sok-fnr"]`, fnr); err != nil {
		return err
	}

	if err := d.click(`button[data-testid="sok-knapp"]`); err != nil {
		return err
	}

	return d.waitGone(`[data-testid="spinner"]`)
}

// AapneFoersteSak opens the first case in the search result list.
func (d *Dashboard) AapneFoersteSak() error {
	return d.click(`[data-testid="saksliste"] tbody tr:first-child a`)
}

// AapneOppgaveliste navigates to the task queue.
func (d *Dashboard) AapneOppgaveliste() error {
	if err := d.click(`a[data-testid="nav-oppgaver"]`); err != nil {
		return err
	}

	return d.waitGone(`[data-testid="spinner"]`)
}

// AntallOppgaver reads the task counter badge.
func (d *Dashboard) AntallOppgaver() (string, error) {
	return d.text(`[data-testid="oppgave-teller"]`)
}

// AapneOppgaveForJournalpost opens the journalføring task for a journalpost ID.
func (d *Dashboard) AapneOppgaveForJournalpost(journalpostID string) error {
	if err := d.clickByText(`[data-testid="oppgaveliste"] tbody tr td`, journalpostID); err != nil {
		return fmt.Errorf("opening task for journalpost %s: %w", journalpostID, err)
	}

	return d.waitGone(`[data-testid="spinner"]`)
}
