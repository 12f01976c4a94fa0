package pages

import (
	"time"

	"github.com/go-rod/rod"
	"github.com/sirupsen/logrus"
)

// Journalfoering is the document intake screen where an incoming
// journalpost is linked to a new or existing case.
type Journalfoering struct {
	base
}

// NewJournalfoering wraps an open page positioned on the journalføring screen.
func NewJournalfoering(log logrus.FieldLogger, page *rod.Page, timeout time.Duration) *Journalfoering {
	return &Journalfoering{base: newBase(log, page, timeout, "journalfoering")}
}

// VelgSakstype selects the case type for the new case, e.g. "FTRL" or "EU/EØS".
func (j *Journalfoering) VelgSakstype(sakstype string) error {
	return j.selectOption(`select[data-testid="sakstype"]`, sakstype)
}

// OpprettNySak chooses "knytt til ny sak".
func (j *Journalfoering) OpprettNySak() error {
	return j.click(`input[data-testid="knytt-ny-sak"]`)
}

// KnyttTilEksisterendeSak chooses an existing case by its saksnummer.
func (j *Journalfoering) KnyttTilEksisterendeSak(saksnummer string) error {
	if err := j.click(`input[data-testid="knytt-eksisterende-sak"]`); err != nil {
		return err
	}

	return j.clickByText(`[data-testid="sak-valg"] label`, saksnummer)
}

// Journalfoer submits the journalføring and waits for the receipt.
func (j *Journalfoering) Journalfoer() error {
	if err := j.click(`button[data-testid="journalfoer-knapp"]`); err != nil {
		return err
	}

	if err := j.waitGone(`[data-testid="spinner"]`); err != nil {
		return err
	}

	_, err := j.element(`[data-testid="journalfoering-kvittering"]`)

	return err
}

// Saksnummer reads the case number shown on the receipt.
func (j *Journalfoering) Saksnummer() (string, error) {
	return j.text(`[data-testid="kvittering-saksnummer"]`)
}
