package pages

import (
	"time"

	"github.com/go-rod/rod"
	"github.com/sirupsen/logrus"
)

// Behandling is the case processing screen: period registration,
// country selection and the statutory-basis assessment.
type Behandling struct {
	base
}

// NewBehandling wraps an open page positioned on the behandling screen.
func NewBehandling(log logrus.FieldLogger, page *rod.Page, timeout time.Duration) *Behandling {
	return &Behandling{base: newBase(log, page, timeout, "behandling")}
}

// StartBehandling picks up the case for processing.
func (b *Behandling) StartBehandling() error {
	if err := b.click(`button[data-testid="start-behandling"]`); err != nil {
		return err
	}

	return b.waitGone(`[data-testid="spinner"]`)
}

// RegistrerPeriode fills the coverage period, dates on dd.MM.yyyy form.
func (b *Behandling) RegistrerPeriode(fom, tom string) error {
	if err := b.fill(`input[data-testid="periode-fom"]`, fom); err != nil {
		return err
	}

	return b.fill(`input[data-testid="periode-tom"]`, tom)
}

// VelgLovvalgsland selects the country whose legislation applies.
func (b *Behandling) VelgLovvalgsland(land string) error {
	return b.selectOption(`select[data-testid="lovvalgsland"]`, land)
}

// VelgLovvalgsbestemmelse selects the statutory basis, e.g. "Art. 11(3)(a)".
func (b *Behandling) VelgLovvalgsbestemmelse(bestemmelse string) error {
	return b.selectOption(`select[data-testid="lovvalgsbestemmelse"]`, bestemmelse)
}

// BekreftVilkaar ticks the assessed-conditions confirmation.
func (b *Behandling) BekreftVilkaar() error {
	return b.click(`input[data-testid="vilkaar-bekreftet"]`)
}

// GaaTilVedtak saves the assessment and moves on to the decision step.
func (b *Behandling) GaaTilVedtak() error {
	if err := b.click(`button[data-testid="neste-steg"]`); err != nil {
		return err
	}

	return b.waitGone(`[data-testid="spinner"]`)
}

// Behandlingsstatus reads the status chip on the case header.
func (b *Behandling) Behandlingsstatus() (string, error) {
	return b.text(`[data-testid="behandling-status"]`)
}
