// Package scenarios contains the end-to-end workflows the suite can run
// against a Melosys instance. Each scenario seeds its own fixture data,
// drives the UI through the page objects and verifies the outcome in
// the database and the mock service.
package scenarios

import (
	"fmt"

	"github.com/navikt/melosys-e2e/internal/suite"
)

// all lists every scenario in this package. New scenarios are added here.
var all = []*suite.Scenario{
	journalfoerDokument(),
	fatteVedtak(),
	avslaaSoeknad(),
	journalfoerPaaEksisterendeSak(),
	oppgavelisteViserNyeJournalposter(),
}

// Register adds every scenario in this package to the registry.
func Register(registry *suite.Registry) error {
	for _, scenario := range all {
		if err := registry.Register(scenario); err != nil {
			return fmt.Errorf("registering scenarios: %w", err)
		}
	}

	return nil
}
