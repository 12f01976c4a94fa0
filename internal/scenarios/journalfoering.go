package scenarios

import (
	"context"
	"fmt"

	"github.com/navikt/melosys-e2e/internal/mock"
	"github.com/navikt/melosys-e2e/internal/suite"
)

// journalfoerDokument journalfører an incoming document on a brand new
// sak and verifies the sak exists in the database afterwards.
func journalfoerDokument() *suite.Scenario {
	person := &mock.Person{
		Fnr:         "15089033221",
		Fornavn:     "Kari",
		Etternavn:   "Utland",
		Statsborger: "NOR",
		Bostedsland: "SWE",
	}

	return &suite.Scenario{
		Name:        "journalfoer-dokument",
		Description: "Journalfør en innkommende søknad på ny sak",
		Tags:        []string{"smoke", "journalfoering"},
		Fixture: &suite.Fixture{
			Person: person,
			Journalposter: []*mock.Journalpost{
				{
					Fnr:    person.Fnr,
					Tittel: "Søknad om A1",
					Tema:   "MED",
					Kanal:  "SKAN_IM",
				},
			},
		},
		Run: func(ctx context.Context, rt *suite.Runtime) error {
			if err := rt.Step("åpne oppgave for journalpost", func() error {
				if err := rt.Dashboard.AapneOppgaveliste(); err != nil {
					return err
				}

				return rt.Dashboard.AapneOppgaveForJournalpost(rt.JournalpostIDs[0])
			}); err != nil {
				return err
			}

			if err := rt.Step("velg sakstype og opprett ny sak", func() error {
				if err := rt.Journalfoering.VelgSakstype("Lovvalg og medlemskap"); err != nil {
					return err
				}

				return rt.Journalfoering.OpprettNySak()
			}); err != nil {
				return err
			}

			if err := rt.Step("journalfør", func() error {
				return rt.Journalfoering.Journalfoer()
			}); err != nil {
				return err
			}

			return rt.Step("verifiser sak i databasen", func() error {
				sakIDer, err := rt.DB.SakIDerForPerson(ctx, person.Fnr)
				if err != nil {
					return err
				}

				if len(sakIDer) != 1 {
					return fmt.Errorf("expected one sak for %s, found %d", person.Fnr, len(sakIDer))
				}

				return nil
			})
		},
	}
}

// journalfoerPaaEksisterendeSak journalfører a second document onto the
// sak created by journalføring of the first one.
func journalfoerPaaEksisterendeSak() *suite.Scenario {
	person := &mock.Person{
		Fnr:         "24056733909",
		Fornavn:     "Ola",
		Etternavn:   "Grensearbeider",
		Statsborger: "NOR",
		Bostedsland: "NOR",
	}

	return &suite.Scenario{
		Name:        "journalfoer-paa-eksisterende-sak",
		Description: "Journalfør dokument nummer to på eksisterende sak",
		Tags:        []string{"journalfoering"},
		Fixture: &suite.Fixture{
			Person: person,
			Journalposter: []*mock.Journalpost{
				{Fnr: person.Fnr, Tittel: "Søknad om A1", Tema: "MED", Kanal: "NAV_NO"},
				{Fnr: person.Fnr, Tittel: "Ettersendt dokumentasjon", Tema: "MED", Kanal: "NAV_NO"},
			},
		},
		Run: func(ctx context.Context, rt *suite.Runtime) error {
			var saksnummer string

			if err := rt.Step("journalfør første dokument på ny sak", func() error {
				if err := rt.Dashboard.AapneOppgaveliste(); err != nil {
					return err
				}

				if err := rt.Dashboard.AapneOppgaveForJournalpost(rt.JournalpostIDs[0]); err != nil {
					return err
				}

				if err := rt.Journalfoering.VelgSakstype("Lovvalg og medlemskap"); err != nil {
					return err
				}

				if err := rt.Journalfoering.OpprettNySak(); err != nil {
					return err
				}

				if err := rt.Journalfoering.Journalfoer(); err != nil {
					return err
				}

				var err error

				saksnummer, err = rt.Journalfoering.Saksnummer()

				return err
			}); err != nil {
				return err
			}

			if err := rt.Step("journalfør andre dokument på samme sak", func() error {
				if err := rt.Dashboard.AapneOppgaveliste(); err != nil {
					return err
				}

				if err := rt.Dashboard.AapneOppgaveForJournalpost(rt.JournalpostIDs[1]); err != nil {
					return err
				}

				if err := rt.Journalfoering.KnyttTilEksisterendeSak(saksnummer); err != nil {
					return err
				}

				return rt.Journalfoering.Journalfoer()
			}); err != nil {
				return err
			}

			return rt.Step("verifiser at begge dokumenter havnet på én sak", func() error {
				sakIDer, err := rt.DB.SakIDerForPerson(ctx, person.Fnr)
				if err != nil {
					return err
				}

				if len(sakIDer) != 1 {
					return fmt.Errorf("expected one sak for %s, found %d", person.Fnr, len(sakIDer))
				}

				return nil
			})
		},
	}
}

// oppgavelisteViserNyeJournalposter checks that seeded journalposts show
// up as oppgaver without any journalføring happening.
func oppgavelisteViserNyeJournalposter() *suite.Scenario {
	person := &mock.Person{
		Fnr:         "05127049102",
		Fornavn:     "Nina",
		Etternavn:   "Pendler",
		Statsborger: "NOR",
		Bostedsland: "DNK",
	}

	return &suite.Scenario{
		Name:        "oppgaveliste-viser-nye-journalposter",
		Description: "Nye journalposter dukker opp i oppgavelisten",
		Tags:        []string{"smoke"},
		Fixture: &suite.Fixture{
			Person: person,
			Journalposter: []*mock.Journalpost{
				{Fnr: person.Fnr, Tittel: "Søknad om A1", Tema: "MED", Kanal: "NAV_NO"},
			},
		},
		Run: func(_ context.Context, rt *suite.Runtime) error {
			return rt.Step("åpne oppgavelisten og finn oppgaven", func() error {
				if err := rt.Dashboard.AapneOppgaveliste(); err != nil {
					return err
				}

				antall, err := rt.Dashboard.AntallOppgaver()
				if err != nil {
					return err
				}

				if antall == "0" {
					return fmt.Errorf("oppgaveliste is empty, expected journalpost %s", rt.JournalpostIDs[0])
				}

				return rt.Dashboard.AapneOppgaveForJournalpost(rt.JournalpostIDs[0])
			})
		},
	}
}
