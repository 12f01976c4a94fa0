package scenarios

import (
	"context"
	"fmt"
	"time"

	"github.com/navikt/melosys-e2e/internal/database"
	"github.com/navikt/melosys-e2e/internal/mock"
	"github.com/navikt/melosys-e2e/internal/suite"
)

const vedtakCountQuery = `SELECT COUNT(*) FROM vedtak v
	JOIN behandling b ON b.behandling_id = v.behandling_id
	WHERE b.sak_id = :1`

// verifiserVedtakFattet checks the database end state after a vedtak:
// exactly one sak for the person, its newest behandling closed, and a
// vedtak row written.
func verifiserVedtakFattet(ctx context.Context, db database.Client, fnr string) error {
	sakIDer, err := db.SakIDerForPerson(ctx, fnr)
	if err != nil {
		return err
	}

	if len(sakIDer) != 1 {
		return fmt.Errorf("expected one sak for %s, found %d", fnr, len(sakIDer))
	}

	status, err := db.Behandlingsstatus(ctx, sakIDer[0])
	if err != nil {
		return err
	}

	if status != "AVSLUTTET" {
		return fmt.Errorf("behandlingsstatus is %q, expected AVSLUTTET", status)
	}

	vedtak, err := db.QueryCount(ctx, vedtakCountQuery, sakIDer[0])
	if err != nil {
		return err
	}

	if vedtak == 0 {
		return fmt.Errorf("no vedtak row written for sak %d", sakIDer[0])
	}

	return nil
}

// fatteVedtak runs the full happy path: journalføring, behandling with
// lovvalg under artikkel 12, and an innvilget vedtak.
func fatteVedtak() *suite.Scenario {
	person := &mock.Person{
		Fnr:         "01019012345",
		Fornavn:     "Per",
		Etternavn:   "Utsendt",
		Statsborger: "NOR",
		Bostedsland: "NOR",
	}

	return &suite.Scenario{
		Name:        "fatte-vedtak",
		Description: "Fatt innvilget vedtak om lovvalg etter artikkel 12",
		Tags:        []string{"smoke", "vedtak"},
		Fixture: &suite.Fixture{
			Person: person,
			Arbeidsforhold: []*mock.Arbeidsforhold{
				{
					Fnr:          person.Fnr,
					Orgnummer:    "974652269",
					Arbeidsgiver: "Utsendelse AS",
					Fom:          "2023-01-01",
					Stilling:     100,
				},
			},
			Journalposter: []*mock.Journalpost{
				{Fnr: person.Fnr, Tittel: "Søknad om A1", Tema: "MED", Kanal: "NAV_NO"},
			},
		},
		Run: func(ctx context.Context, rt *suite.Runtime) error {
			if err := rt.Step("journalfør søknaden på ny sak", func() error {
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

				return rt.Journalfoering.Journalfoer()
			}); err != nil {
				return err
			}

			if err := rt.Step("start behandling og registrer lovvalg", func() error {
				if err := rt.Dashboard.SoekPerson(person.Fnr); err != nil {
					return err
				}

				if err := rt.Dashboard.AapneFoersteSak(); err != nil {
					return err
				}

				if err := rt.Behandling.StartBehandling(); err != nil {
					return err
				}

				if err := rt.Behandling.RegistrerPeriode("01.01.2024", "31.12.2024"); err != nil {
					return err
				}

				if err := rt.Behandling.VelgLovvalgsland("Norge"); err != nil {
					return err
				}

				if err := rt.Behandling.VelgLovvalgsbestemmelse("Artikkel 12 nr. 1"); err != nil {
					return err
				}

				return rt.Behandling.BekreftVilkaar()
			}); err != nil {
				return err
			}

			if err := rt.Step("fatt vedtak", func() error {
				if err := rt.Behandling.GaaTilVedtak(); err != nil {
					return err
				}

				if err := rt.Vedtak.ForhaandsvisVedtak(); err != nil {
					return err
				}

				if err := rt.Vedtak.FattVedtak(); err != nil {
					return err
				}

				return rt.Vedtak.VentPaaStatus("Iverksatt", 30*time.Second)
			}); err != nil {
				return err
			}

			if err := rt.Step("verifiser vedtaket i databasen", func() error {
				return verifiserVedtakFattet(ctx, rt.DB, person.Fnr)
			}); err != nil {
				return err
			}

			return rt.Step("verifiser at vedtaksbrev ble bestilt", func() error {
				requests, err := rt.Mock.OutboundRequests(ctx, "/dokprod")
				if err != nil {
					return err
				}

				if len(requests) == 0 {
					return fmt.Errorf("no document production request recorded")
				}

				return nil
			})
		},
	}
}

// avslaaSoeknad behandles a søknad where the vilkår are not met and
// expects an avslag vedtak.
func avslaaSoeknad() *suite.Scenario {
	person := &mock.Person{
		Fnr:         "10075599887",
		Fornavn:     "Turid",
		Etternavn:   "Utenfor",
		Statsborger: "USA",
		Bostedsland: "USA",
	}

	return &suite.Scenario{
		Name:        "avslaa-soknad",
		Description: "Avslå søknad der vilkårene ikke er oppfylt",
		Tags:        []string{"vedtak"},
		Fixture: &suite.Fixture{
			Person: person,
			Journalposter: []*mock.Journalpost{
				{Fnr: person.Fnr, Tittel: "Søknad om A1", Tema: "MED", Kanal: "SKAN_IM"},
			},
		},
		Run: func(ctx context.Context, rt *suite.Runtime) error {
			if err := rt.Step("journalfør søknaden på ny sak", func() error {
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

				return rt.Journalfoering.Journalfoer()
			}); err != nil {
				return err
			}

			if err := rt.Step("behandle uten oppfylte vilkår", func() error {
				if err := rt.Dashboard.SoekPerson(person.Fnr); err != nil {
					return err
				}

				if err := rt.Dashboard.AapneFoersteSak(); err != nil {
					return err
				}

				if err := rt.Behandling.StartBehandling(); err != nil {
					return err
				}

				if err := rt.Behandling.RegistrerPeriode("01.01.2024", "30.06.2024"); err != nil {
					return err
				}

				return rt.Behandling.VelgLovvalgsland("USA")
			}); err != nil {
				return err
			}

			return rt.Step("fatt avslagsvedtak", func() error {
				if err := rt.Behandling.GaaTilVedtak(); err != nil {
					return err
				}

				if err := rt.Vedtak.FattVedtak(); err != nil {
					return err
				}

				if err := rt.Vedtak.VentPaaStatus("Iverksatt", 30*time.Second); err != nil {
					return err
				}

				sakIDer, err := rt.DB.SakIDerForPerson(ctx, person.Fnr)
				if err != nil {
					return err
				}

				if len(sakIDer) == 0 {
					return fmt.Errorf("no sak found for %s", person.Fnr)
				}

				return nil
			})
		},
	}
}
