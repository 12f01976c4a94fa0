package scenarios

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navikt/melosys-e2e/internal/suite"
)

func TestRegister(t *testing.T) {
	registry := suite.NewRegistry()
	require.NoError(t, Register(registry))

	names := registry.Names()
	assert.Contains(t, names, "journalfoer-dokument")
	assert.Contains(t, names, "fatte-vedtak")
	assert.Contains(t, names, "avslaa-soknad")
	assert.Len(t, names, len(all))
}

func TestScenariosAreWellFormed(t *testing.T) {
	seen := make(map[string]bool)

	for _, scenario := range all {
		require.NotEmpty(t, scenario.Name)
		require.NotNil(t, scenario.Run, "scenario %s has no run function", scenario.Name)
		assert.NotEmpty(t, scenario.Description, "scenario %s has no description", scenario.Name)
		assert.False(t, seen[scenario.Name], "scenario name %s used twice", scenario.Name)

		seen[scenario.Name] = true
	}
}

type fakeDB struct {
	sakIDer     []int64
	status      string
	vedtakCount int64
}

func (f *fakeDB) Start(context.Context) error { return nil }
func (f *fakeDB) Stop() error                 { return nil }
func (f *fakeDB) QueryCount(context.Context, string, ...any) (int64, error) {
	return f.vedtakCount, nil
}
func (f *fakeDB) SakIDerForPerson(context.Context, string) ([]int64, error) {
	return f.sakIDer, nil
}
func (f *fakeDB) Behandlingsstatus(context.Context, int64) (string, error) {
	return f.status, nil
}
func (f *fakeDB) CleanupPerson(context.Context, string) {}

func TestVerifiserVedtakFattet(t *testing.T) {
	tests := []struct {
		name    string
		db      *fakeDB
		wantErr string
	}{
		{
			name: "vedtak written",
			db:   &fakeDB{sakIDer: []int64{7}, status: "AVSLUTTET", vedtakCount: 1},
		},
		{
			name:    "no sak",
			db:      &fakeDB{},
			wantErr: "expected one sak",
		},
		{
			name:    "behandling still open",
			db:      &fakeDB{sakIDer: []int64{7}, status: "UNDER_BEHANDLING", vedtakCount: 1},
			wantErr: "behandlingsstatus",
		},
		{
			name:    "no vedtak row",
			db:      &fakeDB{sakIDer: []int64{7}, status: "AVSLUTTET", vedtakCount: 0},
			wantErr: "no vedtak row",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := verifiserVedtakFattet(context.Background(), tt.db, "01019012345")
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFixturesReferenceOwnPerson(t *testing.T) {
	for _, scenario := range all {
		fixture := scenario.Fixture
		if fixture == nil || fixture.Person == nil {
			continue
		}

		for _, forhold := range fixture.Arbeidsforhold {
			assert.Equal(t, fixture.Person.Fnr, forhold.Fnr,
				"scenario %s seeds arbeidsforhold for a different person", scenario.Name)
		}

		for _, journalpost := range fixture.Journalposter {
			assert.Equal(t, fixture.Person.Fnr, journalpost.Fnr,
				"scenario %s seeds journalpost for a different person", scenario.Name)
		}
	}
}
