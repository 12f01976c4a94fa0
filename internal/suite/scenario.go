// Package suite contains the scenario model and the orchestrator that
// executes scenarios against a running Melosys instance.
package suite

import (
	"context"
	"fmt"
	"sort"

	"github.com/go-rod/rod"
	"github.com/sirupsen/logrus"

	"github.com/navikt/melosys-e2e/internal/config"
	"github.com/navikt/melosys-e2e/internal/database"
	"github.com/navikt/melosys-e2e/internal/mock"
	"github.com/navikt/melosys-e2e/internal/pages"
)

// Fixture is the data seeded into the mock service before a scenario runs.
type Fixture struct {
	Person         *mock.Person
	Arbeidsforhold []*mock.Arbeidsforhold
	Journalposter  []*mock.Journalpost
}

// Runtime is handed to a scenario's steps: the open page, its page
// objects, and the suite's helpers.
type Runtime struct {
	Log    logrus.FieldLogger
	Config *config.Config
	Page   *rod.Page
	DB     database.Client
	Mock   mock.Client

	Dashboard      *pages.Dashboard
	Journalfoering *pages.Journalfoering
	Behandling     *pages.Behandling
	Vedtak         *pages.Vedtak

	// JournalpostIDs holds the IDs of the fixture journalposts, in the
	// order they were declared.
	JournalpostIDs []string

	failedStep string
}

// Step runs one named step and remembers the name of the first step that
// failed, for the failure report.
func (r *Runtime) Step(name string, fn func() error) error {
	r.Log.WithField("step", name).Debug("running step")

	if err := fn(); err != nil {
		if r.failedStep == "" {
			r.failedStep = name
		}

		return fmt.Errorf("step %q: %w", name, err)
	}

	return nil
}

// FailedStep returns the name of the first failed step, if any.
func (r *Runtime) FailedStep() string {
	return r.failedStep
}

// Scenario is one end-to-end user workflow.
type Scenario struct {
	Name        string
	Description string
	Tags        []string
	Fixture     *Fixture
	Run         func(ctx context.Context, rt *Runtime) error
}

// HasTag reports whether the scenario carries the given tag.
func (s *Scenario) HasTag(tag string) bool {
	for _, t := range s.Tags {
		if t == tag {
			return true
		}
	}

	return false
}

// Registry holds the known scenarios by name.
type Registry struct {
	scenarios map[string]*Scenario
}

// NewRegistry creates an empty scenario registry.
func NewRegistry() *Registry {
	return &Registry{scenarios: make(map[string]*Scenario)}
}

// Register adds a scenario. Duplicate names are a programming error.
func (r *Registry) Register(scenario *Scenario) error {
	if scenario.Name == "" {
		return fmt.Errorf("scenario has no name")
	}

	if _, exists := r.scenarios[scenario.Name]; exists {
		return fmt.Errorf("scenario %q registered twice", scenario.Name)
	}

	r.scenarios[scenario.Name] = scenario

	return nil
}

// Get returns a scenario by name.
func (r *Registry) Get(name string) (*Scenario, bool) {
	scenario, ok := r.scenarios[name]
	return scenario, ok
}

// All returns every registered scenario, sorted by name.
func (r *Registry) All() []*Scenario {
	result := make([]*Scenario, 0, len(r.scenarios))
	for _, scenario := range r.scenarios {
		result = append(result, scenario)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

// Names returns every registered scenario name, sorted.
func (r *Registry) Names() []string {
	result := make([]string, 0, len(r.scenarios))
	for name := range r.scenarios {
		result = append(result, name)
	}

	sort.Strings(result)

	return result
}
