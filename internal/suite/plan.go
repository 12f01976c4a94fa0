package suite

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	errPlanNameRequired     = errors.New("plan name is required")
	errSkipScenarioRequired = errors.New("skip entry missing scenario")
	errSkipReasonRequired   = errors.New("skip entry missing reason")
	errUnknownScenario      = errors.New("unknown scenario")
)

// SkipEntry names a scenario the plan deliberately excludes, with a reason
// that ends up in the report.
type SkipEntry struct {
	Scenario string `yaml:"scenario"`
	Reason   string `yaml:"reason"`
}

// Plan is a YAML suite plan: which scenarios to run and how.
// An empty scenario list combined with no tags means "run everything".
type Plan struct {
	Name          string      `yaml:"name"`
	Scenarios     []string    `yaml:"scenarios,omitempty"`
	Tags          []string    `yaml:"tags,omitempty"`
	Skip          []SkipEntry `yaml:"skip,omitempty"`
	RetryAttempts int         `yaml:"retry_attempts,omitempty"`
}

// LoadPlan reads and validates a plan file.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: plan path given on command line
	if err != nil {
		return nil, fmt.Errorf("reading plan %s: %w", path, err)
	}

	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("parsing plan %s: %w", path, err)
	}

	if err := plan.validate(); err != nil {
		return nil, fmt.Errorf("validating plan %s: %w", path, err)
	}

	return &plan, nil
}

func (p *Plan) validate() error {
	if p.Name == "" {
		return errPlanNameRequired
	}

	for i, entry := range p.Skip {
		if entry.Scenario == "" {
			return fmt.Errorf("%w at index %d", errSkipScenarioRequired, i)
		}

		if entry.Reason == "" {
			return fmt.Errorf("%w: %s", errSkipReasonRequired, entry.Scenario)
		}
	}

	return nil
}

// Resolve selects the scenarios the plan runs, in registry order, plus the
// skip reasons keyed by scenario name. Explicitly named scenarios and skip
// entries must exist in the registry; tags narrow the selection when no
// names are given.
func (p *Plan) Resolve(registry *Registry) ([]*Scenario, map[string]string, error) {
	skipReasons := make(map[string]string, len(p.Skip))

	for _, entry := range p.Skip {
		if _, ok := registry.Get(entry.Scenario); !ok {
			return nil, nil, fmt.Errorf("%w in skip list: %s", errUnknownScenario, entry.Scenario)
		}

		skipReasons[entry.Scenario] = entry.Reason
	}

	var selected []*Scenario

	switch {
	case len(p.Scenarios) > 0:
		for _, name := range p.Scenarios {
			scenario, ok := registry.Get(name)
			if !ok {
				return nil, nil, fmt.Errorf("%w: %s", errUnknownScenario, name)
			}

			selected = append(selected, scenario)
		}
	case len(p.Tags) > 0:
		for _, scenario := range registry.All() {
			for _, tag := range p.Tags {
				if scenario.HasTag(tag) {
					selected = append(selected, scenario)
					break
				}
			}
		}
	default:
		selected = registry.All()
	}

	return selected, skipReasons, nil
}
