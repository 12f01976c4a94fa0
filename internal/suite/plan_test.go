package suite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePlan(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func noopScenario(name string, tags ...string) *Scenario {
	return &Scenario{
		Name: name,
		Tags: tags,
		Run:  func(context.Context, *Runtime) error { return nil },
	}
}

func testRegistry(t *testing.T) *Registry {
	t.Helper()

	registry := NewRegistry()
	require.NoError(t, registry.Register(noopScenario("journalfoer-dokument", "smoke")))
	require.NoError(t, registry.Register(noopScenario("fatte-vedtak", "smoke", "vedtak")))
	require.NoError(t, registry.Register(noopScenario("avslaa-soknad", "vedtak")))

	return registry
}

func TestLoadPlan(t *testing.T) {
	path := writePlan(t, `
name: nightly
scenarios:
  - fatte-vedtak
skip:
  - scenario: avslaa-soknad
    reason: "blocked by missing mock data"
retry_attempts: 3
`)

	plan, err := LoadPlan(path)
	require.NoError(t, err)

	assert.Equal(t, "nightly", plan.Name)
	assert.Equal(t, []string{"fatte-vedtak"}, plan.Scenarios)
	assert.Equal(t, 3, plan.RetryAttempts)
	require.Len(t, plan.Skip, 1)
}

func TestLoadPlanValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing name",
			content: "scenarios: [a]",
			wantErr: "plan name is required",
		},
		{
			name: "skip without scenario",
			content: `
name: x
skip:
  - reason: "because"
`,
			wantErr: "skip entry missing scenario",
		},
		{
			name: "skip without reason",
			content: `
name: x
skip:
  - scenario: a
`,
			wantErr: "skip entry missing reason",
		},
		{
			name:    "not yaml",
			content: "{{{{",
			wantErr: "parsing plan",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadPlan(writePlan(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestResolveExplicitScenarios(t *testing.T) {
	registry := testRegistry(t)
	plan := &Plan{Name: "x", Scenarios: []string{"fatte-vedtak", "journalfoer-dokument"}}

	selected, _, err := plan.Resolve(registry)
	require.NoError(t, err)

	require.Len(t, selected, 2)
	assert.Equal(t, "fatte-vedtak", selected[0].Name)
	assert.Equal(t, "journalfoer-dokument", selected[1].Name)
}

func TestResolveUnknownScenario(t *testing.T) {
	plan := &Plan{Name: "x", Scenarios: []string{"does-not-exist"}}

	_, _, err := plan.Resolve(testRegistry(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown scenario")
}

func TestResolveUnknownSkipScenario(t *testing.T) {
	plan := &Plan{
		Name: "x",
		Skip: []SkipEntry{{Scenario: "fatte-vedtka", Reason: "typo in the name"}},
	}

	_, _, err := plan.Resolve(testRegistry(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown scenario in skip list")
}

func TestResolveByTag(t *testing.T) {
	plan := &Plan{Name: "x", Tags: []string{"vedtak"}}

	selected, _, err := plan.Resolve(testRegistry(t))
	require.NoError(t, err)

	require.Len(t, selected, 2)
	assert.Equal(t, "avslaa-soknad", selected[0].Name)
	assert.Equal(t, "fatte-vedtak", selected[1].Name)
}

func TestResolveDefaultIsEverything(t *testing.T) {
	plan := &Plan{Name: "x"}

	selected, skips, err := plan.Resolve(testRegistry(t))
	require.NoError(t, err)

	assert.Len(t, selected, 3)
	assert.Empty(t, skips)
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(noopScenario("a")))

	err := registry.Register(noopScenario("a"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "registered twice")
}

func TestRegistryRejectsUnnamed(t *testing.T) {
	registry := NewRegistry()
	require.Error(t, registry.Register(&Scenario{}))
}
