package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantEnvFile string
		wantTUI     bool
	}{
		{
			name:    "no arguments launches interactive mode",
			args:    nil,
			wantTUI: true,
		},
		{
			name:        "env flag with value and nothing else",
			args:        []string{"--env", "dev.env"},
			wantEnvFile: "dev.env",
			wantTUI:     true,
		},
		{
			name:        "env flag equals form",
			args:        []string{"--env=dev.env"},
			wantEnvFile: "dev.env",
			wantTUI:     true,
		},
		{
			name:    "subcommand runs the CLI",
			args:    []string{"run"},
			wantTUI: false,
		},
		{
			name:        "env flag before a subcommand",
			args:        []string{"--env=dev.env", "run", "--verbose"},
			wantEnvFile: "dev.env",
			wantTUI:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			envFile, runTUI, err := parseArgs(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.wantEnvFile, envFile)
			assert.Equal(t, tt.wantTUI, runTUI)
		})
	}
}

func TestParseArgsEnvFlagWithoutValue(t *testing.T) {
	_, _, err := parseArgs([]string{"--env"})
	require.ErrorIs(t, err, errEnvFlagValue)
}
