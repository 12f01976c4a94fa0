package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskFnr(t *testing.T) {
	tests := []struct {
		name string
		fnr  string
		want string
	}{
		{name: "valid fnr", fnr: "01019012345", want: "010190*****"},
		{name: "too short", fnr: "0101", want: "***"},
		{name: "empty", fnr: "", want: "***"},
		{name: "too long", fnr: "010190123456", want: "***"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, maskFnr(tt.fnr))
		})
	}
}

func TestCleanupStatementOrder(t *testing.T) {
	// Deletes must run children-first so FK constraints never fire.
	order := make(map[string]int, len(cleanupStatements))
	for i, stmt := range cleanupStatements {
		order[stmt.name] = i
	}

	assert.Less(t, order["vedtak"], order["behandling"])
	assert.Less(t, order["behandling"], order["sak"])
	assert.Less(t, order["journalpost"], order["sak"])
	assert.Less(t, order["sak"], order["person"])
}
