package database

import (
	"context"
)

// cleanupStatements delete a test person's data in FK-safe order.
// Child tables first, person row last.
var cleanupStatements = []struct {
	name string
	sql  string
}{
	{
		name: "vedtak",
		sql: `DELETE FROM vedtak WHERE behandling_id IN (
			SELECT b.behandling_id FROM behandling b
			JOIN sak s ON s.sak_id = b.sak_id
			JOIN person p ON p.person_id = s.person_id
			WHERE p.fnr = :1)`,
	},
	{
		name: "behandling",
		sql: `DELETE FROM behandling WHERE sak_id IN (
			SELECT s.sak_id FROM sak s
			JOIN person p ON p.person_id = s.person_id
			WHERE p.fnr = :1)`,
	},
	{
		name: "journalpost",
		sql: `DELETE FROM journalpost WHERE sak_id IN (
			SELECT s.sak_id FROM sak s
			JOIN person p ON p.person_id = s.person_id
			WHERE p.fnr = :1)`,
	},
	{
		name: "sak",
		sql: `DELETE FROM sak WHERE person_id IN (
			SELECT person_id FROM person WHERE fnr = :1)`,
	},
	{
		name: "person",
		sql:  `DELETE FROM person WHERE fnr = :1`,
	},
}

// CleanupPerson deletes all rows belonging to a test person. Failures on
// individual tables are logged and skipped so one missing table never
// blocks the rest of the cleanup or fails a scenario.
func (c *client) CleanupPerson(ctx context.Context, fnr string) {
	log := c.log.WithField("fnr", maskFnr(fnr))

	for _, stmt := range cleanupStatements {
		execCtx, cancel := context.WithTimeout(ctx, c.timeout)

		result, err := c.conn.ExecContext(execCtx, stmt.sql, fnr)
		cancel()

		if err != nil {
			log.WithError(err).WithField("table", stmt.name).Warn("cleanup delete failed, continuing")
			continue
		}

		if affected, err := result.RowsAffected(); err == nil && affected > 0 {
			log.WithField("table", stmt.name).WithField("rows", affected).Debug("deleted test data")
		}
	}
}

// maskFnr keeps only the birth date part of a fødselsnummer in logs.
func maskFnr(fnr string) string {
	if len(fnr) != 11 {
		return "***"
	}

	return fnr[:6] + "*****"
}
