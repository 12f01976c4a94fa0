// Package database provides read and fixture-cleanup access to the
// application's Oracle database. The schema is owned by the application
// under test; this suite only queries it and deletes its own test data.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	// Oracle driver registration for database/sql.
	_ "github.com/sijms/go-ora/v2"
)

const (
	defaultMaxRetries = 3
	defaultRetryDelay = 2 * time.Second
	defaultTimeout    = 15 * time.Second
)

var errNoRows = errors.New("no rows returned")

// Client is the suite's Oracle access point.
type Client interface {
	Start(ctx context.Context) error
	Stop() error
	QueryCount(ctx context.Context, query string, args ...any) (int64, error)
	SakIDerForPerson(ctx context.Context, fnr string) ([]int64, error)
	Behandlingsstatus(ctx context.Context, sakID int64) (string, error)
	CleanupPerson(ctx context.Context, fnr string)
}

type client struct {
	dsn        string
	maxRetries int
	retryDelay time.Duration
	timeout    time.Duration
	log        logrus.FieldLogger

	conn *sql.DB
}

// NewClient creates a new database client for the given go-ora DSN.
func NewClient(log logrus.FieldLogger, dsn string) Client {
	return &client{
		dsn:        dsn,
		maxRetries: defaultMaxRetries,
		retryDelay: defaultRetryDelay,
		timeout:    defaultTimeout,
		log:        log.WithField("component", "database_client"),
	}
}

// Start opens the connection pool and verifies connectivity, retrying
// transient failures with a fixed delay.
func (c *client) Start(ctx context.Context) error {
	conn, err := sql.Open("oracle", c.dsn)
	if err != nil {
		return fmt.Errorf("opening oracle connection: %w", err)
	}

	conn.SetMaxOpenConns(3)
	conn.SetConnMaxLifetime(10 * time.Minute)

	var pingErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, c.timeout)
		pingErr = conn.PingContext(pingCtx)
		cancel()

		if pingErr == nil {
			break
		}

		c.log.WithError(pingErr).WithField("attempt", attempt).Warn("oracle ping failed, retrying")

		select {
		case <-time.After(c.retryDelay):
		case <-ctx.Done():
			_ = conn.Close()
			return ctx.Err()
		}
	}

	if pingErr != nil {
		_ = conn.Close()
		return fmt.Errorf("pinging oracle after %d attempts: %w", c.maxRetries, pingErr)
	}

	c.conn = conn
	c.log.Info("database client started")

	return nil
}

// Stop closes the connection pool.
func (c *client) Stop() error {
	if c.conn == nil {
		return nil
	}

	if err := c.conn.Close(); err != nil {
		return fmt.Errorf("closing oracle connection: %w", err)
	}

	c.conn = nil
	c.log.Debug("database client stopped")

	return nil
}

// QueryCount runs a single-value count query.
func (c *client) QueryCount(ctx context.Context, query string, args ...any) (int64, error) {
	queryCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var count int64
	if err := c.conn.QueryRowContext(queryCtx, query, args...).Scan(&count); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, errNoRows
		}

		return 0, fmt.Errorf("querying count: %w", err)
	}

	return count, nil
}

// SakIDerForPerson returns the case IDs registered for a fødselsnummer.
func (c *client) SakIDerForPerson(ctx context.Context, fnr string) ([]int64, error) {
	queryCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	rows, err := c.conn.QueryContext(queryCtx,
		`SELECT s.sak_id FROM sak s JOIN person p ON p.person_id = s.person_id WHERE p.fnr = :1 ORDER BY s.sak_id`,
		fnr)
	if err != nil {
		return nil, fmt.Errorf("querying cases for person: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var ids []int64

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning sak_id: %w", err)
		}

		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cases: %w", err)
	}

	return ids, nil
}

// Behandlingsstatus returns the status of the newest behandling on a case.
func (c *client) Behandlingsstatus(ctx context.Context, sakID int64) (string, error) {
	queryCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var status string

	err := c.conn.QueryRowContext(queryCtx,
		`SELECT status FROM (
			SELECT status FROM behandling WHERE sak_id = :1 ORDER BY opprettet_dato DESC
		) WHERE ROWNUM = 1`,
		sakID).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", errNoRows
		}

		return "", fmt.Errorf("querying behandling status: %w", err)
	}

	return status, nil
}

// Compile-time interface compliance check
var _ Client = (*client)(nil)
