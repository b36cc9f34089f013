package database

import (
	"context"
	"database/sql/driver"
	"math/rand"
	"strings"
	"time"
)

// retryConnector wraps a driver.Connector so every connection it hands out
// retries on SQLITE_BUSY errors.
type retryConnector struct {
	connector  driver.Connector
	maxRetries int
}

func newRetryConnector(connector driver.Connector, maxRetries int) *retryConnector {
	return &retryConnector{connector: connector, maxRetries: maxRetries}
}

func (rc *retryConnector) Connect(ctx context.Context) (driver.Conn, error) {
	conn, err := rc.connector.Connect(ctx)
	if err != nil {
		return nil, err
	}
	return &retryConn{conn: conn, maxRetries: rc.maxRetries}, nil
}

func (rc *retryConnector) Driver() driver.Driver {
	return rc.connector.Driver()
}

// isBusyError matches SQLite BUSY/LOCKED errors from both mattn/go-sqlite3 and
// modernc.org/sqlite, which sqliteshim can resolve to.
func isBusyError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked") ||
		strings.Contains(msg, "SQLITE_BUSY") ||
		strings.Contains(msg, "SQLITE_LOCKED") ||
		strings.Contains(msg, "(5)") ||
		strings.Contains(msg, "(6)")
}

func retryWithBackoff(ctx context.Context, maxRetries int, fn func() error) error {
	var err error
	baseDelay := 50 * time.Millisecond

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err = fn()
		if err == nil || !isBusyError(err) || attempt == maxRetries {
			return err
		}

		// Exponential backoff with jitter, capped at 2s.
		delay := baseDelay * time.Duration(1<<attempt)
		delay += time.Duration(rand.Int63n(int64(delay / 4)))
		if delay > 2*time.Second {
			delay = 2 * time.Second
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return err
}

// retryConn wraps a driver.Conn and retries busy errors on exec, query, and
// transaction begin. Prepared statements pass through unretried; bun issues
// everything through the Context interfaces below.
type retryConn struct {
	conn       driver.Conn
	maxRetries int
}

func (c *retryConn) Prepare(query string) (driver.Stmt, error) {
	return c.conn.Prepare(query)
}

func (c *retryConn) Close() error {
	return c.conn.Close()
}

func (c *retryConn) Begin() (driver.Tx, error) {
	var tx driver.Tx
	err := retryWithBackoff(context.Background(), c.maxRetries, func() error {
		var innerErr error
		tx, innerErr = c.conn.Begin() //nolint:staticcheck // deprecated but required for interface
		return innerErr
	})
	return tx, err
}

func (c *retryConn) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	connBeginTx, ok := c.conn.(driver.ConnBeginTx)
	if !ok {
		return c.Begin()
	}
	var tx driver.Tx
	err := retryWithBackoff(ctx, c.maxRetries, func() error {
		var innerErr error
		tx, innerErr = connBeginTx.BeginTx(ctx, opts)
		return innerErr
	})
	return tx, err
}

func (c *retryConn) PrepareContext(ctx context.Context, query string) (driver.Stmt, error) {
	if connPrepareContext, ok := c.conn.(driver.ConnPrepareContext); ok {
		return connPrepareContext.PrepareContext(ctx, query)
	}
	return c.Prepare(query)
}

func (c *retryConn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	execerContext, ok := c.conn.(driver.ExecerContext)
	if !ok {
		return nil, driver.ErrSkip
	}
	var result driver.Result
	err := retryWithBackoff(ctx, c.maxRetries, func() error {
		var innerErr error
		result, innerErr = execerContext.ExecContext(ctx, query, args)
		return innerErr
	})
	return result, err
}

func (c *retryConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	queryerContext, ok := c.conn.(driver.QueryerContext)
	if !ok {
		return nil, driver.ErrSkip
	}
	var rows driver.Rows
	err := retryWithBackoff(ctx, c.maxRetries, func() error {
		var innerErr error
		rows, innerErr = queryerContext.QueryContext(ctx, query, args)
		return innerErr
	})
	return rows, err
}

func (c *retryConn) Ping(ctx context.Context) error {
	if pinger, ok := c.conn.(driver.Pinger); ok {
		return pinger.Ping(ctx)
	}
	return nil
}

func (c *retryConn) ResetSession(ctx context.Context) error {
	if resetter, ok := c.conn.(driver.SessionResetter); ok {
		return resetter.ResetSession(ctx)
	}
	return nil
}

func (c *retryConn) IsValid() bool {
	if validator, ok := c.conn.(driver.Validator); ok {
		return validator.IsValid()
	}
	return true
}
