package sequelocity

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
)

// ConnectionState reports whether a DbConnection holds an open native connection.
type ConnectionState int

const (
	ConnectionClosed ConnectionState = iota
	ConnectionOpen
)

func (s ConnectionState) String() string {
	switch s {
	case ConnectionOpen:
		return "open"
	default:
		return "closed"
	}
}

// DbConnection is a single native connection bound to a provider.
// The underlying *sqlx.DB is created without network I/O, the dedicated *sqlx.Conn is acquired by Open.
type DbConnection struct {
	db               *sqlx.DB
	conn             *sqlx.Conn
	provider         Provider
	connectionString string
}

func newDbConnection(db *sqlx.DB, provider Provider, connectionString string) *DbConnection {
	return &DbConnection{
		db:               db,
		provider:         provider,
		connectionString: connectionString,
	}
}

// Open acquires the native connection, it is a no-op when the connection is already open.
func (c *DbConnection) Open(ctx context.Context) error {
	if c.db == nil {
		return ErrConnectionDisposed
	}

	if c.conn != nil {
		return nil
	}

	conn, err := c.db.Connx(ctx)
	if err != nil {
		return err
	}

	c.conn = conn

	return nil
}

// State returns ConnectionOpen while a native connection is held.
func (c *DbConnection) State() ConnectionState {
	if c.conn != nil {
		return ConnectionOpen
	}

	return ConnectionClosed
}

// Conn returns the open native connection or nil.
func (c *DbConnection) Conn() *sqlx.Conn {
	return c.conn
}

// Provider returns the provider the connection was created for.
func (c *DbConnection) Provider() Provider {
	return c.provider
}

// ConnectionString returns the resolved connection string.
func (c *DbConnection) ConnectionString() string {
	return c.connectionString
}

// Close releases the native connection and its database handle. Calling Close twice is safe.
func (c *DbConnection) Close() error {
	var connErr, dbErr error

	if c.conn != nil {
		connErr = c.conn.Close()
		c.conn = nil
	}

	if c.db != nil {
		dbErr = c.db.Close()
		c.db = nil
	}

	return errors.Join(connErr, dbErr)
}
