package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/snnyvrz/bookshelf/internal/repository"
	"gorm.io/gorm"
)

var ErrConnClosed = errors.New("db: connection already closed")

// Pool hands out request scoped connections backed by a shared gorm handle.
type Pool struct {
	db *gorm.DB
}

func NewPool(db *gorm.DB) *Pool {
	return &Pool{db: db}
}

func (p *Pool) Connect(ctx context.Context) repository.Conn {
	return &Conn{pool: p, ctx: ctx}
}

// Conn owns at most one *sql.Conn, acquired on first use. It must only be
// used by the goroutine serving the request that created it.
type Conn struct {
	pool *Pool
	ctx  context.Context

	sqlConn *sql.Conn
	session *gorm.DB
	closed  bool
}

func (c *Conn) acquire() (*gorm.DB, error) {
	if c.closed {
		return nil, ErrConnClosed
	}
	if c.session != nil {
		return c.session, nil
	}

	sqlDB, err := c.pool.db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB from gorm: %w", err)
	}

	conn, err := sqlDB.Conn(c.ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	// Every statement issued through the session, including gorm's implicit
	// transactions, runs on the dedicated connection.
	session := c.pool.db.Session(&gorm.Session{NewDB: true, Context: c.ctx})
	session.Statement.ConnPool = conn

	c.sqlConn = conn
	c.session = session

	return session, nil
}

// Acquired reports whether the underlying connection has been taken from the
// pool and not yet released.
func (c *Conn) Acquired() bool {
	return c.sqlConn != nil
}

func (c *Conn) Books() (repository.BookRepository, error) {
	session, err := c.acquire()
	if err != nil {
		return nil, err
	}
	return repository.NewGormBookRepository(session), nil
}

func (c *Conn) Ping() error {
	if _, err := c.acquire(); err != nil {
		return err
	}
	return c.sqlConn.PingContext(c.ctx)
}

// Close releases the connection back to the pool. It is a no-op when the
// connection was never acquired or was already closed.
func (c *Conn) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	if c.sqlConn == nil {
		return nil
	}

	err := c.sqlConn.Close()
	c.sqlConn = nil
	c.session = nil

	if err != nil {
		log.Error().Err(err).Msg("failed to release database connection")
	}
	return err
}

var _ repository.Connector = (*Pool)(nil)
var _ repository.Conn = (*Conn)(nil)
