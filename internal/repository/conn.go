package repository

import "context"

// Conn is a database handle scoped to a single request. Implementations
// acquire the underlying connection on first use; Close releases it and is
// safe to call when nothing was acquired.
type Conn interface {
	Books() (BookRepository, error)
	Ping() error
	Close() error
}

type Connector interface {
	Connect(ctx context.Context) Conn
}
