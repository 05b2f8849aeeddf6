package credentials

import (
	"context"
	"database/sql"
	"fmt"

	mssql "github.com/denisenkom/go-mssqldb"
)

// Dialer opens a database handle for a descriptor. The caller owns the
// returned *sql.DB and must close it.
type Dialer interface {
	Open(ctx context.Context, d Descriptor) (*sql.DB, error)
}

type DialerFunc func(ctx context.Context, d Descriptor) (*sql.DB, error)

func (f DialerFunc) Open(ctx context.Context, d Descriptor) (*sql.DB, error) {
	return f(ctx, d)
}

// MSSQLDialer opens SQL Server connections with go-mssqldb and verifies them
// with a ping bounded by the descriptor's login timeout.
type MSSQLDialer struct{}

func (MSSQLDialer) Open(ctx context.Context, d Descriptor) (*sql.DB, error) {
	connector, err := mssql.NewConnector(d.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse descriptor: %w", err)
	}
	db := sql.OpenDB(connector)

	if d.LoginTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.LoginTimeout)
		defer cancel()
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
