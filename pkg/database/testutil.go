package database

import (
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

// NewMockPool returns a pgxmock pool that satisfies DBTX, so repository
// constructors accept it in place of a real pgxpool.Pool. Tests should finish
// with ExpectationsWereMet to catch queries that never ran.
func NewMockPool() (pgxmock.PgxPoolIface, error) {
	return pgxmock.NewPool()
}
