package postgres

import "github.com/jackc/pgx/v5/pgxpool"

// Store implements database.Store using PostgreSQL. Every tenant-scoped
// query filters on tenant_id in SQL; there is no code path that reads
// another tenant's rows.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}
