// Package store provides the optional persistent store reserved for a
// future withdrawal-metadata collector (spec §6). The scanning pipeline
// itself never writes to it; Store only owns idempotent schema creation so
// that whichever collector eventually populates transfer_exchanges and
// transfer_assets can rely on the tables already existing.
package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fd1az/spreadscanner/internal/apperror"
)

// Store wraps a pgx pool. A nil *Store is a valid no-op store, so callers
// that don't configure a DSN can hold a nil Store without branching.
type Store struct {
	pool *pgxpool.Pool
}

// Open connects to dsn and creates the reserved tables idempotently. An
// empty dsn returns (nil, nil): the store is optional per spec §6.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, nil
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, apperror.External(apperror.CodeStoreUnavailable, "store.connect", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// migrate idempotently creates the two reserved tables from spec §6. The
// core pipeline never populates them; schema only, for a future
// authenticated fee/withdrawal collector.
func (s *Store) migrate(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS transfer_exchanges (
	id          BIGSERIAL PRIMARY KEY,
	venue_id    TEXT NOT NULL UNIQUE,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS transfer_assets (
	id                    BIGSERIAL PRIMARY KEY,
	exchange_id           BIGINT NOT NULL REFERENCES transfer_exchanges(id),
	asset                 TEXT NOT NULL,
	network               TEXT NOT NULL,
	withdraw_enabled      BOOLEAN NOT NULL DEFAULT false,
	deposit_enabled       BOOLEAN NOT NULL DEFAULT false,
	withdraw_fee          NUMERIC,
	withdraw_min          NUMERIC,
	updated_at            TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (exchange_id, asset, network)
);
`
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return apperror.External(apperror.CodeStoreUnavailable, "store.migrate", err)
	}
	return nil
}

// Ping reports whether the store is reachable, used by internal/health.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil {
		return nil
	}
	return s.pool.Ping(ctx)
}

// Close releases the underlying pool. Safe to call on a nil Store.
func (s *Store) Close() {
	if s == nil {
		return
	}
	s.pool.Close()
}
