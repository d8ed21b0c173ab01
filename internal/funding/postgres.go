package funding

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
)

// pool is the subset of pgxpool.Pool used by PostgresStore.
type pool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

const postgresTable = "funding_entries"

var postgresColumns = []string{"business_id", "year", "amount", "is_loan", "seq"}

// PostgresSchema creates the table read and written by PostgresStore.
const PostgresSchema = `
CREATE TABLE IF NOT EXISTS funding_entries (
	business_id TEXT             NOT NULL,
	year        INTEGER          NOT NULL,
	amount      DOUBLE PRECISION NOT NULL,
	is_loan     BOOLEAN          NOT NULL DEFAULT FALSE,
	seq         INTEGER          NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_funding_entries_business_id ON funding_entries (business_id);`

// PostgresStore persists the funding table in Postgres.
type PostgresStore struct {
	pool pool
}

// NewPostgres connects to url and verifies the connection.
func NewPostgres(ctx context.Context, url string) (*PostgresStore, error) {
	p, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, eris.Wrap(err, "funding: postgres connect")
	}
	if err := p.Ping(ctx); err != nil {
		p.Close()
		return nil, eris.Wrap(err, "funding: postgres ping")
	}
	return &PostgresStore{pool: p}, nil
}

// Close releases the pool.
func (s *PostgresStore) Close() { s.pool.Close() }

// Save replaces the stored table with data in one transaction.
func (s *PostgresStore) Save(ctx context.Context, data Data) (int64, error) {
	rows := make([][]any, 0, len(data))
	for id, list := range data {
		for i, e := range list {
			rows = append(rows, []any{id, e.Year, e.Amount, e.IsLoan, i})
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "funding: postgres begin")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, PostgresSchema); err != nil {
		return 0, eris.Wrap(err, "funding: postgres migrate")
	}
	if _, err := tx.Exec(ctx, "DELETE FROM "+postgresTable); err != nil {
		return 0, eris.Wrap(err, "funding: postgres clear")
	}
	n, err := tx.CopyFrom(ctx, pgx.Identifier{postgresTable}, postgresColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, eris.Wrap(err, "funding: postgres copy")
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, eris.Wrap(err, "funding: postgres commit")
	}
	return n, nil
}

const postgresLoadSQL = `
SELECT business_id, year, amount, is_loan
FROM funding_entries
ORDER BY business_id, seq`

// Load reads the whole table.
func (s *PostgresStore) Load(ctx context.Context) (*Table, error) {
	rows, err := s.pool.Query(ctx, postgresLoadSQL)
	if err != nil {
		return nil, eris.Wrap(err, "funding: postgres query")
	}
	defer rows.Close()

	data := make(Data)
	for rows.Next() {
		var (
			id string
			e  Entry
		)
		if err := rows.Scan(&id, &e.Year, &e.Amount, &e.IsLoan); err != nil {
			return nil, eris.Wrap(err, "funding: postgres scan")
		}
		data[id] = append(data[id], e)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "funding: postgres rows")
	}
	return NewTable(data), nil
}
