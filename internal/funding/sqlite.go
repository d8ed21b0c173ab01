package funding

import (
	"context"
	"database/sql"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore persists the funding table in a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at dsn and creates the schema.
func NewSQLite(ctx context.Context, dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "funding: sqlite open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "funding: sqlite exec %s", pragma)
		}
	}
	s := &SQLiteStore{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS funding_entries (
	business_id TEXT    NOT NULL,
	year        INTEGER NOT NULL,
	amount      REAL    NOT NULL,
	is_loan     INTEGER NOT NULL DEFAULT 0,
	seq         INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_funding_entries_business_id ON funding_entries(business_id);
`

func (s *SQLiteStore) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteSchema)
	return eris.Wrap(err, "funding: sqlite migrate")
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save replaces the stored table with data.
func (s *SQLiteStore) Save(ctx context.Context, data Data) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "funding: sqlite begin")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM funding_entries"); err != nil {
		return 0, eris.Wrap(err, "funding: sqlite clear")
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO funding_entries (business_id, year, amount, is_loan, seq) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return 0, eris.Wrap(err, "funding: sqlite prepare")
	}
	defer stmt.Close()

	var n int64
	for id, list := range data {
		for i, e := range list {
			if _, err := stmt.ExecContext(ctx, id, e.Year, e.Amount, e.IsLoan, i); err != nil {
				return n, eris.Wrapf(err, "funding: sqlite insert %s", id)
			}
			n++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "funding: sqlite commit")
	}
	return n, nil
}

// Load reads the whole table.
func (s *SQLiteStore) Load(ctx context.Context) (*Table, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT business_id, year, amount, is_loan FROM funding_entries ORDER BY business_id, seq")
	if err != nil {
		return nil, eris.Wrap(err, "funding: sqlite query")
	}
	defer rows.Close()

	data := make(Data)
	for rows.Next() {
		var (
			id string
			e  Entry
		)
		if err := rows.Scan(&id, &e.Year, &e.Amount, &e.IsLoan); err != nil {
			return nil, eris.Wrap(err, "funding: sqlite scan")
		}
		data[id] = append(data[id], e)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "funding: sqlite rows")
	}
	return NewTable(data), nil
}
