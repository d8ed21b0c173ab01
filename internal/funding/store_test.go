package funding

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStore_SaveLoad(t *testing.T) {
	ctx := context.Background()

	s, err := NewSQLite(ctx, filepath.Join(t.TempDir(), "funding.db"))
	require.NoError(t, err)
	defer s.Close()

	n, err := s.Save(ctx, sampleData())
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	table, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, NewTable(sampleData()).Data(), table.Data())

	// A second save replaces the first.
	_, err = s.Save(ctx, Data{"1572860-0": {{Year: 2024, Amount: 1}}})
	require.NoError(t, err)
	table, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())
}

func TestOpenAndSave_Drivers(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	for _, src := range []Source{
		{Path: filepath.Join(dir, "funding.json")},
		{Driver: DriverSQLite, Path: filepath.Join(dir, "funding.db")},
	} {
		n, err := Save(ctx, src, sampleData())
		require.NoError(t, err)
		assert.Equal(t, int64(4), n)

		table, err := Open(ctx, src)
		require.NoError(t, err)
		assert.Equal(t, 2, table.Len(), src.Driver)
	}

	_, err := Open(ctx, Source{Driver: "mongo"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown driver "mongo"`)
}

func TestPostgresStore_Load(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"business_id", "year", "amount", "is_loan"}).
		AddRow("0112038-9", 2021, 80_000.0, false).
		AddRow("0112038-9", 2019, 200_000.0, true).
		AddRow("1572860-0", 2015, 10_000.0, false)
	mock.ExpectQuery("SELECT business_id, year, amount, is_loan").WillReturnRows(rows)

	s := &PostgresStore{pool: mock}
	table, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())

	entries, ok := table.Lookup("0112038-9")
	require.True(t, ok)
	assert.Equal(t, Entry{Year: 2019, Amount: 200_000, IsLoan: true}, entries[0])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_LoadError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT business_id").WillReturnError(errors.New("connection reset"))

	s := &PostgresStore{pool: mock}
	_, err = s.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "funding: postgres query")
}

func TestPostgresStore_Save(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS funding_entries").WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec("DELETE FROM funding_entries").WillReturnResult(pgxmock.NewResult("DELETE", 7))
	mock.ExpectCopyFrom(pgx.Identifier{"funding_entries"}, postgresColumns).WillReturnResult(4)
	mock.ExpectCommit()

	s := &PostgresStore{pool: mock}
	n, err := s.Save(context.Background(), sampleData())
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveBeginError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin().WillReturnError(errors.New("db down"))

	s := &PostgresStore{pool: mock}
	_, err = s.Save(context.Background(), sampleData())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "funding: postgres begin")
}
