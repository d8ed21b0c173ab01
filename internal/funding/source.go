package funding

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Supported table backends.
const (
	DriverJSON     = "json"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Source locates a persisted funding table.
type Source struct {
	Driver      string
	Path        string
	DatabaseURL string
}

func (s Source) driver() string {
	if s.Driver == "" {
		return DriverJSON
	}
	return s.Driver
}

// Open loads the table once. The result is never mutated.
func Open(ctx context.Context, src Source) (*Table, error) {
	var (
		t   *Table
		err error
	)
	switch src.driver() {
	case DriverJSON:
		t, err = LoadJSON(src.Path)
	case DriverSQLite:
		var s *SQLiteStore
		if s, err = NewSQLite(ctx, src.Path); err == nil {
			defer s.Close()
			t, err = s.Load(ctx)
		}
	case DriverPostgres:
		var s *PostgresStore
		if s, err = NewPostgres(ctx, src.DatabaseURL); err == nil {
			defer s.Close()
			t, err = s.Load(ctx)
		}
	default:
		return nil, eris.Errorf("funding: unknown driver %q", src.Driver)
	}
	if err != nil {
		return nil, err
	}

	zap.L().Info("funding table loaded",
		zap.String("driver", src.driver()),
		zap.Int("companies", t.Len()),
	)
	return t, nil
}

// Save persists data to the source, replacing what was there.
func Save(ctx context.Context, src Source, data Data) (int64, error) {
	switch src.driver() {
	case DriverJSON:
		if err := WriteJSON(src.Path, data); err != nil {
			return 0, err
		}
		var n int64
		for _, list := range data {
			n += int64(len(list))
		}
		return n, nil
	case DriverSQLite:
		s, err := NewSQLite(ctx, src.Path)
		if err != nil {
			return 0, err
		}
		defer s.Close()
		return s.Save(ctx, data)
	case DriverPostgres:
		s, err := NewPostgres(ctx, src.DatabaseURL)
		if err != nil {
			return 0, err
		}
		defer s.Close()
		return s.Save(ctx, data)
	default:
		return 0, eris.Errorf("funding: unknown driver %q", src.Driver)
	}
}
