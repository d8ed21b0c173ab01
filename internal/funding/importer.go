package funding

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/assess-cli/internal/fetcher"
	"github.com/sells-group/assess-cli/internal/model"
)

// Column positions in the Business Finland "funding awarded" customer export.
const (
	colBusinessID = 1
	colYear       = 2
	colGrant      = 3
	colTotal      = 7
)

// ImportStats counts what an import saw.
type ImportStats struct {
	Rows      int `json:"rows"`
	Skipped   int `json:"skipped"`
	Entries   int `json:"entries"`
	Companies int `json:"companies"`
}

// parseAmount strips digit grouping whitespace. Blank cells are zero.
func parseAmount(s string) (float64, error) {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

// ParseRow turns one export row into an entry. ok is false for rows without
// a business id, a year or a total amount.
func ParseRow(cells []string) (businessID string, e Entry, ok bool) {
	if len(cells) <= colTotal {
		return "", Entry{}, false
	}
	businessID = model.NormalizeBusinessID(cells[colBusinessID])
	if businessID == "" {
		return "", Entry{}, false
	}
	year, err := strconv.Atoi(strings.TrimSpace(cells[colYear]))
	if err != nil || year == 0 {
		return "", Entry{}, false
	}
	amount, err := parseAmount(cells[colTotal])
	if err != nil || amount == 0 {
		return "", Entry{}, false
	}
	grant, err := parseAmount(cells[colGrant])
	return businessID, Entry{Year: year, Amount: amount, IsLoan: err == nil && grant == 0}, true
}

// Collect drains a row stream into Data.
func Collect(ctx context.Context, rows <-chan []string, errs <-chan error) (Data, ImportStats, error) {
	data := make(Data)
	var stats ImportStats
	for cells := range rows {
		stats.Rows++
		id, e, ok := ParseRow(cells)
		if !ok {
			stats.Skipped++
			continue
		}
		data[id] = append(data[id], e)
		stats.Entries++
	}
	if err := <-errs; err != nil {
		return nil, stats, err
	}
	if err := ctx.Err(); err != nil {
		return nil, stats, eris.Wrap(err, "funding: import cancelled")
	}
	stats.Companies = len(data)
	return data, stats, nil
}

// ImportFile parses a CSV or XLSX export. The first row is a header.
func ImportFile(ctx context.Context, path string) (Data, ImportStats, error) {
	var (
		rows <-chan []string
		errs <-chan error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		rows, errs = fetcher.StreamXLSX(ctx, path, fetcher.XLSXOptions{SkipRows: 1, SkipBlank: true})
	case ".csv", ".txt":
		f, err := os.Open(path)
		if err != nil {
			return nil, ImportStats{}, eris.Wrapf(err, "funding: open %s", path)
		}
		defer f.Close()
		rows, errs = fetcher.StreamCSV(ctx, f, fetcher.CSVOptions{HasHeader: true, LazyQuotes: true, TrimSpace: true, SkipBlank: true})
	default:
		return nil, ImportStats{}, eris.Errorf("funding: unsupported import format %q", filepath.Ext(path))
	}

	data, stats, err := Collect(ctx, rows, errs)
	if err != nil {
		return nil, stats, eris.Wrapf(err, "funding: import %s", path)
	}
	zap.L().Info("funding export parsed",
		zap.String("path", path),
		zap.Int("rows", stats.Rows),
		zap.Int("skipped", stats.Skipped),
		zap.Int("companies", stats.Companies),
	)
	return data, stats, nil
}
