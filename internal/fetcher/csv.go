package fetcher

import (
	"context"
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"
)

const utf8BOM = "\ufeff"

// CSVOptions configures the streaming CSV parser.
type CSVOptions struct {
	Delimiter  rune // default ','
	HasHeader  bool // if true, the first row is dropped
	LazyQuotes bool
	TrimSpace  bool
	SkipBlank  bool // drop rows whose cells are all empty
}

// StreamCSV reads CSV rows from r and sends them on the returned channel.
// A leading UTF-8 byte order mark is removed.
func StreamCSV(ctx context.Context, r io.Reader, opts CSVOptions) (<-chan []string, <-chan error) {
	return stream(ctx, "csv", func(emit emitFunc) error {
		reader := csv.NewReader(r)
		if opts.Delimiter != 0 {
			reader.Comma = opts.Delimiter
		}
		reader.LazyQuotes = opts.LazyQuotes
		reader.FieldsPerRecord = -1

		for line := 1; ; line++ {
			if err := ctx.Err(); err != nil {
				return eris.Wrap(err, "csv: context cancelled")
			}

			record, err := reader.Read()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return eris.Wrapf(err, "csv: read row %d", line)
			}

			if line == 1 {
				if len(record) > 0 {
					record[0] = strings.TrimPrefix(record[0], utf8BOM)
				}
				if opts.HasHeader {
					continue
				}
			}
			if opts.TrimSpace {
				trimCells(record)
			}
			if opts.SkipBlank && blank(record) {
				continue
			}
			if err := emit(record); err != nil {
				return err
			}
		}
	})
}
