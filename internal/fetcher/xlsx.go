package fetcher

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// XLSXOptions configures the XLSX parser.
type XLSXOptions struct {
	SheetIndex int    // default 0
	SheetName  string // if set, overrides SheetIndex
	SkipRows   int    // number of header rows to skip
	SkipBlank  bool   // drop rows whose cells are all empty
}

// StreamXLSX reads one sheet of an XLSX file and sends its rows, with
// formatted cell values trimmed, on the returned channel.
func StreamXLSX(ctx context.Context, path string, opts XLSXOptions) (<-chan []string, <-chan error) {
	return stream(ctx, "xlsx", func(emit emitFunc) error {
		f, err := xlsx.OpenFile(path)
		if err != nil {
			return eris.Wrap(err, "xlsx: open file")
		}

		sheet, err := pickSheet(f, opts)
		if err != nil {
			return err
		}

		for i, row := range sheet.Rows {
			if i < opts.SkipRows || row == nil {
				continue
			}
			cells := make([]string, len(row.Cells))
			for j, c := range row.Cells {
				cells[j] = c.String()
			}
			trimCells(cells)
			if opts.SkipBlank && blank(cells) {
				continue
			}
			if err := emit(cells); err != nil {
				return err
			}
		}
		return nil
	})
}

func pickSheet(f *xlsx.File, opts XLSXOptions) (*xlsx.Sheet, error) {
	if opts.SheetName != "" {
		sheet, ok := f.Sheet[opts.SheetName]
		if !ok {
			return nil, eris.Errorf("xlsx: sheet %q not found", opts.SheetName)
		}
		return sheet, nil
	}
	if opts.SheetIndex < 0 || opts.SheetIndex >= len(f.Sheets) {
		return nil, eris.Errorf("xlsx: sheet index %d out of range (file has %d sheets)", opts.SheetIndex, len(f.Sheets))
	}
	return f.Sheets[opts.SheetIndex], nil
}
