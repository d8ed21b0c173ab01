package fetcher

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
)

// emitFunc sends one row downstream. It fails once the consumer's context
// is done.
type emitFunc func(row []string) error

// stream runs produce in a goroutine and exposes its rows as channels. Both
// channels are closed when produce returns; at most one error is sent.
func stream(ctx context.Context, format string, produce func(emit emitFunc) error) (<-chan []string, <-chan error) {
	rowCh := make(chan []string, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(rowCh)
		defer close(errCh)

		emit := func(row []string) error {
			select {
			case rowCh <- row:
				return nil
			case <-ctx.Done():
				return eris.Wrapf(ctx.Err(), "%s: context cancelled", format)
			}
		}
		if err := produce(emit); err != nil {
			errCh <- err
		}
	}()

	return rowCh, errCh
}

// blank reports whether every cell is empty after trimming.
func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func trimCells(row []string) {
	for i, c := range row {
		row[i] = strings.TrimSpace(c)
	}
}
