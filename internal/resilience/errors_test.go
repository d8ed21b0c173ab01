package resilience

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("bad request"), false},
		{"marked", Transient(errors.New("x"), 503), true},
		{"wrapped marked", fmt.Errorf("call: %w", Transient(errors.New("x"), 429)), true},
		{"deadline", context.DeadlineExceeded, true},
		{"cancelled", context.Canceled, false},
		{"reset", errors.New("read tcp: connection reset by peer"), true},
		{"breaker open", ErrOpen, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

func TestTransient_NilPassthrough(t *testing.T) {
	assert.NoError(t, Transient(nil, 500))
}

func TestTransientStatus(t *testing.T) {
	for code, want := range map[int]bool{200: false, 400: false, 404: false, 429: true, 500: true, 502: true, 503: true, 504: true, 529: true, 501: false} {
		assert.Equal(t, want, TransientStatus(code), "status %d", code)
	}
}
