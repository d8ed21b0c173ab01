package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidBusinessID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{"valid", "0112038-9", true},
		{"valid remainder zero", "1572860-0", true},
		{"wrong check digit", "0112038-8", false},
		{"remainder one never valid", "0000006-0", false},
		{"missing dash", "01120389", false},
		{"too short", "112038-9", false},
		{"letters", "011203A-9", false},
		{"empty", "", false},
		{"trailing space", "0112038-9 ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidBusinessID(tt.id))
		})
	}
}

func TestNormalizeBusinessID(t *testing.T) {
	assert.Equal(t, "0112038-9", NormalizeBusinessID("112038-9"))
	assert.Equal(t, "0112038-9", NormalizeBusinessID("  0112038-9\t"))
	assert.Equal(t, "12345", NormalizeBusinessID("12345"))
	assert.True(t, ValidBusinessID(NormalizeBusinessID("112038-9")))
}
