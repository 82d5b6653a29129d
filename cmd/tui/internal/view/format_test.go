package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "1,234.50", FormatAmount(123450))
	assert.Equal(t, "0.05", FormatAmount(5))
}

func TestParseMoney(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		allowZero bool
		want      int64
		wantErr   bool
	}{
		{name: "plain", input: "12.34", want: 1234},
		{name: "thousands separator", input: "1,234.5", want: 123450},
		{name: "whole number", input: " 40 ", want: 4000},
		{name: "empty allowed", input: "", allowZero: true, want: 0},
		{name: "empty rejected", input: "", wantErr: true},
		{name: "negative", input: "-3", wantErr: true},
		{name: "garbage", input: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseMoney(tt.input, tt.allowZero)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDay(t *testing.T) {
	fallback := date(2026, 5, 20)

	got, err := parseDay("", fallback)
	require.NoError(t, err)
	assert.Equal(t, fallback, got)

	got, err = parseDay("2026-02-03", fallback)
	require.NoError(t, err)
	assert.Equal(t, date(2026, 2, 3), got)

	_, err = parseDay("03/02/2026", fallback)
	assert.Error(t, err)
}
