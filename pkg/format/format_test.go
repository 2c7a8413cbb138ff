package format

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"2024-10-01", 1727740800},
		{"2024-10-01 12:00", 1727784000},
		{"2024-10-01 12:00:30", 1727784030},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseDate("01/10/2024")
	assert.True(t, errors.Is(err, ErrUnsupportedDate))
}

func TestDefaultRange(t *testing.T) {
	now := time.Date(2025, 11, 13, 17, 45, 0, 0, time.UTC)
	start, end := DefaultRange(now, 30)
	assert.Equal(t, "2025-10-14", start)
	assert.Equal(t, "2025-11-13", end)
}

func TestTimestamp(t *testing.T) {
	assert.Equal(t, "2024-10-01 12:00 UTC", Timestamp(1727784000))
	assert.Equal(t, "2024-10-01", Date(1727784000))
}

func TestUSDShort(t *testing.T) {
	tests := []struct {
		in   *float64
		want string
	}{
		{nil, "N/A"},
		{f(2_500_000_000), "2.50 B $"},
		{f(1_250_000), "1.25 M $"},
		{f(-4_200), "-4.20 K $"},
		{f(999.5), "999.50 $"},
		{f(0.12345), "0.1235 $"},
		{f(0), "0.0000 $"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, USDShort(tt.in))
	}
	assert.Equal(t, "+1.00 K $", SignedUSDShort(f(1000)))
	assert.Equal(t, "-1.00 K $", SignedUSDShort(f(-1000)))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "+1.23 %", Percent(f(0.0123)))
	assert.Equal(t, "-5.00 %", Percent(f(-0.05)))
	assert.Equal(t, "+0.00 %", Percent(f(0)))
	assert.Equal(t, "N/A", Percent(nil))
	assert.Equal(t, "1.000100 $", SharePrice(f(1.0001)))
	assert.Equal(t, "N/A", SharePrice(f(0)))
}

func TestPercentPoints(t *testing.T) {
	assert.Equal(t, "12.30 %", PercentPoints(f(12.3)))
	assert.Equal(t, "0.00 %", PercentPoints(f(0.001)))
	assert.Equal(t, "N/A", PercentPoints(nil))
}
