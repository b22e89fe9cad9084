package money

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := map[string]int64{
		"Rp 35.000":  35000,
		"35000":      35000,
		"Rp 0":       0,
		"Rp 150.000": 150000,
		" 1 2 3 ":    123,
	}
	for input, want := range cases {
		got, err := Parse(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}
}

func TestParseRejectsInputWithoutDigits(t *testing.T) {
	for _, input := range []string{"", "Rp", "gratis", "-.,"} {
		_, err := Parse(input)
		assert.ErrorIs(t, err, ErrInvalidAmount, input)
	}
}

func TestParseRejectsOverflow(t *testing.T) {
	_, err := Parse("99999999999999999999999")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "Rp 35.000", Format(35000))
	assert.Equal(t, "Rp 0", Format(0))
	assert.Equal(t, "Rp 999", Format(999))
	assert.Equal(t, "Rp 1.250.000", Format(1250000))
	assert.Equal(t, "-Rp 5.000", Format(-5000))
}

func TestFormatParseRoundTrip(t *testing.T) {
	for _, n := range []int64{0, 1, 10, 999, 1000, 35000, 70000, 1234567, 987654321012} {
		got, err := Parse(Format(n))
		require.NoError(t, err)
		assert.Equal(t, n, got)
	}
}

func TestDiscountPercent(t *testing.T) {
	pct, ok := DiscountPercent(100000, 50000)
	assert.True(t, ok)
	assert.Equal(t, 50, pct)

	_, ok = DiscountPercent(50000, 100000)
	assert.False(t, ok)

	_, ok = DiscountPercent(0, 50000)
	assert.False(t, ok, "missing original price")

	_, ok = DiscountPercent(50000, 50000)
	assert.False(t, ok)

	pct, ok = DiscountPercent(150000, 35000)
	assert.True(t, ok)
	assert.Equal(t, 77, pct)
}

func TestLineTotal(t *testing.T) {
	got, err := LineTotal(35000, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(105000), got)

	got, err = LineTotal(math.MaxInt64, 0)
	require.NoError(t, err)
	assert.Zero(t, got)

	_, err = LineTotal((1<<62)+1, 4)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = LineTotal(-1, 2)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestAdd(t *testing.T) {
	got, err := Add(35000, 20000)
	require.NoError(t, err)
	assert.Equal(t, int64(55000), got)

	_, err = Add(math.MaxInt64, 1)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}
