package duration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Expressions(t *testing.T) {
	cases := map[string]time.Duration{
		"30s":          30 * time.Second,
		"10min":        10 * time.Minute,
		"1h 15min":     75 * time.Minute,
		"1h15m":        75 * time.Minute,
		"  2 hours  ":  2 * time.Hour,
		"1day 2h":      26 * time.Hour,
		"1w":           7 * 24 * time.Hour,
		"250ms":        250 * time.Millisecond,
		"3µs":          3 * time.Microsecond,
		"1M":           2_630_016 * time.Second,
		"1y":           31_557_600 * time.Second,
		"0s":           0,
		"1m 1m 1m":     3 * time.Minute,
		"45sec 5nsec":  45*time.Second + 5*time.Nanosecond,
		"2minutes 1hr": 2*time.Minute + time.Hour,
	}

	for input, want := range cases {
		t.Run(input, func(t *testing.T) {
			assert.Equal(t, want, Parse(input))
		})
	}
}

func TestParse_MalformedIsZero(t *testing.T) {
	for _, input := range []string{"banana", "", "   ", "10", "5 parsecs", "-5s", "1h x", "99999999999999999999s"} {
		t.Run(input, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.Equal(t, time.Duration(0), Parse(input))
			})
		})
	}
}

func TestParseStrict_Errors(t *testing.T) {
	_, err := ParseStrict("")
	require.ErrorIs(t, err, ErrEmpty)

	_, err = ParseStrict("5 parsecs")
	var syn *SyntaxError
	require.ErrorAs(t, err, &syn)
	assert.Equal(t, 2, syn.Offset)
	assert.Contains(t, syn.Error(), "parsecs")

	_, err = ParseStrict("10")
	require.ErrorAs(t, err, &syn)
	assert.Equal(t, "missing unit", syn.Reason)
}

func TestFormat(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{0, "0s"},
		{-time.Second, "0s"},
		{30 * time.Second, "30s"},
		{20 * time.Minute, "20m"},
		{75 * time.Minute, "1h 15m"},
		{26*time.Hour + 5*time.Second, "1day 2h 5s"},
		{50 * time.Hour, "2days 2h"},
		{1500 * time.Millisecond, "1s 500ms"},
		{year + 2*month, "1year 2months"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Format(tc.in), "Format(%v)", tc.in)
	}
}

func TestFormat_ParsesBack(t *testing.T) {
	for _, d := range []time.Duration{time.Second, 95 * time.Minute, 3*day + 4*time.Hour, 1500 * time.Millisecond} {
		assert.Equal(t, d, Parse(Format(d)))
	}
}
