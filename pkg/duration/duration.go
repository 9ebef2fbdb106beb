package duration

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"
)

const (
	day   = 24 * time.Hour
	week  = 7 * day
	month = 2_630_016 * time.Second  // 30.44 days
	year  = 31_557_600 * time.Second // 365.25 days
)

// ErrEmpty is returned by ParseStrict for blank input
var ErrEmpty = errors.New("empty duration")

// SyntaxError describes where a duration expression stopped making sense
type SyntaxError struct {
	Input  string
	Offset int
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid duration %q at offset %d: %s", e.Input, e.Offset, e.Reason)
}

var units = map[string]time.Duration{
	"nanos": time.Nanosecond, "nsec": time.Nanosecond, "ns": time.Nanosecond,
	"usec": time.Microsecond, "us": time.Microsecond, "µs": time.Microsecond,
	"millis": time.Millisecond, "msec": time.Millisecond, "ms": time.Millisecond,
	"seconds": time.Second, "second": time.Second, "sec": time.Second, "s": time.Second,
	"minutes": time.Minute, "minute": time.Minute, "min": time.Minute, "m": time.Minute,
	"hours": time.Hour, "hour": time.Hour, "hr": time.Hour, "h": time.Hour,
	"days": day, "day": day, "d": day,
	"weeks": week, "week": week, "w": week,
	"months": month, "month": month, "M": month,
	"years": year, "year": year, "y": year,
}

// Parse converts an expression like "1h 15min" into a duration.
// Malformed input yields zero; use ParseStrict to see why.
func Parse(text string) time.Duration {
	d, err := ParseStrict(text)
	if err != nil {
		return 0
	}
	return d
}

// ParseStrict is Parse with the error surfaced.
func ParseStrict(text string) (time.Duration, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, ErrEmpty
	}

	var total time.Duration
	pos := 0
	for pos < len(s) {
		pos = skipSpace(s, pos)
		if pos >= len(s) {
			break
		}

		start := pos
		var n int64
		for pos < len(s) && s[pos] >= '0' && s[pos] <= '9' {
			digit := int64(s[pos] - '0')
			if n > (math.MaxInt64-digit)/10 {
				return 0, &SyntaxError{Input: text, Offset: start, Reason: "number too large"}
			}
			n = n*10 + digit
			pos++
		}
		if pos == start {
			return 0, &SyntaxError{Input: text, Offset: pos, Reason: "expected number"}
		}

		pos = skipSpace(s, pos)
		unitStart := pos
		for pos < len(s) {
			r := rune(s[pos])
			if r >= 0x80 {
				// multi-byte rune, only µ is expected here
				if strings.HasPrefix(s[pos:], "µ") {
					pos += len("µ")
					continue
				}
				break
			}
			if !unicode.IsLetter(r) {
				break
			}
			pos++
		}
		if pos == unitStart {
			return 0, &SyntaxError{Input: text, Offset: unitStart, Reason: "missing unit"}
		}

		unit, ok := units[s[unitStart:pos]]
		if !ok {
			return 0, &SyntaxError{Input: text, Offset: unitStart, Reason: fmt.Sprintf("unknown unit %q", s[unitStart:pos])}
		}
		if n > int64(math.MaxInt64/unit) {
			return 0, &SyntaxError{Input: text, Offset: start, Reason: "duration out of range"}
		}
		part := time.Duration(n) * unit
		if total > math.MaxInt64-part {
			return 0, &SyntaxError{Input: text, Offset: start, Reason: "duration out of range"}
		}
		total += part
	}

	return total, nil
}

func skipSpace(s string, pos int) int {
	for pos < len(s) && (s[pos] == ' ' || s[pos] == '\t') {
		pos++
	}
	return pos
}

// Format renders d as space separated components, largest first:
// "1h 15m", "2days 3h", "30s". Zero (and negative) renders as "0s".
func Format(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}

	secs := int64(d / time.Second)
	nanos := int64(d % time.Second)

	years := secs / int64(year/time.Second)
	rem := secs % int64(year/time.Second)
	months := rem / int64(month/time.Second)
	rem %= int64(month / time.Second)
	days := rem / 86400
	daySecs := rem % 86400

	parts := make([]string, 0, 9)
	plural := func(n int64, name string) {
		if n == 0 {
			return
		}
		if n > 1 {
			name += "s"
		}
		parts = append(parts, fmt.Sprintf("%d%s", n, name))
	}
	plain := func(n int64, suffix string) {
		if n != 0 {
			parts = append(parts, fmt.Sprintf("%d%s", n, suffix))
		}
	}

	plural(years, "year")
	plural(months, "month")
	plural(days, "day")
	plain(daySecs/3600, "h")
	plain(daySecs%3600/60, "m")
	plain(daySecs%60, "s")
	plain(nanos/1_000_000, "ms")
	plain(nanos/1_000%1_000, "us")
	plain(nanos%1_000, "ns")

	return strings.Join(parts, " ")
}
