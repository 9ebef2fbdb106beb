// Package duration parses and formats human-readable durations such as
// "1h 15min" or "30s". Parsing is lenient: anything it cannot understand
// becomes a zero duration.
package duration
