package models

import (
	"strings"

	"github.com/korjavin/mealclock/pkg/duration"
)

// SplitStage separates "name=duration" or "name duration" into its parts.
// Without "=", the longest trailing run of words that reads as a duration
// is taken, even when a shorter run such as "min" alone does not; if none
// does, the whole text is the name.
func SplitStage(text string) (name, durationText string) {
	text = strings.TrimSpace(text)
	if i := strings.LastIndex(text, "="); i >= 0 {
		return strings.TrimSpace(text[:i]), strings.TrimSpace(text[i+1:])
	}

	words := strings.Fields(text)
	split := len(words)
	for i := len(words) - 1; i >= 1; i-- {
		if _, err := duration.ParseStrict(strings.Join(words[i:], " ")); err == nil {
			split = i
		}
	}
	return strings.Join(words[:split], " "), strings.Join(words[split:], " ")
}

// ParseStage builds a stage from "name=duration" or "name duration"
func ParseStage(text string) Stage {
	return NewStage(SplitStage(text))
}
