package scheduler

import (
	"slices"
	"time"

	"github.com/korjavin/mealclock/pkg/models"
)

// Schedule orders stages by lead-time, longest first, and returns one entry
// per consecutive pair: the earlier action's name and the wait until the
// next action starts. n stages give max(n-1, 0) entries.
func Schedule(stages []models.Stage) []models.Stage {
	if len(stages) < 2 {
		return []models.Stage{}
	}

	sorted := slices.Clone(stages)
	slices.SortStableFunc(sorted, func(a, b models.Stage) int {
		switch {
		case a.Duration > b.Duration:
			return -1
		case a.Duration < b.Duration:
			return 1
		default:
			return 0
		}
	})

	countdown := make([]models.Stage, 0, len(sorted)-1)
	for i := 0; i+1 < len(sorted); i++ {
		a, b := sorted[i], sorted[i+1]
		countdown = append(countdown, models.Stage{
			Name:     a.Name,
			Duration: a.Duration - b.Duration,
		})
	}

	return countdown
}

// Lines formats each countdown entry as "<duration> -- <name>"
func Lines(countdown []models.Stage) []string {
	lines := make([]string, len(countdown))
	for i, s := range countdown {
		lines[i] = models.FormatStage(s)
	}
	return lines
}

// Total is the time from the first action until serving
func Total(countdown []models.Stage) time.Duration {
	var total time.Duration
	for _, s := range countdown {
		total += s.Duration
	}
	return total
}
