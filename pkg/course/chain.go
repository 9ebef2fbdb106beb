package course

import (
	"math"
	"time"

	"github.com/korjavin/mealclock/pkg/duration"
	"github.com/korjavin/mealclock/pkg/models"
)

// Chain converts sequential sub-steps, each finishing before the next
// begins, into lead-times before the end of the chain. It walks the links
// backwards and returns them in that order, so the last element carries
// the length of the whole chain. The running total saturates at the
// largest representable duration.
func Chain(links []models.Stage) []models.Stage {
	chained := make([]models.Stage, 0, len(links))

	var acc time.Duration
	for i := len(links) - 1; i >= 0; i-- {
		if links[i].Duration > math.MaxInt64-acc {
			acc = math.MaxInt64
		} else {
			acc += links[i].Duration
		}
		chained = append(chained, models.Stage{Name: links[i].Name, Duration: acc})
		log.Debug("%s -> %s", links[i].Name, duration.Format(acc))
	}

	return chained
}
