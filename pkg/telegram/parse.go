package telegram

import (
	"strings"

	"github.com/korjavin/mealclock/pkg/models"
)

// parseLinks reads "step=duration; step=duration" in chain order
func parseLinks(text string) []models.Stage {
	var links []models.Stage
	for _, part := range strings.Split(text, ";") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		links = append(links, models.ParseStage(part))
	}
	return links
}
