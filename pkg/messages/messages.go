// Package messages renders courses and countdowns as chat text.
package messages

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/korjavin/mealclock/pkg/duration"
	"github.com/korjavin/mealclock/pkg/models"
	"github.com/korjavin/mealclock/pkg/scheduler"
)

// Welcome lists the available commands
func Welcome() string {
	return strings.Join([]string{
		"👋 Welcome! I work out when to start each dish so everything is ready at once.",
		"",
		"/new <name> - start planning a course",
		"/add <name> <duration> - add a dish that needs <duration> before serving",
		"/chain <step>=<duration>; <step>=<duration> - add dependent steps, first to last",
		"/schedule - show the countdown",
		"/courses - list courses",
		"/use <id> - switch to another course",
		"/done - stop planning the current course",
		"/suggest <dish> - ask for prep steps and add them as a chain",
	}, "\n")
}

// Schedule renders a course's countdown, one numbered wait per line
func Schedule(details models.CourseDetails, countdown []models.Stage) string {
	if len(countdown) == 0 {
		return fmt.Sprintf("🍽 %s has nothing to wait for yet. Add dishes with /add <name> <duration>.", details.Name)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "⏲ Countdown for %s (%s in total)\n\n", details.Name, duration.Format(scheduler.Total(countdown)))
	for i, line := range scheduler.Lines(countdown) {
		fmt.Fprintf(&b, "%s: %s\n", humanize.Ordinal(i+1), line)
	}
	b.WriteString("\n🍽 Then serve!")
	return b.String()
}

// CourseList renders the known courses, marking the active one
func CourseList(courses []models.CourseDetails, activeID string) string {
	if len(courses) == 0 {
		return "No courses yet. Start one with /new <name>."
	}

	var b strings.Builder
	b.WriteString("📋 Courses:\n\n")
	for _, c := range courses {
		marker := "•"
		if c.ID == activeID {
			marker = "▶"
		}
		fmt.Fprintf(&b, "%s %s (%s)\n", marker, c.Name, c.ID)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Added confirms stages added to a course
func Added(details models.CourseDetails, stages []models.Stage) string {
	if len(stages) == 1 {
		return fmt.Sprintf("✅ Added %s to %s.", models.FormatStage(stages[0]), details.Name)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "✅ Added %d stages to %s:\n", len(stages), details.Name)
	for _, s := range stages {
		fmt.Fprintf(&b, "• %s\n", models.FormatStage(s))
	}
	return strings.TrimRight(b.String(), "\n")
}

// Error renders a failure to do something
func Error(action string) string {
	return fmt.Sprintf("😢 Sorry, I couldn't %s. Please try again later.", action)
}
