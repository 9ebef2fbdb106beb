package telegram

import (
	"context"
	"fmt"
	"strings"

	"github.com/korjavin/mealclock/pkg/course"
	"github.com/korjavin/mealclock/pkg/logger"
	"github.com/korjavin/mealclock/pkg/messages"
	"github.com/korjavin/mealclock/pkg/models"
	"github.com/korjavin/mealclock/pkg/registry"
	"github.com/korjavin/mealclock/pkg/state"
)

// StepSuggester proposes the sequential preparation steps of a dish
type StepSuggester interface {
	SuggestSteps(ctx context.Context, dish string) ([]models.Stage, error)
}

// Planner answers chat commands against the course registry
type Planner struct {
	registry  *registry.Registry
	states    *state.Manager
	suggester StepSuggester
	logger    *logger.Logger
}

// NewPlanner creates a planner; suggester may be nil
func NewPlanner(reg *registry.Registry, states *state.Manager, suggester StepSuggester) *Planner {
	return &Planner{
		registry:  reg,
		states:    states,
		suggester: suggester,
		logger:    logger.New("planner"),
	}
}

// Handle runs one command for a chat and returns the reply text
func (p *Planner) Handle(ctx context.Context, chatID int64, command, args string) string {
	args = strings.TrimSpace(args)

	switch command {
	case "start", "help":
		return messages.Welcome()
	case "new":
		return p.newCourse(chatID, args)
	case "add":
		return p.add(chatID, args)
	case "chain":
		return p.chain(chatID, args)
	case "schedule":
		return p.schedule(chatID)
	case "courses":
		active, _ := p.states.Active(chatID)
		return messages.CourseList(p.registry.List(), active)
	case "use":
		return p.use(chatID, args)
	case "done":
		return p.done(chatID)
	case "suggest":
		return p.suggest(ctx, chatID, args)
	default:
		return fmt.Sprintf("I don't know /%s. Try /help.", command)
	}
}

func (p *Planner) newCourse(chatID int64, name string) string {
	if name == "" {
		return "Please name the course: /new <name>"
	}

	details, err := p.registry.Create(name)
	if err != nil {
		p.logger.Error("Failed to create course: %v", err)
		return messages.Error("create the course")
	}
	p.states.SetActive(chatID, details.ID)

	return fmt.Sprintf("🆕 Planning %s (%s). Add dishes with /add <name> <duration>.", details.Name, details.ID)
}

func (p *Planner) add(chatID int64, args string) string {
	stage := models.ParseStage(args)
	if stage.Name == "" {
		return "Usage: /add <name> <duration>, e.g. /add Roast potatoes 45min"
	}
	return p.append(chatID, []models.Stage{stage})
}

func (p *Planner) chain(chatID int64, args string) string {
	links := parseLinks(args)
	if len(links) == 0 {
		return "Usage: /chain <step>=<duration>; <step>=<duration>, first step first"
	}
	return p.append(chatID, course.Chain(links))
}

func (p *Planner) suggest(ctx context.Context, chatID int64, dish string) string {
	if p.suggester == nil {
		return "Suggestions are not configured."
	}
	if dish == "" {
		return "Usage: /suggest <dish>"
	}
	if _, ok := p.active(chatID); !ok {
		return noActiveCourse
	}

	steps, err := p.suggester.SuggestSteps(ctx, dish)
	if err != nil {
		p.logger.Error("Failed to suggest steps for %s: %v", dish, err)
		return messages.Error("come up with steps for " + dish)
	}
	return p.append(chatID, course.Chain(steps))
}

func (p *Planner) schedule(chatID int64) string {
	c, ok := p.active(chatID)
	if !ok {
		return noActiveCourse
	}
	return messages.Schedule(c.Details(), c.Schedule())
}

func (p *Planner) use(chatID int64, id string) string {
	c, ok := p.registry.Get(id)
	if !ok {
		return fmt.Sprintf("There is no course %q. See /courses.", id)
	}
	p.states.SetActive(chatID, id)
	return fmt.Sprintf("▶ Now planning %s.", c.Name())
}

func (p *Planner) done(chatID int64) string {
	c, ok := p.active(chatID)
	if !ok {
		return noActiveCourse
	}
	p.states.Clear(chatID)
	return fmt.Sprintf("✅ Finished planning %s. It stays in /courses.", c.Name())
}

const noActiveCourse = "No course in progress. Start one with /new <name> or pick one with /use <id>."

func (p *Planner) active(chatID int64) (*course.Course, bool) {
	id, ok := p.states.Active(chatID)
	if !ok {
		return nil, false
	}
	return p.registry.Get(id)
}

func (p *Planner) append(chatID int64, stages []models.Stage) string {
	c, ok := p.active(chatID)
	if !ok {
		return noActiveCourse
	}

	schedule, err := p.registry.AddStages(c.Details().ID, stages...)
	if err != nil {
		p.logger.Error("Failed to add stages: %v", err)
		return messages.Error("add that")
	}

	return messages.Added(c.Details(), stages) + "\n\n" + messages.Schedule(c.Details(), schedule)
}
