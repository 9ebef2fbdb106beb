package telegram

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/korjavin/mealclock/pkg/models"
	"github.com/korjavin/mealclock/pkg/registry"
	"github.com/korjavin/mealclock/pkg/state"
	"github.com/korjavin/mealclock/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSuggester struct {
	steps []models.Stage
	err   error
}

func (f fakeSuggester) SuggestSteps(context.Context, string) ([]models.Stage, error) {
	return f.steps, f.err
}

func newPlanner(t *testing.T, suggester StepSuggester) (*Planner, *registry.Registry) {
	t.Helper()
	store, err := storage.New("")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	n := 0
	reg, err := registry.Open(store, registry.Options{NewID: func() string {
		n++
		return fmt.Sprintf("c%d", n)
	}})
	require.NoError(t, err)

	return NewPlanner(reg, state.New(0), suggester), reg
}

const chat = int64(42)

func TestPlanner_NewAddSchedule(t *testing.T) {
	p, reg := newPlanner(t, nil)
	ctx := context.Background()

	assert.Contains(t, p.Handle(ctx, chat, "new", "Sunday roast"), "Planning Sunday roast (c1)")
	p.Handle(ctx, chat, "add", "Yorkshire puddings 25min")
	reply := p.Handle(ctx, chat, "add", "Roast potatoes=30min")

	assert.Contains(t, reply, "Added 30m -- Roast potatoes to Sunday roast")
	assert.Contains(t, reply, "1st: 5m -- Roast potatoes")
	assert.Contains(t, reply, "2nd: 25m -- Yorkshire puddings")

	c, ok := reg.Get("c1")
	require.True(t, ok)
	assert.Len(t, c.Stages(), 3)
	assert.Equal(t, p.Handle(ctx, chat, "schedule", ""), p.Handle(ctx, chat, "schedule", ""))
}

func TestPlanner_Chain(t *testing.T) {
	p, reg := newPlanner(t, nil)
	ctx := context.Background()
	p.Handle(ctx, chat, "new", "Duck")

	p.Handle(ctx, chat, "chain", "x=5min; y=10min")

	c, _ := reg.Get("c1")
	assert.Equal(t, []models.Stage{
		{Name: "Serving"},
		{Name: "y", Duration: 10 * time.Minute},
		{Name: "x", Duration: 15 * time.Minute},
	}, c.Stages())
}

func TestPlanner_NeedsActiveCourse(t *testing.T) {
	p, _ := newPlanner(t, nil)
	ctx := context.Background()

	assert.Equal(t, noActiveCourse, p.Handle(ctx, chat, "add", "Rice 20min"))
	assert.Equal(t, noActiveCourse, p.Handle(ctx, chat, "schedule", ""))
}

func TestPlanner_UseAndCourses(t *testing.T) {
	p, _ := newPlanner(t, nil)
	ctx := context.Background()
	p.Handle(ctx, chat, "new", "Lunch")
	p.Handle(ctx, chat, "new", "Dinner")

	assert.Contains(t, p.Handle(ctx, chat, "use", "c1"), "Now planning Lunch")
	assert.Contains(t, p.Handle(ctx, chat, "courses", ""), "▶ Lunch (c1)")
	assert.Contains(t, p.Handle(ctx, chat, "use", "c9"), `no course "c9"`)
}

func TestPlanner_Done(t *testing.T) {
	p, reg := newPlanner(t, nil)
	ctx := context.Background()
	p.Handle(ctx, chat, "new", "Lunch")
	p.Handle(ctx, chat, "add", "Rice 20 min")

	assert.Contains(t, p.Handle(ctx, chat, "done", ""), "Finished planning Lunch")
	assert.Equal(t, noActiveCourse, p.Handle(ctx, chat, "schedule", ""))
	assert.Equal(t, noActiveCourse, p.Handle(ctx, chat, "done", ""))

	schedule, ok := reg.Schedule("c1")
	require.True(t, ok)
	assert.Equal(t, []models.Stage{{Name: "Rice", Duration: 20 * time.Minute}}, schedule)
}

func TestPlanner_Suggest(t *testing.T) {
	p, reg := newPlanner(t, fakeSuggester{steps: []models.Stage{
		{Name: "Sear", Duration: 5 * time.Minute},
		{Name: "Roast", Duration: 40 * time.Minute},
	}})
	ctx := context.Background()
	p.Handle(ctx, chat, "new", "Duck")

	reply := p.Handle(ctx, chat, "suggest", "duck breast")

	assert.Contains(t, reply, "Added 2 stages")
	schedule, _ := reg.Schedule("c1")
	assert.Equal(t, []models.Stage{
		{Name: "Sear", Duration: 5 * time.Minute},
		{Name: "Roast", Duration: 40 * time.Minute},
	}, schedule)
}

func TestPlanner_SuggestFailures(t *testing.T) {
	ctx := context.Background()

	p, _ := newPlanner(t, nil)
	assert.Equal(t, "Suggestions are not configured.", p.Handle(ctx, chat, "suggest", "duck"))

	p, _ = newPlanner(t, fakeSuggester{err: errors.New("down")})
	p.Handle(ctx, chat, "new", "Duck")
	assert.Contains(t, p.Handle(ctx, chat, "suggest", "duck"), "couldn't come up with steps for duck")
}

func TestPlanner_UnknownCommand(t *testing.T) {
	p, _ := newPlanner(t, nil)
	assert.Contains(t, p.Handle(context.Background(), chat, "dance", ""), "I don't know /dance")
	assert.Contains(t, p.Handle(context.Background(), chat, "start", ""), "/new <name>")
}
