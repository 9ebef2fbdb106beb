package registry

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/korjavin/mealclock/pkg/models"
	"github.com/korjavin/mealclock/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.New("")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func TestRegistry_CreateAndGet(t *testing.T) {
	reg, err := Open(openStore(t), Options{NewID: sequentialIDs()})
	require.NoError(t, err)

	details, err := reg.Create("Sunday roast")
	require.NoError(t, err)
	assert.Equal(t, models.CourseDetails{ID: "id-1", Name: "Sunday roast"}, details)

	c, ok := reg.Get("id-1")
	require.True(t, ok)
	assert.Equal(t, []models.Stage{{Name: "Serving"}}, c.Stages())
}

func TestRegistry_DefaultIDsAreUUIDs(t *testing.T) {
	reg, err := Open(openStore(t), Options{})
	require.NoError(t, err)

	a, err := reg.Create("a")
	require.NoError(t, err)
	b, err := reg.Create("b")
	require.NoError(t, err)

	assert.Len(t, a.ID, 36)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestRegistry_UnknownCourseIsAbsence(t *testing.T) {
	reg, err := Open(openStore(t), Options{})
	require.NoError(t, err)

	_, ok := reg.Get("nope")
	assert.False(t, ok)

	schedule, ok := reg.Schedule("nope")
	assert.False(t, ok)
	assert.Empty(t, schedule)

	schedule, err = reg.AddStages("nope", models.NewStage("A", "1min"))
	assert.ErrorIs(t, err, ErrUnknownCourse)
	assert.Empty(t, schedule)
}

func TestRegistry_AddStagesReturnsSchedule(t *testing.T) {
	reg, err := Open(openStore(t), Options{NewID: sequentialIDs()})
	require.NoError(t, err)
	_, err = reg.Create("Dinner")
	require.NoError(t, err)

	_, err = reg.AddStages("id-1", models.NewStage("A", "10min"))
	require.NoError(t, err)
	schedule, err := reg.AddStages("id-1", models.NewStage("B", "30min"))
	require.NoError(t, err)

	assert.Equal(t, []models.Stage{
		{Name: "B", Duration: 20 * time.Minute},
		{Name: "A", Duration: 10 * time.Minute},
	}, schedule)
}

func TestRegistry_GetReturnsSnapshot(t *testing.T) {
	reg, err := Open(openStore(t), Options{NewID: sequentialIDs()})
	require.NoError(t, err)
	_, err = reg.Create("Dinner")
	require.NoError(t, err)

	c, _ := reg.Get("id-1")
	c.AddText("local only", "5min")

	fresh, _ := reg.Get("id-1")
	assert.Len(t, fresh.Stages(), 1)
}

func TestRegistry_SeedFromName(t *testing.T) {
	reg, err := Open(openStore(t), Options{NewID: sequentialIDs(), SeedFromName: true})
	require.NoError(t, err)
	_, err = reg.Create("duck and  peas")
	require.NoError(t, err)

	c, _ := reg.Get("id-1")
	assert.Equal(t, []models.Stage{
		{Name: "Serving"},
		{Name: "duck", Duration: 30 * time.Second},
		{Name: "and", Duration: 50 * time.Second},
		{Name: "peas", Duration: 70 * time.Second},
	}, c.Stages())
}

func TestRegistry_ListSorted(t *testing.T) {
	reg, err := Open(openStore(t), Options{NewID: sequentialIDs()})
	require.NoError(t, err)
	for _, name := range []string{"Soup", "Roast", "Soup"} {
		_, err := reg.Create(name)
		require.NoError(t, err)
	}

	assert.Equal(t, []models.CourseDetails{
		{ID: "id-2", Name: "Roast"},
		{ID: "id-1", Name: "Soup"},
		{ID: "id-3", Name: "Soup"},
	}, reg.List())
	assert.Equal(t, 3, reg.Len())
}

func TestRegistry_DuplicateIDRejected(t *testing.T) {
	reg, err := Open(openStore(t), Options{NewID: func() string { return "same" }})
	require.NoError(t, err)

	_, err = reg.Create("a")
	require.NoError(t, err)
	_, err = reg.Create("b")
	assert.Error(t, err)
}

func TestRegistry_ReloadsFromStore(t *testing.T) {
	store := openStore(t)
	reg, err := Open(store, Options{NewID: sequentialIDs()})
	require.NoError(t, err)
	_, err = reg.Create("Dinner")
	require.NoError(t, err)
	_, err = reg.AddStages("id-1", models.NewStage("Rice", "20min"))
	require.NoError(t, err)

	reloaded, err := Open(store, Options{})
	require.NoError(t, err)

	schedule, ok := reloaded.Schedule("id-1")
	require.True(t, ok)
	assert.Equal(t, []models.Stage{{Name: "Rice", Duration: 20 * time.Minute}}, schedule)
}

func TestRegistry_ConcurrentAppends(t *testing.T) {
	reg, err := Open(openStore(t), Options{NewID: sequentialIDs()})
	require.NoError(t, err)
	_, err = reg.Create("Feast")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := reg.AddStages("id-1", models.Stage{Name: fmt.Sprintf("dish-%d", i), Duration: time.Duration(i) * time.Minute})
			assert.NoError(t, err)
			reg.Schedule("id-1")
			reg.List()
		}(i)
	}
	wg.Wait()

	c, _ := reg.Get("id-1")
	assert.Len(t, c.Stages(), 21)
	schedule, _ := reg.Schedule("id-1")
	assert.Len(t, schedule, 20)
}
