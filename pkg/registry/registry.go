// Package registry keeps the live courses keyed by generated identifiers.
// Every operation takes the lock for a single lookup, insert or append;
// schedules are computed from a snapshot after the lock is released.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/korjavin/mealclock/pkg/course"
	"github.com/korjavin/mealclock/pkg/logger"
	"github.com/korjavin/mealclock/pkg/models"
	"github.com/korjavin/mealclock/pkg/storage"
)

const keyPrefix = "course:"

// ErrUnknownCourse is returned when an identifier does not name a course
var ErrUnknownCourse = errors.New("unknown course")

// Options tunes course creation
type Options struct {
	// SeedFromName adds one placeholder stage per word of the course name,
	// 30s for the first and 20s more for each following word.
	SeedFromName bool
	// NewID generates course identifiers; defaults to random UUIDs.
	NewID func() string
	// Now is the clock used for record timestamps.
	Now func() time.Time
}

type entry struct {
	course    *course.Course
	createdAt time.Time
	updatedAt time.Time
}

// Registry is a concurrency-safe set of courses backed by a Store
type Registry struct {
	mu      sync.Mutex
	courses map[string]*entry
	store   *storage.Store
	opts    Options
	logger  *logger.Logger
}

// Open creates a registry and loads any courses already in the store
func Open(store *storage.Store, opts Options) (*Registry, error) {
	if opts.NewID == nil {
		opts.NewID = func() string { return uuid.New().String() }
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	r := &Registry{
		courses: make(map[string]*entry),
		store:   store,
		opts:    opts,
		logger:  logger.New("registry"),
	}

	keys, err := store.List(keyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	for _, key := range keys {
		var rec models.CourseRecord
		if err := store.Get(key, &rec); err != nil {
			r.logger.Error("Failed to load course %s: %v", key, err)
			continue
		}
		r.courses[rec.Details.ID] = &entry{
			course:    course.FromRecord(rec),
			createdAt: rec.CreatedAt,
			updatedAt: rec.UpdatedAt,
		}
	}
	if len(r.courses) > 0 {
		r.logger.Info("Loaded %d courses from storage", len(r.courses))
	}

	return r, nil
}

// Create registers a new course under a fresh identifier
func (r *Registry) Create(name string) (models.CourseDetails, error) {
	details := models.CourseDetails{ID: r.opts.NewID(), Name: name}

	c := course.New(details)
	if r.opts.SeedFromName {
		for i, word := range strings.Fields(name) {
			c.AddText(word, fmt.Sprintf("%ds", 30+i*20))
		}
	}

	now := r.opts.Now()
	e := &entry{course: c, createdAt: now, updatedAt: now}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.courses[details.ID]; exists {
		return models.CourseDetails{}, fmt.Errorf("course id %s already in use", details.ID)
	}
	if err := r.persist(e); err != nil {
		return models.CourseDetails{}, err
	}
	r.courses[details.ID] = e

	r.logger.Info("Created course %q (%s)", name, details.ID)
	return details, nil
}

// Get returns a snapshot of the course, or false if there is none
func (r *Registry) Get(id string) (*course.Course, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.courses[id]
	if !ok {
		return nil, false
	}
	return e.course.Clone(), true
}

// AddStages appends stages to a course and returns its new schedule
func (r *Registry) AddStages(id string, stages ...models.Stage) ([]models.Stage, error) {
	snapshot, err := r.append(id, stages)
	if err != nil {
		return []models.Stage{}, err
	}
	return snapshot.Schedule(), nil
}

func (r *Registry) append(id string, stages []models.Stage) (*course.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.courses[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCourse, id)
	}

	updated := e.course.Clone()
	for _, s := range stages {
		updated.Add(s)
	}
	next := &entry{course: updated, createdAt: e.createdAt, updatedAt: r.opts.Now()}
	if err := r.persist(next); err != nil {
		return nil, err
	}
	r.courses[id] = next

	return updated.Clone(), nil
}

// Schedule returns the countdown for a course, or false if there is none
func (r *Registry) Schedule(id string) ([]models.Stage, bool) {
	c, ok := r.Get(id)
	if !ok {
		return []models.Stage{}, false
	}
	return c.Schedule(), true
}

// List returns every course ordered by name, then identifier
func (r *Registry) List() []models.CourseDetails {
	r.mu.Lock()
	list := make([]models.CourseDetails, 0, len(r.courses))
	for _, e := range r.courses {
		list = append(list, e.course.Details())
	}
	r.mu.Unlock()

	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
	return list
}

// Len returns the number of registered courses
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.courses)
}

// persist must be called with r.mu held
func (r *Registry) persist(e *entry) error {
	rec := e.course.Record()
	rec.CreatedAt = e.createdAt
	rec.UpdatedAt = e.updatedAt

	if err := r.store.Set(keyPrefix+rec.Details.ID, rec); err != nil {
		return fmt.Errorf("failed to store course %s: %w", rec.Details.ID, err)
	}
	return nil
}
