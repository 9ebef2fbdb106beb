// Package course holds the Course aggregate and the chain linker that turns
// dependent sub-steps into lead-times.
package course

import (
	"slices"
	"time"

	"github.com/korjavin/mealclock/pkg/duration"
	"github.com/korjavin/mealclock/pkg/logger"
	"github.com/korjavin/mealclock/pkg/models"
	"github.com/korjavin/mealclock/pkg/scheduler"
)

var log = logger.New("course")

// Course is a named set of stages that all finish at the same instant
type Course struct {
	details models.CourseDetails
	stages  []models.Stage
}

// New creates a course containing only the zero-length Serving stage
func New(details models.CourseDetails) *Course {
	return &Course{
		details: details,
		stages:  []models.Stage{{Name: models.ServingStage}},
	}
}

// FromRecord rebuilds a course from its stored form
func FromRecord(rec models.CourseRecord) *Course {
	return &Course{
		details: rec.Details,
		stages:  slices.Clone(rec.Stages),
	}
}

// Record returns the stored form of the course
func (c *Course) Record() models.CourseRecord {
	return models.CourseRecord{
		Details: c.details,
		Stages:  slices.Clone(c.stages),
	}
}

// Details returns the course identity and name
func (c *Course) Details() models.CourseDetails {
	return c.details
}

// Name returns the display name
func (c *Course) Name() string {
	return c.details.Name
}

// Add appends a stage. Duplicates are fine and order is not enforced.
func (c *Course) Add(stage models.Stage) {
	log.Debug("Add %q (%s) to course %q", stage.Name, duration.Format(stage.Duration), c.details.Name)
	c.stages = append(c.stages, stage)
}

// AddText parses durationText and appends the resulting stage
func (c *Course) AddText(name, durationText string) models.Stage {
	stage := models.NewStage(name, durationText)
	c.Add(stage)
	return stage
}

// Stages returns a copy of the stored stages in insertion order
func (c *Course) Stages() []models.Stage {
	return slices.Clone(c.stages)
}

// Schedule returns the countdown for this course without modifying it
func (c *Course) Schedule() []models.Stage {
	return scheduler.Schedule(c.stages)
}

// LeadTime is the longest lead-time in the course
func (c *Course) LeadTime() time.Duration {
	var longest time.Duration
	for _, s := range c.stages {
		longest = max(longest, s.Duration)
	}
	return longest
}

// Clone returns an independent copy
func (c *Course) Clone() *Course {
	return &Course{
		details: c.details,
		stages:  slices.Clone(c.stages),
	}
}
