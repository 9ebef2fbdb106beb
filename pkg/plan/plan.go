// Package plan reads course descriptions from YAML files.
//
//	name: Sunday roast
//	stages:
//	  - {name: Gravy, duration: 2min}
//	chains:
//	  - - {name: Duck crown, duration: 1h 15min}
//	    - {name: Duck legs, duration: 15min}
//
// Stages are lead-times before serving. Each chain lists dependent steps
// first to last and is converted to lead-times before being added.
package plan

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/korjavin/mealclock/pkg/course"
	"github.com/korjavin/mealclock/pkg/models"
	"gopkg.in/yaml.v3"
)

// File is the YAML layout of a course
type File struct {
	Name   string   `yaml:"name"`
	Stages []Step   `yaml:"stages"`
	Chains [][]Step `yaml:"chains"`
}

// Step is one named duration in a file
type Step struct {
	Name     string `yaml:"name"`
	Duration string `yaml:"duration"`
}

func (s Step) stage() models.Stage {
	return models.NewStage(s.Name, s.Duration)
}

// Load decodes a course from r
func Load(r io.Reader) (*course.Course, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty plan")
		}
		return nil, fmt.Errorf("failed to decode plan: %w", err)
	}
	return f.Course(), nil
}

// LoadFile reads a course from a YAML file
func LoadFile(path string) (*course.Course, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open plan: %w", err)
	}
	defer fh.Close()

	return Load(fh)
}

// Course builds the course the file describes
func (f File) Course() *course.Course {
	c := course.New(models.CourseDetails{ID: f.Name, Name: f.Name})
	for _, s := range f.Stages {
		c.Add(s.stage())
	}
	for _, chain := range f.Chains {
		links := make([]models.Stage, len(chain))
		for i, s := range chain {
			links[i] = s.stage()
		}
		for _, s := range course.Chain(links) {
			c.Add(s)
		}
	}
	return c
}
