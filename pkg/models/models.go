package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/korjavin/mealclock/pkg/duration"
)

// ServingStage names the implicit terminal stage every course counts down to
const ServingStage = "Serving"

// Stage is a named action with a duration. Stored in a course the duration
// is the lead-time before serving; in a schedule it is the wait before the
// next action starts.
type Stage struct {
	Name     string
	Duration time.Duration
}

// NewStage builds a stage from a human duration such as "1h 15min".
// Unparseable text gives a zero duration.
func NewStage(name, durationText string) Stage {
	return Stage{
		Name:     name,
		Duration: duration.Parse(durationText),
	}
}

// FormatStage renders a stage as "<duration> -- <name>"
func FormatStage(s Stage) string {
	return fmt.Sprintf("%s -- %s", duration.Format(s.Duration), s.Name)
}

func (s Stage) String() string {
	return FormatStage(s)
}

// WireDuration is the {"secs","nanos"} shape used on the wire
type WireDuration struct {
	Secs  uint64 `json:"secs"`
	Nanos uint32 `json:"nanos"`
}

// ToWire splits d into whole seconds and the nanosecond remainder
func ToWire(d time.Duration) WireDuration {
	if d < 0 {
		d = 0
	}
	return WireDuration{
		Secs:  uint64(d / time.Second),
		Nanos: uint32(d % time.Second),
	}
}

// maxWireSecs is the largest whole-second count a time.Duration can hold
const maxWireSecs = uint64(math.MaxInt64 / int64(time.Second))

// ErrDurationRange is returned for wire durations time.Duration cannot hold
var ErrDurationRange = errors.New("duration out of range")

// Duration converts back to a time.Duration
func (w WireDuration) Duration() (time.Duration, error) {
	if w.Nanos >= uint32(time.Second) {
		return 0, fmt.Errorf("%w: nanos %d", ErrDurationRange, w.Nanos)
	}
	if w.Secs > maxWireSecs {
		return 0, fmt.Errorf("%w: secs %d", ErrDurationRange, w.Secs)
	}
	d := time.Duration(w.Secs)*time.Second + time.Duration(w.Nanos)
	if d < 0 {
		return 0, fmt.Errorf("%w: secs %d nanos %d", ErrDurationRange, w.Secs, w.Nanos)
	}
	return d, nil
}

type stageJSON struct {
	Name     string          `json:"name"`
	Duration json.RawMessage `json:"duration"`
}

// MarshalJSON encodes the duration as {"secs","nanos"}
func (s Stage) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name     string       `json:"name"`
		Duration WireDuration `json:"duration"`
	}{s.Name, ToWire(s.Duration)})
}

// UnmarshalJSON accepts the duration as {"secs","nanos"}, as text ("10min")
// or as whole seconds. Text goes through the lenient parser.
func (s *Stage) UnmarshalJSON(data []byte) error {
	var raw stageJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode stage: %w", err)
	}

	s.Name = raw.Name
	s.Duration = 0

	body := bytes.TrimSpace(raw.Duration)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil
	}

	switch body[0] {
	case '"':
		var text string
		if err := json.Unmarshal(body, &text); err != nil {
			return fmt.Errorf("failed to decode stage duration: %w", err)
		}
		s.Duration = duration.Parse(text)
	case '{':
		var wire WireDuration
		if err := json.Unmarshal(body, &wire); err != nil {
			return fmt.Errorf("failed to decode stage duration: %w", err)
		}
		d, err := wire.Duration()
		if err != nil {
			return fmt.Errorf("failed to decode stage duration: %w", err)
		}
		s.Duration = d
	default:
		var secs uint64
		if err := json.Unmarshal(body, &secs); err != nil {
			return fmt.Errorf("failed to decode stage duration: %w", err)
		}
		d, err := WireDuration{Secs: secs}.Duration()
		if err != nil {
			return fmt.Errorf("failed to decode stage duration: %w", err)
		}
		s.Duration = d
	}

	return nil
}

// CourseDetails identifies a course
type CourseDetails struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CourseRecord is the stored form of a course
type CourseRecord struct {
	Details   CourseDetails `json:"details"`
	Stages    []Stage       `json:"stages"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
