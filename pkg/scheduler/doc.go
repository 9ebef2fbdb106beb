// Package scheduler turns a course's absolute lead-times into a countdown:
// an ordered list of how long to wait after starting one action before the
// next one must start. It never touches the stages it is given.
package scheduler
