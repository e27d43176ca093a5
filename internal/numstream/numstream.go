// Package numstream provides the sequential, exhaustible supply of uniform
// numbers that drives a simulation.
package numstream

import (
	"errors"
	"fmt"
)

// DrawsPerRound is the empirical number of draws one round consumes.
const DrawsPerRound = 55

// ErrExhausted is returned by Next once every value has been consumed.
var ErrExhausted = errors.New("number stream exhausted")

// Stream is a sequential supply of floats in [0,1).
type Stream interface {
	// Next returns the next value, or ErrExhausted when none remain.
	Next() (float64, error)
	// Remaining reports how many values are left.
	Remaining() int
}

// Slice is a Stream over an in-memory sequence. It is not safe for
// concurrent use; the simulation reads it from a single goroutine.
type Slice struct {
	values []float64
	pos    int
}

// NewSlice returns a stream over values. The slice is not copied.
func NewSlice(values []float64) *Slice {
	return &Slice{values: values}
}

// Next implements Stream.
func (s *Slice) Next() (float64, error) {
	if s.pos >= len(s.values) {
		return 0, fmt.Errorf("%w after %d draws", ErrExhausted, s.pos)
	}
	v := s.values[s.pos]
	s.pos++
	return v, nil
}

// Remaining implements Stream.
func (s *Slice) Remaining() int {
	return len(s.values) - s.pos
}

// Consumed reports how many values have been read.
func (s *Slice) Consumed() int {
	return s.pos
}

// Len is the total length of the underlying sequence.
func (s *Slice) Len() int {
	return len(s.values)
}

// Required returns the number of draws needed for the given run size.
func Required(games, roundsPerGame int) int {
	return games * roundsPerGame * DrawsPerRound
}

// Feasible reports whether available draws can cover the run.
func Feasible(available, games, roundsPerGame int) bool {
	return available >= Required(games, roundsPerGame)
}

// Values returns the underlying sequence, including consumed values.
func (s *Slice) Values() []float64 {
	return s.values
}
