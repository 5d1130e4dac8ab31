// Package sampler records fixed-timestep simulation snapshots into an ordered,
// indexable sequence.
//
// A Sequence is filled once by Run and is read-only afterwards; insertion order
// is chronological order. Run always records the initial sample, so a
// Sequence returned without error is never empty.
package sampler

import (
	"iter"

	"github.com/cxd309/flight-engine/internal/simerr"
)

// Sequence is an append-only list of samples.
type Sequence[T any] struct {
	samples []T
}

// Len returns the number of recorded samples.
func (s Sequence[T]) Len() int { return len(s.samples) }

// At returns the i-th sample. ok is false when i is out of range.
func (s Sequence[T]) At(i int) (sample T, ok bool) {
	if i < 0 || i >= len(s.samples) {
		return sample, false
	}
	return s.samples[i], true
}

// First returns the initial sample.
func (s Sequence[T]) First() (T, bool) { return s.At(0) }

// Last returns the most recent sample.
func (s Sequence[T]) Last() (T, bool) { return s.At(len(s.samples) - 1) }

// Slice returns a copy of the samples.
func (s Sequence[T]) Slice() []T {
	out := make([]T, len(s.samples))
	copy(out, s.samples)
	return out
}

// All yields (index, sample) pairs in chronological order.
func (s Sequence[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, v := range s.samples {
			if !yield(i, v) {
				return
			}
		}
	}
}

// Step advances the simulation by one timestep. It returns the samples produced
// by the step (usually one; zero or more at phase boundaries) and whether the
// simulation has reached its termination condition.
type Step[T any] func(step int) (samples []T, done bool, err error)

// Run records first, then calls step until it reports done. When maxSteps calls
// have been made without completion, the partial sequence is returned together
// with an ErrBudgetExceeded error; timeOf reports the simulated time of a sample
// for that error.
func Run[T any](op string, first T, maxSteps int, timeOf func(T) float64, step Step[T]) (Sequence[T], error) {
	seq := Sequence[T]{samples: make([]T, 0, min(maxSteps, 1<<14)+1)}
	seq.samples = append(seq.samples, first)

	for i := 1; i <= maxSteps; i++ {
		samples, done, err := step(i)
		if err != nil {
			return seq, err
		}
		seq.samples = append(seq.samples, samples...)
		if done {
			return seq, nil
		}
	}

	last, _ := seq.Last()
	return seq, simerr.Budget(op, maxSteps, timeOf(last), "no termination after %d steps", maxSteps)
}
