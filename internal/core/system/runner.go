package system

import "sort"

type entry[T any] struct {
	sys   T
	stage Stage
}

// Runner keeps systems in stage order. Within a stage, systems run in
// registration order.
type Runner[T any] struct {
	entries []entry[T]
}

func NewRunner[T any]() *Runner[T] {
	return &Runner[T]{
		entries: make([]entry[T], 0, 16),
	}
}

// Register inserts s after every system of the same or an earlier stage.
func (r *Runner[T]) Register(s T, stage Stage) {
	i := sort.Search(len(r.entries), func(i int) bool {
		return r.entries[i].stage > stage
	})
	r.entries = append(r.entries, entry[T]{})
	copy(r.entries[i+1:], r.entries[i:])
	r.entries[i] = entry[T]{sys: s, stage: stage}
}

// Each calls fn for every system in order and stops at the first error.
func (r *Runner[T]) Each(fn func(T, Stage) error) error {
	for _, e := range r.entries {
		if err := fn(e.sys, e.stage); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner[T]) Len() int { return len(r.entries) }
