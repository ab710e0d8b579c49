package indirect

import "time"

// Observer receives evaluation events from a resolution. Callbacks run
// synchronously on the resolving goroutine.
type Observer[K comparable] interface {
	// OnEvaluate is called when a field's definition starts running.
	OnEvaluate(key K)
	// OnRead is called when the definition of from reads to, whether or not
	// to was already evaluated.
	OnRead(from, to K)
	// OnDone is called when a field's definition returns.
	OnDone(key K, d time.Duration, err error)
}

// Edge records that the definition of From read field To.
type Edge[K comparable] struct {
	From K
	To   K
}

// Trace is an Observer that records what a resolution did. It is meant for
// diagnostics; attach a fresh Trace per resolution.
type Trace[K comparable] struct {
	// Order lists fields in the order their definitions started.
	Order []K
	// Edges lists distinct reads in first-seen order.
	Edges []Edge[K]
	// Durations holds the wall time of each definition, including the time
	// spent evaluating the fields it read.
	Durations map[K]time.Duration
	// Errors holds the error of each failed definition.
	Errors map[K]error

	seen map[Edge[K]]bool
}

// NewTrace returns an empty Trace.
func NewTrace[K comparable]() *Trace[K] {
	return &Trace[K]{
		Durations: make(map[K]time.Duration),
		Errors:    make(map[K]error),
		seen:      make(map[Edge[K]]bool),
	}
}

func (t *Trace[K]) OnEvaluate(key K) {
	t.Order = append(t.Order, key)
}

func (t *Trace[K]) OnRead(from, to K) {
	e := Edge[K]{From: from, To: to}
	if t.seen[e] {
		return
	}
	t.seen[e] = true
	t.Edges = append(t.Edges, e)
}

func (t *Trace[K]) OnDone(key K, d time.Duration, err error) {
	t.Durations[key] = d
	if err != nil {
		t.Errors[key] = err
	}
}

// Dependencies returns the fields read by key's definition, in read order.
func (t *Trace[K]) Dependencies(key K) []K {
	var deps []K
	for _, e := range t.Edges {
		if e.From == key {
			deps = append(deps, e.To)
		}
	}
	return deps
}

var _ Observer[string] = (*Trace[string])(nil)
