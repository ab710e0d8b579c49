package indirect

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"time"
)

// Func computes one field's value. It may read any field of the definition
// set, itself excluded, through v.
type Func[K comparable, V any] func(v *View[K, V]) (V, error)

// Definition binds a key to the function that computes it.
type Definition[K comparable, V any] struct {
	Key K
	Fn  Func[K, V]
}

// Define is shorthand for a Definition literal.
func Define[K comparable, V any](key K, fn Func[K, V]) Definition[K, V] {
	return Definition[K, V]{Key: key, Fn: fn}
}

// Const returns a definition function that ignores the view and yields val.
func Const[K comparable, V any](val V) Func[K, V] {
	return func(*View[K, V]) (V, error) { return val, nil }
}

// Resolver holds an ordered definition set. It carries no evaluation state:
// every call to Resolve builds fresh cells, so a Resolver may be reused and
// shared between goroutines once all definitions are added.
//
// The zero value is not usable; create one with [New].
type Resolver[K comparable, V any] struct {
	defs     []Definition[K, V]
	index    map[K]int
	dups     []K
	observer Observer[K]
}

// New returns a Resolver holding defs in the given order.
func New[K comparable, V any](defs ...Definition[K, V]) *Resolver[K, V] {
	r := &Resolver[K, V]{index: make(map[K]int, len(defs))}
	for _, d := range defs {
		r.Define(d.Key, d.Fn)
	}
	return r
}

// Define appends a definition for key. Defining the same key twice is
// reported by Resolve as ErrDuplicateField.
func (r *Resolver[K, V]) Define(key K, fn Func[K, V]) *Resolver[K, V] {
	if _, ok := r.index[key]; ok {
		r.dups = append(r.dups, key)
		return r
	}
	r.index[key] = len(r.defs)
	r.defs = append(r.defs, Definition[K, V]{Key: key, Fn: fn})
	return r
}

// WithObserver attaches o to every subsequent resolution. Pass nil to detach.
func (r *Resolver[K, V]) WithObserver(o Observer[K]) *Resolver[K, V] {
	r.observer = o
	return r
}

// Keys returns the defined keys in declaration order.
func (r *Resolver[K, V]) Keys() []K {
	keys := make([]K, len(r.defs))
	for i, d := range r.defs {
		keys[i] = d.Key
	}
	return keys
}

// Len returns the number of defined fields.
func (r *Resolver[K, V]) Len() int { return len(r.defs) }

// Resolve evaluates every field and returns the values keyed by field.
func (r *Resolver[K, V]) Resolve() (map[K]V, error) {
	rec, err := r.ResolveOrdered()
	if err != nil {
		return nil, err
	}
	return rec.values, nil
}

// ResolveOrdered is like Resolve but keeps the declaration order.
func (r *Resolver[K, V]) ResolveOrdered() (*Record[K, V], error) {
	if err := r.validate(); err != nil {
		return nil, err
	}

	v := r.view()
	rec := &Record[K, V]{
		keys:   r.Keys(),
		values: make(map[K]V, len(r.defs)),
	}
	for _, d := range r.defs {
		val, err := v.Get(d.Key)
		if err != nil {
			return nil, err
		}
		rec.values[d.Key] = val
	}
	return rec, nil
}

func (r *Resolver[K, V]) validate() error {
	if len(r.dups) > 0 {
		return fmt.Errorf("%w: %v", ErrDuplicateField, r.dups[0])
	}
	for _, d := range r.defs {
		if d.Fn == nil {
			return fmt.Errorf("%w: %v", ErrNilDefinition, d.Key)
		}
	}
	return nil
}

func (r *Resolver[K, V]) view() *View[K, V] {
	v := &View[K, V]{
		cells:    make(map[K]*cell[K, V], len(r.defs)),
		keys:     r.Keys(),
		observer: r.observer,
	}
	for _, d := range r.defs {
		v.cells[d.Key] = &cell[K, V]{fn: d.Fn}
	}
	return v
}

// Resolve evaluates defs in one shot. See [Resolver.Resolve].
func Resolve[K comparable, V any](defs ...Definition[K, V]) (map[K]V, error) {
	return New(defs...).Resolve()
}

// ResolveMap evaluates a map of definitions, forcing fields in ascending
// key order since maps carry no declaration order.
func ResolveMap[K cmp.Ordered, V any](defs map[K]Func[K, V]) (map[K]V, error) {
	r := New[K, V]()
	for _, k := range slices.Sorted(maps.Keys(defs)) {
		r.Define(k, defs[k])
	}
	return r.Resolve()
}

// Record is a resolved field set that remembers declaration order.
type Record[K comparable, V any] struct {
	keys   []K
	values map[K]V
}

// Keys returns the field keys in declaration order.
func (r *Record[K, V]) Keys() []K { return slices.Clone(r.keys) }

// Get returns the value of key and whether it exists.
func (r *Record[K, V]) Get(key K) (V, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Len returns the number of fields.
func (r *Record[K, V]) Len() int { return len(r.keys) }

// Map returns a copy of the values keyed by field.
func (r *Record[K, V]) Map() map[K]V { return maps.Clone(r.values) }

type state uint8

const (
	unevaluated state = iota
	evaluating
	evaluated
	failed
)

type cell[K comparable, V any] struct {
	fn    Func[K, V]
	state state
	value V
	err   error
}

// View is the handle every definition receives. It gives read access to all
// fields of the current resolution, evaluating them on first read.
type View[K comparable, V any] struct {
	cells    map[K]*cell[K, V]
	keys     []K
	stack    []K
	observer Observer[K]
}

// Keys returns the keys of the definition set in declaration order.
func (v *View[K, V]) Keys() []K { return slices.Clone(v.keys) }

// Has reports whether key belongs to the definition set.
func (v *View[K, V]) Has(key K) bool {
	_, ok := v.cells[key]
	return ok
}

// Get returns the value of key, running its definition if it has not run
// yet in this resolution.
func (v *View[K, V]) Get(key K) (V, error) {
	var zero V
	c, ok := v.cells[key]
	if !ok {
		return zero, &UnknownFieldError[K]{Key: key}
	}
	if n := len(v.stack); n > 0 && v.observer != nil {
		v.observer.OnRead(v.stack[n-1], key)
	}

	switch c.state {
	case evaluated:
		return c.value, nil
	case failed:
		return zero, c.err
	case evaluating:
		return zero, v.cycle(key)
	}

	c.state = evaluating
	v.stack = append(v.stack, key)
	if v.observer != nil {
		v.observer.OnEvaluate(key)
	}
	start := time.Now()

	val, err := v.run(c.fn)
	v.stack = v.stack[:len(v.stack)-1]

	if err != nil {
		if !attributed[K](err) {
			err = &FieldError[K]{Key: key, Err: err}
		}
		c.state, c.err = failed, err
		val = zero
	} else {
		c.state, c.value = evaluated, val
	}
	if v.observer != nil {
		v.observer.OnDone(key, time.Since(start), err)
	}
	return val, err
}

// MustGet is like Get but panics on error. The panic is recovered by the
// enclosing definition call and returned as that definition's error, so it
// is safe to use in definitions that have no other failure path.
func (v *View[K, V]) MustGet(key K) V {
	val, err := v.Get(key)
	if err != nil {
		panic(mustGetPanic{err})
	}
	return val
}

type mustGetPanic struct{ err error }

func (v *View[K, V]) run(fn Func[K, V]) (val V, err error) {
	defer func() {
		if r := recover(); r != nil {
			p, ok := r.(mustGetPanic)
			if !ok {
				panic(r)
			}
			err = p.err
		}
	}()
	return fn(v)
}

func (v *View[K, V]) cycle(key K) error {
	start := slices.Index(v.stack, key)
	path := append(slices.Clone(v.stack[start:]), key)
	return &CycleError[K]{Path: path}
}

// Get reads key from a heterogeneous view and asserts its type.
func Get[T any, K comparable](v *View[K, any], key K) (T, error) {
	var zero T
	raw, err := v.Get(key)
	if err != nil {
		return zero, err
	}
	if raw == nil {
		return zero, nil
	}
	val, ok := raw.(T)
	if !ok {
		return zero, &TypeError[K]{Key: key, Want: fmt.Sprintf("%T", zero), Got: raw}
	}
	return val, nil
}

// Field reads key from a resolved heterogeneous map and asserts its type.
// A missing key or nil value yields the zero value of T.
func Field[T any, K comparable](rec map[K]any, key K) (T, error) {
	var zero T
	raw, ok := rec[key]
	if !ok || raw == nil {
		return zero, nil
	}
	val, ok := raw.(T)
	if !ok {
		return zero, &TypeError[K]{Key: key, Want: fmt.Sprintf("%T", zero), Got: raw}
	}
	return val, nil
}

// Reader reads typed fields from a resolved heterogeneous map and keeps the
// first type error. Reads after an error return zero values.
type Reader[K comparable] struct {
	rec map[K]any
	err error
}

// NewReader returns a Reader over rec.
func NewReader[K comparable](rec map[K]any) *Reader[K] {
	return &Reader[K]{rec: rec}
}

// Err returns the first error encountered by [Read].
func (r *Reader[K]) Err() error { return r.err }

// Read is [Field] through r.
func Read[T any, K comparable](r *Reader[K], key K) T {
	var zero T
	if r.err != nil {
		return zero
	}
	v, err := Field[T](r.rec, key)
	r.err = err
	return v
}
