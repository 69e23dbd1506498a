// Package store holds observable value cells and their persisted variants.
//
// A Value notifies subscribers synchronously, in subscription order, with
// the current value on Subscribe and then on every change. Persistent
// values additionally write each change through to a Backend before any
// subscriber hears about it.
package store

import (
	"slices"
	"sync"
)

// Readable is the read side shared by every cell.
type Readable[T any] interface {
	Get() T
	Subscribe(fn func(T)) (unsubscribe func())
}

type subscription[T any] struct {
	fn func(T)
}

// Value is an in-memory observable cell. The zero value holds the zero T.
type Value[T any] struct {
	mu   sync.Mutex
	cur  T
	subs []*subscription[T]
}

// NewValue returns a cell seeded with initial.
func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{cur: initial}
}

func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cur
}

func (v *Value[T]) Set(x T) {
	_ = v.set(func(T) T { return x }, nil, nil)
}

func (v *Value[T]) Update(fn func(T) T) {
	_ = v.set(fn, nil, nil)
}

// Subscribe calls fn with the current value right away and again after
// every change until the returned func is called.
func (v *Value[T]) Subscribe(fn func(T)) func() {
	s := &subscription[T]{fn: fn}
	v.mu.Lock()
	v.subs = append(v.subs, s)
	cur := v.cur
	v.mu.Unlock()

	fn(cur)

	var once sync.Once
	return func() {
		once.Do(func() {
			v.mu.Lock()
			defer v.mu.Unlock()
			v.subs = slices.DeleteFunc(v.subs, func(o *subscription[T]) bool { return o == s })
		})
	}
}

// set applies fn and runs commit while still holding the lock so that the
// durable copy never lags the in-memory one. after and then the subscribers
// run once the lock is released, so they may read the cell.
func (v *Value[T]) set(fn func(T) T, commit func(T) error, after func(T)) error {
	v.mu.Lock()
	next := fn(v.cur)
	v.cur = next
	var err error
	if commit != nil {
		err = commit(next)
	}
	subs := slices.Clone(v.subs)
	v.mu.Unlock()

	if after != nil {
		after(next)
	}
	for _, s := range subs {
		s.fn(next)
	}
	return err
}

// Derive2 returns a cell recomputed from a and b whenever either changes.
func Derive2[A, B, R any](a Readable[A], b Readable[B], fn func(A, B) R) *Value[R] {
	out := NewValue(fn(a.Get(), b.Get()))
	recompute := func() { out.Set(fn(a.Get(), b.Get())) }
	a.Subscribe(func(A) { recompute() })
	b.Subscribe(func(B) { recompute() })
	return out
}
