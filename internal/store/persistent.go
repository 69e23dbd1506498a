package store

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// Backend is synchronous key/value durable storage holding JSON text.
type Backend interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// Persistent is a Value written through to a Backend on every change.
// With a nil Backend it behaves like a plain Value and performs no I/O.
type Persistent[T any] struct {
	val        *Value[T]
	backend    Backend
	key        string
	afterWrite func(T)
	log        *zap.Logger
}

type Option[T any] func(*Persistent[T])

// WithAfterWrite runs hook after every change has been written and before
// subscribers are notified. The hook may read the cell.
func WithAfterWrite[T any](hook func(T)) Option[T] {
	return func(p *Persistent[T]) { p.afterWrite = hook }
}

func WithLogger[T any](l *zap.Logger) Option[T] {
	return func(p *Persistent[T]) {
		if l != nil {
			p.log = l
		}
	}
}

// NewPersistent seeds the cell from backend[key] when present and decodable,
// otherwise from initial. Only a failing backend read is an error; a stored
// value that no longer decodes as T is logged and replaced by initial.
func NewPersistent[T any](backend Backend, key string, initial T, opts ...Option[T]) (*Persistent[T], error) {
	p := &Persistent[T]{backend: backend, key: key, log: zap.NewNop()}
	for _, o := range opts {
		o(p)
	}

	seed := initial
	if backend != nil {
		raw, ok, err := backend.Get(key)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", key, err)
		}
		if ok {
			var stored T
			if err := json.Unmarshal([]byte(raw), &stored); err != nil {
				p.log.Warn("ignoring undecodable stored value",
					zap.String("key", key), zap.Error(err))
			} else {
				seed = stored
			}
		}
	}
	p.val = NewValue(seed)
	return p, nil
}

func (p *Persistent[T]) Key() string { return p.key }

func (p *Persistent[T]) Get() T { return p.val.Get() }

func (p *Persistent[T]) Subscribe(fn func(T)) func() { return p.val.Subscribe(fn) }

// Set stores x in memory and durably. A failed write is returned, but the
// in-memory value and subscribers still see x.
func (p *Persistent[T]) Set(x T) error {
	return p.val.set(func(T) T { return x }, p.commit, p.afterWrite)
}

func (p *Persistent[T]) Update(fn func(T) T) error {
	return p.val.set(fn, p.commit, p.afterWrite)
}

func (p *Persistent[T]) commit(x T) error {
	err := p.write(x)
	if err != nil {
		p.log.Error("persist failed", zap.String("key", p.key), zap.Error(err))
	}
	return err
}

func (p *Persistent[T]) write(x T) error {
	if p.backend == nil {
		return nil
	}
	b, err := json.Marshal(x)
	if err != nil {
		return fmt.Errorf("json marshal %s: %w", p.key, err)
	}
	if err := p.backend.Set(p.key, string(b)); err != nil {
		return fmt.Errorf("write %s: %w", p.key, err)
	}
	return nil
}
