package store

import "go.uber.org/zap"

// Theme is the persisted dark-mode flag. Every change is applied through
// the apply hook once it has been written; construction applies the seed.
type Theme struct {
	*Persistent[bool]
}

func NewTheme(backend Backend, apply func(dark bool), log *zap.Logger) (*Theme, error) {
	if apply == nil {
		apply = func(bool) {}
	}
	p, err := NewPersistent(backend, KeyDarkMode, false,
		WithAfterWrite(apply), WithLogger[bool](log))
	if err != nil {
		return nil, err
	}
	apply(p.Get())
	return &Theme{Persistent: p}, nil
}

func (t *Theme) Dark() bool { return t.Get() }

func (t *Theme) Toggle() error {
	return t.Update(func(dark bool) bool { return !dark })
}
