package profile

import (
	"context"
	"errors"
)

// ErrNoProfile is returned by Load when no snapshot has been saved.
var ErrNoProfile = errors.New("no client profile saved")

// Store persists the current client profile. Saving replaces the previous
// snapshot; there is no history.
type Store interface {
	Save(ctx context.Context, p *ClientProfile) error
	Load(ctx context.Context) (*ClientProfile, error)
	Clear(ctx context.Context) error
	Close() error
}

// MemoryStore keeps the snapshot in memory for the lifetime of the process.
type MemoryStore struct {
	current *ClientProfile
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Save(_ context.Context, p *ClientProfile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	cp := *p
	m.current = &cp
	return nil
}

func (m *MemoryStore) Load(_ context.Context) (*ClientProfile, error) {
	if m.current == nil {
		return nil, ErrNoProfile
	}
	cp := *m.current
	return &cp, nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.current = nil
	return nil
}

func (m *MemoryStore) Close() error { return nil }
