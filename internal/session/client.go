package session

import (
	"context"
	"errors"

	"github.com/gasnet/calculator/internal/profile"
	"github.com/gasnet/calculator/internal/result"
)

// Profile returns the current client profile, or nil.
func (s *Session) Profile() *profile.ClientProfile {
	return s.client
}

// SetProfile validates, timestamps and persists the client profile.
func (s *Session) SetProfile(ctx context.Context, p profile.ClientProfile) error {
	p.Timestamp = s.now().UTC()
	if err := s.store.Save(ctx, &p); err != nil {
		s.emit(result.SeverityDanger, err.Error())
		return err
	}
	s.client = &p
	s.emit(result.SeveritySuccess, "Client data saved")
	return nil
}

// LoadProfile restores the persisted profile, if any.
func (s *Session) LoadProfile(ctx context.Context) error {
	p, err := s.store.Load(ctx)
	if errors.Is(err, profile.ErrNoProfile) {
		return nil
	}
	if err != nil {
		return err
	}
	s.client = p
	return nil
}

// ClearProfile forgets the client profile once the gate approves it.
func (s *Session) ClearProfile(ctx context.Context, gate Gate) error {
	if !confirm(gate, promptClearProfile) {
		return ErrNotConfirmed
	}
	if err := s.store.Clear(ctx); err != nil {
		return err
	}
	s.client = nil
	s.emit(result.SeverityInfo, "Client data cleared")
	return nil
}
