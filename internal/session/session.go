// Package session owns the segment collection a user is editing, the last
// valid evaluation and the client profile. A Session is not safe for
// concurrent use; every operation runs to completion before the next one.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/gasnet/calculator/internal/evaluator"
	"github.com/gasnet/calculator/internal/hydraulics"
	"github.com/gasnet/calculator/internal/logger"
	"github.com/gasnet/calculator/internal/network"
	"github.com/gasnet/calculator/internal/profile"
	"github.com/gasnet/calculator/internal/result"
)

var (
	// ErrNotConfirmed is returned when the gate refuses a destructive action.
	ErrNotConfirmed = errors.New("action not confirmed")
	// ErrSegmentNotFound is returned for an unknown segment id.
	ErrSegmentNotFound = errors.New("segment not found")
)

const (
	promptDeleteSegment = "Are you sure you want to delete this segment?"
	promptClearAll      = "Are you sure you want to delete all data, including client and calculations?"
	promptClearProfile  = "Are you sure you want to clear all client data?"
)

// Notifier receives user-facing notices.
type Notifier func(result.Notice)

// Session is the in-memory workspace behind one calculator user.
type Session struct {
	segments []network.Segment
	eval     *result.Evaluation
	lastErr  error
	hint     *float64
	client   *profile.ClientProfile

	evaluator *evaluator.NetworkEvaluator
	store     profile.Store
	notify    Notifier
	log       *slog.Logger
	newID     func() string
	now       func() time.Time
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithNotifier sets the callback that receives notices.
func WithNotifier(n Notifier) Option {
	return func(s *Session) { s.notify = n }
}

// WithStore sets where the client profile is persisted.
func WithStore(st profile.Store) Option {
	return func(s *Session) { s.store = st }
}

// WithEvaluator replaces the default evaluator.
func WithEvaluator(e *evaluator.NetworkEvaluator) Option {
	return func(s *Session) { s.evaluator = e }
}

// WithIDGenerator replaces the UUID generator used for new segments.
func WithIDGenerator(f func() string) Option {
	return func(s *Session) { s.newID = f }
}

// WithClock replaces time.Now for profile timestamps.
func WithClock(f func() time.Time) Option {
	return func(s *Session) { s.now = f }
}

// New returns an empty session.
func New(opts ...Option) *Session {
	s := &Session{
		eval:   &result.Evaluation{},
		notify: func(result.Notice) {},
		log:    logger.Default,
		newID:  uuid.NewString,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = profile.NewMemoryStore()
	}
	if s.evaluator == nil {
		evOpts := evaluator.DefaultOptions()
		evOpts.Logger = s.log
		s.evaluator = evaluator.New(evOpts)
	}
	return s
}

// Segments returns a copy of the segments in entry order.
func (s *Session) Segments() []network.Segment {
	out := make([]network.Segment, len(s.segments))
	copy(out, s.segments)
	return out
}

// Segment returns the segment with the given id.
func (s *Session) Segment(id string) (network.Segment, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.segments[i], true
	}
	return network.Segment{}, false
}

// Network returns the current segments wrapped as a network definition.
func (s *Session) Network() *network.Network {
	return &network.Network{Segments: s.Segments()}
}

// Evaluation returns the last successful evaluation. It is never nil.
func (s *Session) Evaluation() *result.Evaluation {
	return s.eval
}

// LastError returns the error of the most recent recomputation, if it failed.
func (s *Session) LastError() error {
	return s.lastErr
}

// NextInletHint returns the pressure suggested for the next appended segment.
func (s *Session) NextInletHint() (float64, bool) {
	if s.hint == nil {
		return 0, false
	}
	return *s.hint, true
}

// InletEditable reports whether the inlet pressure is typed by the user for
// the segment being edited (empty id for a new segment). Only the entry
// segment takes a user pressure; the others inherit the hint.
func (s *Session) InletEditable(editingID string) bool {
	if len(s.segments) == 0 {
		return true
	}
	return editingID != "" && s.segments[0].ID == editingID
}

// Add sanitizes, validates and appends a segment, then recomputes the network.
// Rejected segments leave the collection untouched.
func (s *Session) Add(seg network.Segment) (network.Segment, error) {
	seg = network.Sanitize(seg)
	if err := s.check(seg, -1); err != nil {
		return network.Segment{}, err
	}
	if len(s.segments) > 0 && seg.InletPressure == 0 && s.hint != nil {
		seg.InletPressure = *s.hint
	}

	seg.ID = s.newID()
	s.segments = append(s.segments, seg)
	s.emit(result.SeveritySuccess, "Segment added")
	s.log.Info("segment added", "id", seg.ID, "segment", seg.Label(), "segments", len(s.segments))
	_ = s.recalculate()
	return seg, nil
}

// Load appends every segment of n in order and evaluates the network once.
// Failures are collected and the accepted segments are kept. Loaded segments
// without an inlet pressure take the propagated pressure of their start node.
func (s *Session) Load(n *network.Network) error {
	if n == nil {
		return nil
	}
	var errs error
	first := len(s.segments)
	for _, seg := range n.Segments {
		seg = network.Sanitize(seg)
		if err := s.check(seg, -1); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		seg.ID = s.newID()
		s.segments = append(s.segments, seg)
	}

	loaded := s.segments[first:]
	if len(loaded) == 0 {
		return errs
	}
	s.log.Info("segments loaded", "loaded", len(loaded), "rejected", len(multierr.Errors(errs)), "segments", len(s.segments))
	s.emit(result.SeveritySuccess, fmt.Sprintf("%d segments loaded", len(loaded)))
	if err := s.recalculate(); err != nil {
		s.hint = fallbackHint(s.segments)
		return errs
	}
	for i := range loaded {
		if loaded[i].InletPressure != 0 {
			continue
		}
		if p, ok := s.eval.NodePressures[loaded[i].Start]; ok {
			loaded[i].InletPressure = p
		}
	}
	return errs
}

// Edit replaces the segment with the given id, keeping its id and position.
func (s *Session) Edit(id string, seg network.Segment) (network.Segment, error) {
	i := s.indexOf(id)
	if i < 0 {
		return network.Segment{}, ErrSegmentNotFound
	}
	seg = network.Sanitize(seg)
	if err := s.check(seg, i); err != nil {
		return network.Segment{}, err
	}
	if i > 0 && seg.InletPressure == 0 {
		seg.InletPressure = s.segments[i].InletPressure
	}

	seg.ID = id
	s.segments[i] = seg
	s.emit(result.SeveritySuccess, "Segment updated")
	s.log.Info("segment updated", "id", id, "segment", seg.Label())
	_ = s.recalculate()
	return seg, nil
}

// Delete removes a segment once the gate approves it.
func (s *Session) Delete(id string, gate Gate) error {
	i := s.indexOf(id)
	if i < 0 {
		return ErrSegmentNotFound
	}
	if !confirm(gate, promptDeleteSegment) {
		return ErrNotConfirmed
	}

	s.segments = append(s.segments[:i:i], s.segments[i+1:]...)
	s.log.Info("segment deleted", "id", id, "segments", len(s.segments))
	if err := s.recalculate(); err != nil {
		s.hint = fallbackHint(s.segments)
	}
	s.emit(result.SeverityInfo, "Segment deleted")
	return nil
}

// Clear drops every segment, the evaluation and the client profile once the gate approves it.
func (s *Session) Clear(ctx context.Context, gate Gate) error {
	if !confirm(gate, promptClearAll) {
		return ErrNotConfirmed
	}
	if err := s.store.Clear(ctx); err != nil {
		return err
	}
	s.segments = nil
	s.eval = &result.Evaluation{}
	s.lastErr = nil
	s.hint = nil
	s.client = nil
	s.log.Info("session cleared")
	s.emit(result.SeverityInfo, "All data has been deleted")
	return nil
}

// Recalculate re-evaluates the network. On failure the previous evaluation
// is kept and the error is returned.
func (s *Session) Recalculate() error {
	return s.recalculate()
}

func (s *Session) recalculate() error {
	if len(s.segments) == 0 {
		s.eval = &result.Evaluation{}
		s.lastErr = nil
		s.hint = nil
		return nil
	}

	ev, err := s.evaluator.Evaluate(s.segments)
	if err != nil {
		s.lastErr = err
		s.log.Warn("network evaluation failed", "segments", len(s.segments), "error", err)
		s.emit(result.SeverityDanger, err.Error())
		return err
	}
	s.eval = ev
	s.lastErr = nil
	s.hint = ev.NextInletHint
	for _, w := range ev.Warnings {
		s.emit(result.SeverityWarning, w.Message)
	}
	return nil
}

// check runs field validation and the duplicate-edge check, skipping the
// segment at index skip.
func (s *Session) check(seg network.Segment, skip int) error {
	if err := network.ValidateSegment(seg); err != nil {
		s.emit(result.SeverityDanger, err.Error())
		return err
	}
	if len(s.segments) == 0 || skip == 0 {
		if err := network.ValidateInlet(seg); err != nil {
			s.emit(result.SeverityDanger, err.Error())
			return err
		}
	}
	for i, existing := range s.segments {
		if i != skip && existing.SameEdge(seg) {
			err := &network.DuplicateEdgeError{Start: seg.Start, End: seg.End}
			s.emit(result.SeverityWarning, err.Error())
			return err
		}
	}
	return nil
}

func (s *Session) indexOf(id string) int {
	for i := range s.segments {
		if s.segments[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Session) emit(sev result.Severity, msg string) {
	s.notify(result.Notice{Severity: sev, Message: msg})
}

// fallbackHint derives the hint from the last stored segment when the
// network cannot be evaluated.
func fallbackHint(segments []network.Segment) *float64 {
	if len(segments) == 0 {
		return nil
	}
	last := segments[len(segments)-1]
	le := hydraulics.EquivalentLength(last.Length)
	hint := hydraulics.OutletPressure(last.InletPressure, hydraulics.PressureLoss(last.Flow, le, last.Diameter))
	return &hint
}
