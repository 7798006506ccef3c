package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/gasnet/calculator/internal/dependency"
	"github.com/gasnet/calculator/internal/hydraulics"
	"github.com/gasnet/calculator/internal/logger"
	"github.com/gasnet/calculator/internal/network"
	"github.com/gasnet/calculator/internal/profile"
	"github.com/gasnet/calculator/internal/result"
)

type recorder struct {
	notices []result.Notice
}

func (r *recorder) notify(n result.Notice) { r.notices = append(r.notices, n) }

func (r *recorder) last() result.Notice {
	if len(r.notices) == 0 {
		return result.Notice{}
	}
	return r.notices[len(r.notices)-1]
}

func (r *recorder) has(sev result.Severity) bool {
	for _, n := range r.notices {
		if n.Severity == sev {
			return true
		}
	}
	return false
}

func newTestSession(opts ...Option) (*Session, *recorder) {
	rec := &recorder{}
	n := 0
	base := []Option{
		WithLogger(logger.Discard()),
		WithNotifier(rec.notify),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("seg-%d", n)
		}),
	}
	return New(append(base, opts...)...), rec
}

func pipe(start, end string, flow, length, diameter, inlet float64) network.Segment {
	return network.Segment{Start: start, End: end, Flow: flow, Length: length, Diameter: diameter, InletPressure: inlet}
}

func TestAddFirstSegment(t *testing.T) {
	s, rec := newTestSession()

	got, err := s.Add(pipe(" a ", "b", 10, 5, 32, 21))
	require.NoError(t, err)
	assert.Equal(t, "seg-1", got.ID)
	assert.Equal(t, "A", got.Start)
	assert.Equal(t, network.DefaultMaterial, got.Material)
	assert.Equal(t, result.SeveritySuccess, rec.notices[0].Severity)

	ev := s.Evaluation()
	require.Len(t, ev.Segments, 1)
	assert.Equal(t, 20.77, ev.Segments[0].OutletPressure)

	hint, ok := s.NextInletHint()
	require.True(t, ok)
	assert.Equal(t, 20.77, hint)
}

func TestAddFillsDownstreamInletFromHint(t *testing.T) {
	s, _ := newTestSession()
	_, err := s.Add(pipe("A", "B", 10, 5, 32, 21))
	require.NoError(t, err)

	got, err := s.Add(pipe("B", "C", 5, 10, 25, 0))
	require.NoError(t, err)
	assert.Equal(t, 20.77, got.InletPressure)

	ev := s.Evaluation()
	require.Len(t, ev.Segments, 2)
	assert.Equal(t, 19.46, ev.Summary.FinalPressure)
	hint, _ := s.NextInletHint()
	assert.Equal(t, 19.46, hint)
}

func TestAddRejectsFirstSegmentWithoutInlet(t *testing.T) {
	s, rec := newTestSession()
	_, err := s.Add(pipe("A", "B", 10, 5, 32, 0))
	assert.ErrorIs(t, err, network.ErrFieldValidation)
	assert.Empty(t, s.Segments())
	assert.Equal(t, result.SeverityDanger, rec.last().Severity)
}

func TestAddRejectsInvalidSegment(t *testing.T) {
	s, _ := newTestSession()
	_, err := s.Add(pipe("A", "A", 10, 5, 32, 21))
	assert.ErrorIs(t, err, network.ErrFieldValidation)
	assert.Empty(t, s.Segments())
}

func TestAddRejectsDuplicateWithoutMutation(t *testing.T) {
	s, rec := newTestSession()
	_, err := s.Add(pipe("A", "B", 10, 5, 32, 21))
	require.NoError(t, err)
	before := s.Evaluation()

	_, err = s.Add(pipe("a", "b", 1, 1, 20, 0))
	assert.ErrorIs(t, err, network.ErrDuplicateEdge)
	assert.Len(t, s.Segments(), 1)
	assert.Same(t, before, s.Evaluation())
	assert.Equal(t, result.SeverityWarning, rec.last().Severity)
}

func TestEvaluationFailureKeepsPreviousResult(t *testing.T) {
	s, rec := newTestSession()
	_, err := s.Add(pipe("A", "B", 10, 5, 32, 21))
	require.NoError(t, err)
	before := s.Evaluation()

	// C-D is valid on its own but unreachable from A
	_, err = s.Add(pipe("C", "D", 1, 1, 20, 21))
	require.NoError(t, err)
	assert.Len(t, s.Segments(), 2)
	assert.Same(t, before, s.Evaluation())
	assert.ErrorIs(t, s.LastError(), dependency.ErrDisconnected)
	assert.Equal(t, result.SeverityDanger, rec.last().Severity)

	hint, _ := s.NextInletHint()
	assert.Equal(t, 20.77, hint)
}

func TestEdit(t *testing.T) {
	s, _ := newTestSession()
	_, err := s.Add(pipe("A", "B", 10, 5, 32, 21))
	require.NoError(t, err)
	second, err := s.Add(pipe("B", "C", 5, 10, 25, 0))
	require.NoError(t, err)

	got, err := s.Edit(second.ID, pipe("B", "C", 5, 20, 25, 0))
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
	assert.Equal(t, 20.77, got.InletPressure)

	segs := s.Segments()
	require.Len(t, segs, 2)
	assert.Equal(t, 20.0, segs[1].Length)
	assert.Equal(t, 24.0, s.Evaluation().Segments[1].EquivalentLength)
}

func TestEditChecksDuplicatesAgainstOthers(t *testing.T) {
	s, _ := newTestSession()
	first, err := s.Add(pipe("A", "B", 10, 5, 32, 21))
	require.NoError(t, err)
	second, err := s.Add(pipe("B", "C", 5, 10, 25, 0))
	require.NoError(t, err)

	// keeping its own edge is fine
	_, err = s.Edit(first.ID, pipe("A", "B", 10, 6, 32, 22))
	require.NoError(t, err)
	assert.Equal(t, 22.0, s.Evaluation().Summary.InitialPressure)

	_, err = s.Edit(second.ID, pipe("A", "B", 1, 1, 20, 0))
	assert.ErrorIs(t, err, network.ErrDuplicateEdge)
	seg, ok := s.Segment(second.ID)
	require.True(t, ok)
	assert.Equal(t, "B-C", seg.Label())
}

func TestEditFirstSegmentRequiresInlet(t *testing.T) {
	s, _ := newTestSession()
	first, err := s.Add(pipe("A", "B", 10, 5, 32, 21))
	require.NoError(t, err)

	_, err = s.Edit(first.ID, pipe("A", "B", 10, 5, 32, 0))
	assert.ErrorIs(t, err, network.ErrFieldValidation)
}

func TestEditUnknownSegment(t *testing.T) {
	s, _ := newTestSession()
	_, err := s.Edit("missing", pipe("A", "B", 10, 5, 32, 21))
	assert.ErrorIs(t, err, ErrSegmentNotFound)
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	s, _ := newTestSession()
	first, err := s.Add(pipe("A", "B", 10, 5, 32, 21))
	require.NoError(t, err)

	assert.ErrorIs(t, s.Delete(first.ID, Denied), ErrNotConfirmed)
	assert.ErrorIs(t, s.Delete(first.ID, nil), ErrNotConfirmed)
	assert.Len(t, s.Segments(), 1)

	assert.ErrorIs(t, s.Delete("missing", Authorized), ErrSegmentNotFound)
}

func TestDeletePassesPromptToGate(t *testing.T) {
	s, _ := newTestSession()
	first, err := s.Add(pipe("A", "B", 10, 5, 32, 21))
	require.NoError(t, err)

	var asked string
	gate := GateFunc(func(prompt string) bool {
		asked = prompt
		return true
	})
	require.NoError(t, s.Delete(first.ID, gate))
	assert.Equal(t, promptDeleteSegment, asked)
}

func TestDeleteLastSegmentUpdatesHint(t *testing.T) {
	s, _ := newTestSession()
	_, err := s.Add(pipe("A", "B", 10, 5, 32, 21))
	require.NoError(t, err)
	second, err := s.Add(pipe("B", "C", 5, 10, 25, 0))
	require.NoError(t, err)

	require.NoError(t, s.Delete(second.ID, Authorized))
	assert.Len(t, s.Evaluation().Segments, 1)
	hint, ok := s.NextInletHint()
	require.True(t, ok)
	assert.Equal(t, 20.77, hint)
}

func TestDeleteOnlySegmentClearsState(t *testing.T) {
	s, rec := newTestSession()
	first, err := s.Add(pipe("A", "B", 10, 5, 32, 21))
	require.NoError(t, err)

	require.NoError(t, s.Delete(first.ID, Authorized))
	assert.Empty(t, s.Segments())
	assert.True(t, s.Evaluation().Empty())
	_, ok := s.NextInletHint()
	assert.False(t, ok)
	assert.True(t, s.InletEditable(""))
	assert.Equal(t, result.SeverityInfo, rec.last().Severity)
}

func TestDeleteThatDisconnectsFallsBackToStoredHint(t *testing.T) {
	s, _ := newTestSession()
	_, err := s.Add(pipe("A", "B", 10, 5, 32, 21))
	require.NoError(t, err)
	middle, err := s.Add(pipe("B", "C", 5, 10, 25, 0))
	require.NoError(t, err)
	last, err := s.Add(pipe("C", "D", 2, 3, 25, 0))
	require.NoError(t, err)

	require.NoError(t, s.Delete(middle.ID, Authorized))
	assert.ErrorIs(t, s.LastError(), dependency.ErrDisconnected)

	le := hydraulics.EquivalentLength(last.Length)
	want := hydraulics.OutletPressure(last.InletPressure, hydraulics.PressureLoss(last.Flow, le, last.Diameter))
	hint, ok := s.NextInletHint()
	require.True(t, ok)
	assert.Equal(t, want, hint)
}

func TestLoadCollectsRejections(t *testing.T) {
	s, _ := newTestSession()
	err := s.Load(&network.Network{Segments: []network.Segment{
		pipe("A", "B", 10, 5, 32, 21),
		pipe("A", "B", 10, 5, 32, 0),
		pipe("B", "C", 5, 10, 25, 0),
		pipe("C", "C", 5, 10, 25, 0),
	}})
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
	assert.Len(t, s.Segments(), 2)
	assert.Equal(t, 19.46, s.Evaluation().Summary.FinalPressure)

	assert.NoError(t, s.Load(nil))
}

func TestLoadDownstreamFirstEvaluatesOnce(t *testing.T) {
	s, rec := newTestSession()
	require.NoError(t, s.Load(&network.Network{Segments: []network.Segment{
		pipe("A", "B", 10, 5, 32, 21),
		pipe("C", "D", 2, 3, 25, 0),
		pipe("B", "C", 5, 10, 25, 0),
	}}))

	assert.False(t, rec.has(result.SeverityDanger))
	assert.NoError(t, s.LastError())
	assert.Len(t, s.Evaluation().Segments, 3)
	assert.Equal(t, result.Notice{Severity: result.SeveritySuccess, Message: "3 segments loaded"}, rec.notices[0])
	assert.Len(t, rec.notices, 1)

	got := s.Segments()
	assert.Equal(t, 19.46, got[1].InletPressure)
	assert.Equal(t, 20.77, got[2].InletPressure)
}

func TestLoadEmitsMergeWarningsOnce(t *testing.T) {
	s, rec := newTestSession()
	require.NoError(t, s.Load(&network.Network{Segments: []network.Segment{
		pipe("A", "B", 10, 5, 32, 21),
		pipe("A", "C", 10, 5, 32, 0),
		pipe("B", "D", 5, 10, 25, 0),
		pipe("C", "D", 5, 10, 25, 0),
	}}))

	warnings := s.Evaluation().Warnings
	require.NotEmpty(t, warnings)
	var emitted []string
	for _, n := range rec.notices {
		if n.Severity == result.SeverityWarning {
			emitted = append(emitted, n.Message)
		}
	}
	require.Len(t, emitted, len(warnings))
	for i, w := range warnings {
		assert.Equal(t, w.Message, emitted[i])
	}
}

func TestLoadDisconnectedKeepsSegments(t *testing.T) {
	s, rec := newTestSession()
	require.NoError(t, s.Load(&network.Network{Segments: []network.Segment{
		pipe("A", "B", 10, 5, 32, 21),
		pipe("X", "Y", 5, 10, 25, 0),
	}}))
	assert.Len(t, s.Segments(), 2)
	assert.Error(t, s.LastError())
	assert.Equal(t, result.SeverityDanger, rec.last().Severity)
	_, ok := s.NextInletHint()
	assert.True(t, ok)
}

func TestInletEditable(t *testing.T) {
	s, _ := newTestSession()
	assert.True(t, s.InletEditable(""))

	first, err := s.Add(pipe("A", "B", 10, 5, 32, 21))
	require.NoError(t, err)
	second, err := s.Add(pipe("B", "C", 5, 10, 25, 0))
	require.NoError(t, err)

	assert.False(t, s.InletEditable(""))
	assert.True(t, s.InletEditable(first.ID))
	assert.False(t, s.InletEditable(second.ID))
}

func TestSegmentsReturnsCopy(t *testing.T) {
	s, _ := newTestSession()
	_, err := s.Add(pipe("A", "B", 10, 5, 32, 21))
	require.NoError(t, err)

	segs := s.Segments()
	segs[0].Start = "Z"
	assert.Equal(t, "A", s.Segments()[0].Start)
	assert.Len(t, s.Network().Segments, 1)
}

func validProfile() profile.ClientProfile {
	return profile.ClientProfile{
		IDType: "CC", ID: "123456", Name: "Ana Perez",
		Address: "Calle 1 # 2-3", City: "Bogota", Department: "Cundinamarca",
		Phone: "3001234567", ProjectType: "Residential", GasType: "Natural gas",
	}
}

func TestProfileLifecycle(t *testing.T) {
	ctx := context.Background()
	store := profile.NewMemoryStore()
	fixed := time.Date(2026, 3, 4, 10, 0, 0, 0, time.FixedZone("COT", -5*3600))
	s, _ := newTestSession(WithStore(store), WithClock(func() time.Time { return fixed }))

	require.NoError(t, s.SetProfile(ctx, validProfile()))
	require.NotNil(t, s.Profile())
	assert.True(t, s.Profile().Timestamp.Equal(fixed))
	assert.Equal(t, time.UTC, s.Profile().Timestamp.Location())

	// a fresh session over the same store restores it
	other, _ := newTestSession(WithStore(store))
	require.NoError(t, other.LoadProfile(ctx))
	require.NotNil(t, other.Profile())
	assert.Equal(t, "Ana Perez", other.Profile().Name)

	assert.ErrorIs(t, s.ClearProfile(ctx, Denied), ErrNotConfirmed)
	assert.NotNil(t, s.Profile())
	require.NoError(t, s.ClearProfile(ctx, Authorized))
	assert.Nil(t, s.Profile())

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, profile.ErrNoProfile)
}

func TestSetProfileRejectsInvalid(t *testing.T) {
	s, rec := newTestSession()
	p := validProfile()
	p.Email = "not-an-email"

	err := s.SetProfile(context.Background(), p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Email")
	assert.Nil(t, s.Profile())
	assert.Equal(t, result.SeverityDanger, rec.last().Severity)
}

func TestLoadProfileWithoutSnapshot(t *testing.T) {
	s, _ := newTestSession()
	require.NoError(t, s.LoadProfile(context.Background()))
	assert.Nil(t, s.Profile())
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	s, rec := newTestSession()
	_, err := s.Add(pipe("A", "B", 10, 5, 32, 21))
	require.NoError(t, err)
	require.NoError(t, s.SetProfile(ctx, validProfile()))

	assert.ErrorIs(t, s.Clear(ctx, Denied), ErrNotConfirmed)
	assert.Len(t, s.Segments(), 1)

	require.NoError(t, s.Clear(ctx, Authorized))
	assert.Empty(t, s.Segments())
	assert.True(t, s.Evaluation().Empty())
	assert.Nil(t, s.Profile())
	assert.NoError(t, s.LastError())
	_, ok := s.NextInletHint()
	assert.False(t, ok)
	assert.True(t, rec.has(result.SeverityInfo))
}
