package submit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/popupkit/internal/domain"
)

type pipelineFixture struct {
	pipeline  *Pipeline
	strategy  *blockingStrategy
	markers   *memoryMarker
	presenter *fakePresenter
	analytics *fakeEmitter
	loads     *loadRecorder
}

type blockingStrategy struct {
	mu      sync.Mutex
	calls   int
	outcome Outcome
	gate    chan struct{} // when non-nil, Submit blocks until closed
}

func (s *blockingStrategy) Name() string { return "stub" }

func (s *blockingStrategy) Submit(ctx context.Context, record domain.SubmissionRecord) Outcome {
	s.mu.Lock()
	s.calls++
	gate := s.gate
	s.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return s.outcome
}

func (s *blockingStrategy) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type memoryMarker struct {
	mu     sync.Mutex
	marker *domain.ShownMarker
}

func (m *memoryMarker) Get() (domain.ShownMarker, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.marker == nil {
		return domain.ShownMarker{}, false
	}
	return *m.marker, true
}

func (m *memoryMarker) Set(marker domain.ShownMarker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.marker = &marker
}

type fakePresenter struct {
	mu    sync.Mutex
	shown bool
}

func (p *fakePresenter) ShowSuccess() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shown = true
}

func (p *fakePresenter) wasShown() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.shown
}

type fakeEmitter struct {
	mu     sync.Mutex
	events []string
}

func (e *fakeEmitter) Emit(eventType string, record domain.SubmissionRecord) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, eventType)
}

type loadRecorder struct {
	mu     sync.Mutex
	states []bool
}

func (l *loadRecorder) record(loading bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.states = append(l.states, loading)
}

func (l *loadRecorder) all() []bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]bool(nil), l.states...)
}

func newPipelineFixture(outcome Outcome) *pipelineFixture {
	strategy := &blockingStrategy{outcome: outcome}
	markers := &memoryMarker{}
	presenter := &fakePresenter{}
	analytics := &fakeEmitter{}
	loads := &loadRecorder{}

	pipeline := NewPipeline(
		NewChain(testLogger(), strategy),
		markers,
		presenter,
		analytics,
		Hooks{SetLoading: loads.record},
		0,
		testLogger(),
	)

	return &pipelineFixture{
		pipeline:  pipeline,
		strategy:  strategy,
		markers:   markers,
		presenter: presenter,
		analytics: analytics,
		loads:     loads,
	}
}

func validForm() domain.FormState {
	return domain.FormState{
		Name:    "Ana Ruiz",
		Email:   "ana@example.com",
		Consent: true,
	}
}

func TestPipeline_Submit_Success(t *testing.T) {
	f := newPipelineFixture(Succeed())

	result, err := f.pipeline.Submit(context.Background(), validForm())
	require.NoError(t, err)

	assert.True(t, result.Submitted)
	assert.True(t, result.Validation.Valid())

	marker, ok := f.markers.Get()
	require.True(t, ok, "subscribed marker must be written")
	assert.Equal(t, domain.MarkerSubscribed, marker.Value)

	assert.True(t, f.presenter.wasShown())
	assert.Equal(t, []string{"popup_subscribed"}, f.analytics.events)
	assert.Equal(t, []bool{true, false}, f.loads.all(), "loading must toggle on then off")
}

func TestPipeline_Submit_ValidationFailureSkipsNetwork(t *testing.T) {
	f := newPipelineFixture(Succeed())

	form := validForm()
	form.Consent = false

	result, err := f.pipeline.Submit(context.Background(), form)
	require.ErrorIs(t, err, domain.ErrValidationFailed)

	assert.False(t, result.Submitted)
	assert.False(t, result.Validation.Consent.Valid)
	assert.Equal(t, domain.ValidationRequired, result.Validation.Consent.Code)
	assert.Equal(t, 0, f.strategy.callCount(), "no network call on validation failure")

	_, ok := f.markers.Get()
	assert.False(t, ok, "marker must not be written")
	assert.False(t, f.presenter.wasShown())
	assert.Equal(t, []bool{true, false}, f.loads.all(), "loading cleared even on validation failure")
}

func TestPipeline_Submit_AllFieldsReportedAtOnce(t *testing.T) {
	f := newPipelineFixture(Succeed())

	_, err := f.pipeline.Submit(context.Background(), domain.FormState{
		Name:      "",
		Email:     "bad",
		Birthdate: "30/02/2021",
		Consent:   false,
	})
	require.ErrorIs(t, err, domain.ErrValidationFailed)
}

func TestPipeline_Submit_SoftFailureReportsSuccess(t *testing.T) {
	f := newPipelineFixture(Soft("platform down"))

	result, err := f.pipeline.Submit(context.Background(), validForm())
	require.NoError(t, err)

	assert.True(t, result.Submitted)
	assert.NotEmpty(t, result.Warnings)

	marker, ok := f.markers.Get()
	require.True(t, ok)
	assert.Equal(t, domain.MarkerSubscribed, marker.Value)
	assert.True(t, f.presenter.wasShown())
}

func TestPipeline_Submit_HardFailure(t *testing.T) {
	f := newPipelineFixture(Hard("no record produced"))

	result, err := f.pipeline.Submit(context.Background(), validForm())
	require.Error(t, err)

	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "SUBMISSION_FAILED", appErr.Code)

	assert.False(t, result.Submitted)
	_, ok := f.markers.Get()
	assert.False(t, ok, "marker must not be written on hard failure")
	assert.False(t, f.presenter.wasShown())
	assert.Equal(t, []bool{true, false}, f.loads.all(), "loading cleared on failure path")
}

func TestPipeline_Submit_Reentrancy(t *testing.T) {
	f := newPipelineFixture(Succeed())
	f.strategy.gate = make(chan struct{})

	firstDone := make(chan error, 1)
	go func() {
		_, err := f.pipeline.Submit(context.Background(), validForm())
		firstDone <- err
	}()

	// Wait for the first submission to reach the blocked strategy.
	require.Eventually(t, func() bool {
		return f.strategy.callCount() == 1
	}, time.Second, 5*time.Millisecond)

	// The overlapping attempt is a no-op.
	_, err := f.pipeline.Submit(context.Background(), validForm())
	require.ErrorIs(t, err, domain.ErrSubmissionInFlight)

	close(f.strategy.gate)
	require.NoError(t, <-firstDone)

	assert.Equal(t, 1, f.strategy.callCount(), "exactly one network attempt sequence")
}
