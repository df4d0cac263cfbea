package intake

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/medilogic/internal/domain"
	"github.com/doeshing/medilogic/internal/pkg/logger"
)

func TestSubmitValidationSkipsClient(t *testing.T) {
	env := newTestEnv(clientFunc(func(context.Context, domain.AnalysisRequest) ([]domain.AnalysisResultRow, error) {
		t.Fatal("client must not be called for an invalid form")
		return nil, nil
	}))

	outcome, err := env.controller.Submit(context.Background())
	if outcome != OutcomeInvalid {
		t.Fatalf("outcome = %s, want invalid", outcome)
	}
	var validationErr *domain.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if got := env.surfaces.lastCall(); got != "validation:"+domain.MsgNoSymptomsSelected {
		t.Fatalf("last surface call = %q", got)
	}
	if len(env.history.entries) != 0 {
		t.Fatal("invalid submission must not be saved")
	}
}

func TestSubmitSuccessRendersAndSaves(t *testing.T) {
	rows := []domain.AnalysisResultRow{{Disease: "Gripe", Affinity: 92, Medication: "paracetamol", Urgency: "moderada"}}
	var sent domain.AnalysisRequest
	env := newTestEnv(clientFunc(func(_ context.Context, req domain.AnalysisRequest) ([]domain.AnalysisResultRow, error) {
		sent = req
		return rows, nil
	}))
	env.surfaces.check("fiebre", "severo")
	env.surfaces.form.Allergies = "penicilina"

	outcome, err := env.controller.Submit(context.Background())
	if err != nil || outcome != OutcomeSucceeded {
		t.Fatalf("Submit() = %s, %v", outcome, err)
	}

	wantReq := domain.AnalysisRequest{
		Symptoms:          []domain.Symptom{{Name: "fiebre", Severity: "severo"}},
		Allergies:         []string{"penicilina"},
		ChronicConditions: []string{},
	}
	if diff := cmp.Diff(wantReq, sent); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"analyzing", "fragment:rows=1", "entries:1"}, env.surfaces.calls); diff != "" {
		t.Fatalf("surface calls mismatch (-want +got):\n%s", diff)
	}
	if len(env.history.entries) != 1 || env.history.entries[0].Output[0].Disease != "Gripe" {
		t.Fatalf("history not saved: %+v", env.history.entries)
	}
	if got := env.controller.Current(); got.Markup != "rows=1" {
		t.Fatalf("Current() = %+v", got)
	}
	if env.controller.State() != StateIdle {
		t.Fatalf("state = %s, want idle", env.controller.State())
	}
	if env.telemetry.outcomes[string(OutcomeSucceeded)] != 1 {
		t.Fatalf("telemetry outcomes = %v", env.telemetry.outcomes)
	}
}

func TestSubmitEmptyResultShowsNoticeAndSaves(t *testing.T) {
	env := newTestEnv(clientFunc(func(context.Context, domain.AnalysisRequest) ([]domain.AnalysisResultRow, error) {
		return []domain.AnalysisResultRow{}, nil
	}))
	env.surfaces.check("tos", "leve")

	if outcome, _ := env.controller.Submit(context.Background()); outcome != OutcomeSucceeded {
		t.Fatalf("outcome = %s", outcome)
	}
	if !env.surfaces.fragment.Empty {
		t.Fatalf("expected empty notice, got %+v", env.surfaces.fragment)
	}
	if len(env.history.entries) != 1 {
		t.Fatalf("empty results are still recorded, got %d entries", len(env.history.entries))
	}
}

func TestSubmitFailureShowsError(t *testing.T) {
	env := newTestEnv(clientFunc(func(context.Context, domain.AnalysisRequest) ([]domain.AnalysisResultRow, error) {
		return nil, &domain.TransportError{StatusCode: 502}
	}))
	env.surfaces.check("tos", "leve")

	outcome, err := env.controller.Submit(context.Background())
	if outcome != OutcomeFailed || !errors.Is(err, domain.ErrAnalysisFailed) {
		t.Fatalf("Submit() = %s, %v", outcome, err)
	}
	if got := env.surfaces.lastCall(); got != "error:Error 502" {
		t.Fatalf("last surface call = %q", got)
	}
	if len(env.history.entries) != 0 {
		t.Fatal("failed analysis must not be saved")
	}
	if env.telemetry.errors[domain.KindTransport] != 1 {
		t.Fatalf("telemetry errors = %v", env.telemetry.errors)
	}
	if env.controller.State() != StateIdle {
		t.Fatalf("state = %s, want idle", env.controller.State())
	}
}

func TestSubmitSwallowsPersistenceFailure(t *testing.T) {
	env := newTestEnv(clientFunc(func(context.Context, domain.AnalysisRequest) ([]domain.AnalysisResultRow, error) {
		return []domain.AnalysisResultRow{{Disease: "Gripe", Affinity: 80}}, nil
	}))
	env.history.saveErr = &domain.PersistenceError{Op: "write", Err: errors.New("quota exceeded")}
	env.surfaces.check("fiebre", "leve")

	outcome, err := env.controller.Submit(context.Background())
	if err != nil || outcome != OutcomeSucceeded {
		t.Fatalf("Submit() = %s, %v", outcome, err)
	}
	if env.surfaces.fragment.Markup != "rows=1" {
		t.Fatalf("result not shown: %+v", env.surfaces.fragment)
	}
	if env.telemetry.persistFailures != 1 {
		t.Fatalf("persist failures = %d", env.telemetry.persistFailures)
	}
}

func TestSubmitDiscardsSupersededResponse(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var calls int32
	env := newTestEnv(clientFunc(func(_ context.Context, req domain.AnalysisRequest) ([]domain.AnalysisResultRow, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(started)
			<-release
			return []domain.AnalysisResultRow{{Disease: "Stale"}}, nil
		}
		return []domain.AnalysisResultRow{{Disease: "Fresh"}, {Disease: "Second"}}, nil
	}))
	env.surfaces.check("fiebre", "leve")

	first := make(chan Outcome, 1)
	go func() {
		outcome, _ := env.controller.Submit(context.Background())
		first <- outcome
	}()
	<-started

	if outcome, err := env.controller.Submit(context.Background()); err != nil || outcome != OutcomeSucceeded {
		t.Fatalf("second Submit() = %s, %v", outcome, err)
	}
	close(release)

	select {
	case outcome := <-first:
		if outcome != OutcomeSuperseded {
			t.Fatalf("first outcome = %s, want superseded", outcome)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("first submission did not return")
	}

	if got := env.surfaces.fragment.Rows[0].Disease; got != "Fresh" {
		t.Fatalf("stale response rendered: %s", got)
	}
	if len(env.history.entries) != 1 || env.history.entries[0].Output[0].Disease != "Fresh" {
		t.Fatalf("stale response saved: %+v", env.history.entries)
	}
}

func TestClearDiscardsInFlightResponse(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	env := newTestEnv(clientFunc(func(context.Context, domain.AnalysisRequest) ([]domain.AnalysisResultRow, error) {
		close(started)
		<-release
		return []domain.AnalysisResultRow{{Disease: "Late"}}, nil
	}))
	env.surfaces.check("tos", "leve")

	done := make(chan Outcome, 1)
	go func() {
		outcome, _ := env.controller.Submit(context.Background())
		done <- outcome
	}()
	<-started
	env.controller.Clear()
	close(release)

	select {
	case outcome := <-done:
		if outcome != OutcomeSuperseded {
			t.Fatalf("outcome = %s, want superseded", outcome)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("submission did not return")
	}
	if got := env.surfaces.lastCall(); got != "reset" {
		t.Fatalf("last surface call = %q, want reset", got)
	}
	if len(env.history.entries) != 0 {
		t.Fatalf("late response saved: %+v", env.history.entries)
	}
	if env.controller.State() != StateIdle {
		t.Fatalf("state = %s", env.controller.State())
	}
}

func TestViewRendersStoredOutputWithoutClient(t *testing.T) {
	env := newTestEnv(clientFunc(func(context.Context, domain.AnalysisRequest) ([]domain.AnalysisResultRow, error) {
		t.Fatal("View must not call the client")
		return nil, nil
	}))
	env.history.entries = []domain.HistoryEntry{
		{Output: []domain.AnalysisResultRow{{Disease: "A"}, {Disease: "B"}}},
		{Output: []domain.AnalysisResultRow{}},
	}

	ok, err := env.controller.View(context.Background(), 0)
	if !ok || err != nil {
		t.Fatalf("View(0) = %v, %v", ok, err)
	}
	if env.surfaces.fragment.Markup != "rows=2" {
		t.Fatalf("unexpected fragment %+v", env.surfaces.fragment)
	}

	ok, _ = env.controller.View(context.Background(), 1)
	if !ok || !env.surfaces.fragment.Empty {
		t.Fatalf("View(1) should show the empty notice, got %+v", env.surfaces.fragment)
	}

	calls := len(env.surfaces.calls)
	for _, index := range []int{-1, 2} {
		if ok, _ := env.controller.View(context.Background(), index); ok {
			t.Fatalf("View(%d) should be a no-op", index)
		}
	}
	if len(env.surfaces.calls) != calls {
		t.Fatal("out-of-range View touched the surfaces")
	}
}

func TestReuseRestoresFormWithoutRequest(t *testing.T) {
	env := newTestEnv(clientFunc(func(context.Context, domain.AnalysisRequest) ([]domain.AnalysisResultRow, error) {
		t.Fatal("Reuse must not call the client")
		return nil, nil
	}))
	env.history.entries = []domain.HistoryEntry{{
		Input: domain.AnalysisRequest{
			Symptoms:          []domain.Symptom{{Name: "fiebre", Severity: "severo"}, {Name: "fatiga", Severity: "moderado"}},
			Allergies:         []string{"penicilina"},
			ChronicConditions: []string{"asma", "diabetes"},
		},
	}}
	env.surfaces.check("tos", "severo")

	if !env.controller.Reuse(context.Background(), 0) {
		t.Fatal("Reuse(0) returned false")
	}

	form := env.surfaces.form
	want := domain.NewFormState(domain.DefaultVocabulary())
	want.Controls[0] = domain.SymptomControl{Name: "fiebre", Checked: true, Severity: "severo"}
	want.Controls[4] = domain.SymptomControl{Name: "fatiga", Checked: true, Severity: "moderado"}
	want.Allergies = "penicilina"
	want.Chronic = "asma, diabetes"
	if diff := cmp.Diff(want, form); diff != "" {
		t.Fatalf("restored form mismatch (-want +got):\n%s", diff)
	}

	if env.controller.Reuse(context.Background(), 3) {
		t.Fatal("Reuse(3) should be a no-op")
	}
	if diff := cmp.Diff(want, env.surfaces.form); diff != "" {
		t.Fatalf("out-of-range Reuse changed the form:\n%s", diff)
	}
}

func TestToggleAndClearHistory(t *testing.T) {
	env := newTestEnv(nil)
	env.history.entries = []domain.HistoryEntry{{}, {}}

	if !env.controller.ToggleHistory(context.Background()) {
		t.Fatal("first toggle should show the panel")
	}
	if len(env.surfaces.entries) != 2 {
		t.Fatalf("panel shows %d entries", len(env.surfaces.entries))
	}
	if env.controller.ToggleHistory(context.Background()) {
		t.Fatal("second toggle should hide the panel")
	}

	env.controller.ClearHistory(context.Background())
	if len(env.history.entries) != 0 || len(env.surfaces.entries) != 0 {
		t.Fatal("history not cleared")
	}
}

func TestClearResetsFormAndResult(t *testing.T) {
	env := newTestEnv(clientFunc(func(context.Context, domain.AnalysisRequest) ([]domain.AnalysisResultRow, error) {
		return []domain.AnalysisResultRow{{Disease: "Gripe"}}, nil
	}))
	env.surfaces.check("fiebre", "severo")
	env.surfaces.form.Allergies = "latex"
	_, _ = env.controller.Submit(context.Background())

	env.controller.Clear()

	if diff := cmp.Diff(domain.NewFormState(domain.DefaultVocabulary()), env.surfaces.form); diff != "" {
		t.Fatalf("form not reset:\n%s", diff)
	}
	if env.surfaces.lastCall() != "reset" || env.controller.Current().Rendered() {
		t.Fatal("result area not reset")
	}
}

func TestSubmitRequiresDependencies(t *testing.T) {
	controller := &Controller{}
	if _, err := controller.Submit(context.Background()); err == nil {
		t.Fatal("expected error for unwired controller")
	}
}

// --- test doubles ---

type testEnv struct {
	controller *Controller
	surfaces   *stubSurfaces
	history    *memoryHistory
	telemetry  *stubTelemetry
}

func newTestEnv(client clientFunc) *testEnv {
	vocab := domain.DefaultVocabulary()
	surfaces := &stubSurfaces{form: domain.NewFormState(vocab)}
	history := &memoryHistory{}
	telemetry := newStubTelemetry()
	if client == nil {
		client = func(context.Context, domain.AnalysisRequest) ([]domain.AnalysisResultRow, error) {
			return nil, errors.New("unexpected call")
		}
	}
	return &testEnv{
		controller: &Controller{
			Client:     client,
			Renderer:   stubRenderer{},
			History:    history,
			Form:       surfaces,
			Results:    surfaces,
			Panel:      surfaces,
			Vocabulary: vocab,
			Logger:     logger.Discard(),
			Telemetry:  telemetry,
		},
		surfaces:  surfaces,
		history:   history,
		telemetry: telemetry,
	}
}

type clientFunc func(context.Context, domain.AnalysisRequest) ([]domain.AnalysisResultRow, error)

func (f clientFunc) Analyze(ctx context.Context, req domain.AnalysisRequest) ([]domain.AnalysisResultRow, error) {
	return f(ctx, req)
}

type stubRenderer struct{}

func (stubRenderer) Render(rows []domain.AnalysisResultRow) (domain.Fragment, error) {
	return domain.Fragment{Markup: fmt.Sprintf("rows=%d", len(rows)), Rows: domain.CloneRows(rows)}, nil
}

func (stubRenderer) RenderEmpty() domain.Fragment {
	return domain.Fragment{Markup: "empty", Empty: true, Rows: []domain.AnalysisResultRow{}}
}

type memoryHistory struct {
	entries []domain.HistoryEntry
	saveErr error
}

func (h *memoryHistory) Save(_ context.Context, input domain.AnalysisRequest, output []domain.AnalysisResultRow) error {
	if h.saveErr != nil {
		return h.saveErr
	}
	entry := domain.HistoryEntry{Timestamp: time.Now(), Input: input.Clone(), Output: domain.CloneRows(output)}
	h.entries = append([]domain.HistoryEntry{entry}, h.entries...)
	return nil
}

func (h *memoryHistory) List(context.Context) []domain.HistoryEntry {
	return append([]domain.HistoryEntry(nil), h.entries...)
}

func (h *memoryHistory) Get(_ context.Context, index int) (domain.HistoryEntry, bool) {
	if index < 0 || index >= len(h.entries) {
		return domain.HistoryEntry{}, false
	}
	return h.entries[index].Clone(), true
}

func (h *memoryHistory) Clear(context.Context) error {
	h.entries = nil
	return nil
}

// stubSurfaces is only touched under the controller lock.
type stubSurfaces struct {
	form     domain.FormState
	fragment domain.Fragment
	visible  bool
	entries  []domain.HistoryEntry
	calls    []string
}

func (s *stubSurfaces) check(name, severity string) {
	for i := range s.form.Controls {
		if s.form.Controls[i].Name == name {
			s.form.Controls[i].Checked = true
			s.form.Controls[i].Severity = severity
		}
	}
}

func (s *stubSurfaces) lastCall() string {
	if len(s.calls) == 0 {
		return ""
	}
	return s.calls[len(s.calls)-1]
}

func (s *stubSurfaces) ReadForm() domain.FormState { return s.form.Clone() }
func (s *stubSurfaces) WriteForm(form domain.FormState) { s.form = form.Clone() }
func (s *stubSurfaces) ShowAnalyzing() { s.calls = append(s.calls, "analyzing") }
func (s *stubSurfaces) ShowValidation(message string) { s.calls = append(s.calls, "validation:"+message) }
func (s *stubSurfaces) ShowError(message string) { s.calls = append(s.calls, "error:"+message) }
func (s *stubSurfaces) SetVisible(visible bool) { s.visible = visible }
func (s *stubSurfaces) Visible() bool { return s.visible }

func (s *stubSurfaces) ShowFragment(fragment domain.Fragment) {
	s.fragment = fragment
	s.calls = append(s.calls, "fragment:"+fragment.Markup)
}

func (s *stubSurfaces) Reset() {
	s.fragment = domain.Fragment{}
	s.calls = append(s.calls, "reset")
}

func (s *stubSurfaces) ShowEntries(entries []domain.HistoryEntry) {
	s.entries = entries
	s.calls = append(s.calls, fmt.Sprintf("entries:%d", len(entries)))
}

type stubTelemetry struct {
	mu              sync.Mutex
	outcomes        map[string]int
	errors          map[string]int
	persistFailures int
}

func newStubTelemetry() *stubTelemetry {
	return &stubTelemetry{outcomes: map[string]int{}, errors: map[string]int{}}
}

func (s *stubTelemetry) ObserveAnalysis(outcome string, _ time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcomes[outcome]++
}

func (s *stubTelemetry) AnalysisError(kind string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors[kind]++
}

func (s *stubTelemetry) PersistFailure() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persistFailures++
}
