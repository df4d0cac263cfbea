package intake_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/medilogic/internal/application/intake"
	"github.com/doeshing/medilogic/internal/domain"
	"github.com/doeshing/medilogic/internal/infrastructure/analysis"
	"github.com/doeshing/medilogic/internal/infrastructure/history"
	"github.com/doeshing/medilogic/internal/infrastructure/render"
	"github.com/doeshing/medilogic/internal/infrastructure/session"
	"github.com/doeshing/medilogic/internal/pkg/logger"
)

func TestSubmitEndToEndWithMockBackend(t *testing.T) {
	var received map[string]json.RawMessage
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/analyze" {
			http.NotFound(w, r)
			return
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &received); err != nil {
			t.Errorf("backend got invalid JSON: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"resultados":[{"enfermedad":"Gripe","afinidad":92.4,"medicamento":"paracetamol","urgencia":"moderada"}]}`)
	}))
	defer backend.Close()

	vocab := domain.DefaultVocabulary()
	renderer, err := render.NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	store := history.NewStore(session.NewMemoryBackend(time.Hour).Open("e2e"))
	surfaces := &recordingSurfaces{form: domain.NewFormState(vocab)}
	surfaces.form.Controls[0].Checked = true
	surfaces.form.Controls[0].Severity = "alta"
	surfaces.form.Allergies = "penicilina"

	controller := &intake.Controller{
		Client:     analysis.NewClient(backend.URL+"/", backend.Client()),
		Renderer:   renderer,
		History:    store,
		Form:       surfaces,
		Results:    surfaces,
		Panel:      surfaces,
		Vocabulary: vocab,
		Logger:     logger.Discard(),
	}

	outcome, err := controller.Submit(context.Background())
	if err != nil || outcome != intake.OutcomeSucceeded {
		t.Fatalf("Submit() = %s, %v", outcome, err)
	}

	wantKeys := []string{"alergias", "cronicos", "sintomas"}
	var gotKeys []string
	for key := range received {
		gotKeys = append(gotKeys, key)
	}
	sort.Strings(gotKeys)
	if diff := cmp.Diff(wantKeys, gotKeys); diff != "" {
		t.Fatalf("payload keys mismatch (-want +got):\n%s", diff)
	}
	if got := string(received["sintomas"]); got != `[{"nombre":"fiebre","severidad":"alta"}]` {
		t.Fatalf("sintomas = %s", got)
	}
	if got := string(received["cronicos"]); got != `[]` {
		t.Fatalf("cronicos = %s", got)
	}

	wantRows := []domain.AnalysisResultRow{{Disease: "Gripe", Affinity: 92, Medication: "paracetamol", Urgency: "moderada"}}
	fragment := surfaces.fragment
	if diff := cmp.Diff(wantRows, fragment.Rows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(fragment.Markup, "<td>Gripe</td><td>92</td><td>paracetamol</td>") {
		t.Fatalf("table row missing from markup:\n%s", fragment.Markup)
	}

	layout := render.Layout(fragment.Rows)
	if len(layout.Bars) != 1 || layout.Bars[0].Width != 640 || layout.Bars[0].Height != 184 {
		t.Fatalf("unexpected chart layout %+v", layout.Bars)
	}
	if !strings.Contains(fragment.Markup, `width="640" height="184"`) {
		t.Fatal("full-width bar missing from SVG")
	}

	entries := store.List(context.Background())
	if len(entries) != 1 {
		t.Fatalf("history has %d entries, want 1", len(entries))
	}
	if diff := cmp.Diff(wantRows, entries[0].Output); diff != "" {
		t.Fatalf("stored output mismatch:\n%s", diff)
	}
	if entries[0].Input.Allergies[0] != "penicilina" {
		t.Fatalf("stored input = %+v", entries[0].Input)
	}
	if len(surfaces.entries) != 1 {
		t.Fatal("history panel not refreshed")
	}
}

type recordingSurfaces struct {
	form     domain.FormState
	fragment domain.Fragment
	visible  bool
	entries  []domain.HistoryEntry
}

func (s *recordingSurfaces) ReadForm() domain.FormState { return s.form.Clone() }
func (s *recordingSurfaces) WriteForm(form domain.FormState) { s.form = form.Clone() }
func (s *recordingSurfaces) ShowAnalyzing() {}
func (s *recordingSurfaces) ShowValidation(string) {}
func (s *recordingSurfaces) ShowError(string) {}
func (s *recordingSurfaces) ShowFragment(fragment domain.Fragment) { s.fragment = fragment }
func (s *recordingSurfaces) Reset() {}
func (s *recordingSurfaces) ShowEntries(entries []domain.HistoryEntry) { s.entries = entries }
func (s *recordingSurfaces) SetVisible(visible bool) { s.visible = visible }
func (s *recordingSurfaces) Visible() bool { return s.visible }
