package web

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/medilogic/internal/domain"
)

func withSeverity(form domain.FormState, name, severity string) domain.FormState {
	for i := range form.Controls {
		if form.Controls[i].Name == name {
			form.Controls[i].Checked = true
			form.Controls[i].Severity = severity
		}
	}
	return form
}

func TestSnapshotListsUnknownSeverity(t *testing.T) {
	vocab := domain.DefaultVocabulary()
	view := NewView(vocab)
	view.WriteForm(withSeverity(domain.NewFormState(vocab), "fiebre", "alta"))

	data := view.Snapshot()
	want := []optionData{
		{Value: "leve"},
		{Value: "moderado"},
		{Value: "severo"},
		{Value: "alta", Selected: true},
	}
	if diff := cmp.Diff(want, data.Form.Controls[0].Options); diff != "" {
		t.Fatalf("fiebre options mismatch (-want +got):\n%s", diff)
	}
	if got := len(data.Form.Controls[1].Options); got != len(vocab.Severities) {
		t.Fatalf("tos options = %d, want %d", got, len(vocab.Severities))
	}
}

func TestFormFromRequestKeepsShownSeverity(t *testing.T) {
	vocab := domain.DefaultVocabulary()
	values := url.Values{
		"sym":        {"fiebre"},
		"sev_fiebre": {"alta"},
		"sev_tos":    {"extrema"},
	}

	tests := []struct {
		name    string
		current domain.FormState
		want    string
	}{
		{
			name:    "level shown on the page",
			current: withSeverity(domain.NewFormState(vocab), "fiebre", "alta"),
			want:    "alta",
		},
		{
			name:    "level never shown",
			current: domain.NewFormState(vocab),
			want:    vocab.DefaultSeverity(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/analyze", strings.NewReader(values.Encode()))
			r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			if err := r.ParseForm(); err != nil {
				t.Fatalf("ParseForm() error = %v", err)
			}

			form := formFromRequest(r, vocab, tt.current)
			if got := form.Controls[0]; !got.Checked || got.Severity != tt.want {
				t.Fatalf("fiebre = %+v, want checked with %q", got, tt.want)
			}
			if got := form.Controls[1].Severity; got != vocab.DefaultSeverity() {
				t.Fatalf("tos severity = %q, want %q", got, vocab.DefaultSeverity())
			}
		})
	}
}
