package web

import (
	"html/template"
	"strings"
	"sync"

	"github.com/doeshing/medilogic/internal/domain"
	"github.com/doeshing/medilogic/internal/ports"
)

// Result area states as seen by the page template.
const (
	statusIdle       = ""
	statusValidation = "validation"
	statusAnalyzing  = "analyzing"
	statusError      = "error"
	statusResult     = "result"
)

// View is the server-side state of one browser session's page. The intake
// controller drives it through the form, result and history surfaces; GET
// requests read it back through Snapshot.
type View struct {
	mu       sync.Mutex
	vocab    domain.Vocabulary
	form     domain.FormState
	status   string
	message  string
	fragment domain.Fragment
	visible  bool
	entries  []domain.HistoryEntry
}

// NewView returns a page with an empty form and no result.
func NewView(vocab domain.Vocabulary) *View {
	return &View{vocab: vocab, form: domain.NewFormState(vocab)}
}

func (v *View) ReadForm() domain.FormState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.form.Clone()
}

func (v *View) WriteForm(form domain.FormState) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.form = form.Clone()
}

func (v *View) ShowAnalyzing() {
	v.setStatus(statusAnalyzing, domain.MsgAnalyzing)
}

func (v *View) ShowValidation(message string) {
	v.setStatus(statusValidation, message)
}

func (v *View) ShowError(message string) {
	v.setStatus(statusError, message)
}

func (v *View) ShowFragment(fragment domain.Fragment) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.status = statusResult
	v.message = ""
	v.fragment = fragment
}

func (v *View) Reset() {
	v.setStatus(statusIdle, "")
}

func (v *View) setStatus(status, message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.status = status
	v.message = message
	v.fragment = domain.Fragment{}
}

func (v *View) ShowEntries(entries []domain.HistoryEntry) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.entries = make([]domain.HistoryEntry, 0, len(entries))
	for _, entry := range entries {
		v.entries = append(v.entries, entry.Clone())
	}
}

func (v *View) SetVisible(visible bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.visible = visible
}

func (v *View) Visible() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.visible
}

type pageData struct {
	Form           formData
	Status         string
	Message        string
	Result         template.HTML
	CanExport      bool
	HasChart       bool
	HistoryVisible bool
	Entries        []entryData
}

type formData struct {
	Controls  []controlData
	Allergies string
	Chronic   string
}

type controlData struct {
	Name    string
	Checked bool
	Options []optionData
}

type optionData struct {
	Value    string
	Selected bool
}

type entryData struct {
	Index     int
	Timestamp string
	Summary   string
	Matches   int
}

// Snapshot copies the view into template data.
func (v *View) Snapshot() pageData {
	v.mu.Lock()
	defer v.mu.Unlock()

	data := pageData{
		Form: formData{
			Allergies: v.form.Allergies,
			Chronic:   v.form.Chronic,
		},
		Status:         v.status,
		Message:        v.message,
		HistoryVisible: v.visible,
	}
	for _, control := range v.form.Controls {
		item := controlData{Name: control.Name, Checked: control.Checked}
		known := false
		for _, severity := range v.vocab.Severities {
			selected := severity == control.Severity
			known = known || selected
			item.Options = append(item.Options, optionData{Value: severity, Selected: selected})
		}
		// A reused entry may carry a level the vocabulary no longer lists.
		if !known && control.Severity != "" {
			item.Options = append(item.Options, optionData{Value: control.Severity, Selected: true})
		}
		data.Form.Controls = append(data.Form.Controls, item)
	}
	if v.status == statusResult && v.fragment.Rendered() {
		// Fragment markup comes from html/template and is already escaped.
		data.Result = template.HTML(v.fragment.Markup)
		data.CanExport = true
		data.HasChart = !v.fragment.Empty && len(v.fragment.Rows) > 0
	}
	for i, entry := range v.entries {
		data.Entries = append(data.Entries, entryData{
			Index:     i,
			Timestamp: entry.Timestamp.Local().Format("2006-01-02 15:04:05"),
			Summary:   summarize(entry.Input),
			Matches:   len(entry.Output),
		})
	}
	return data
}

func summarize(req domain.AnalysisRequest) string {
	names := make([]string, 0, len(req.Symptoms))
	for _, symptom := range req.Symptoms {
		names = append(names, symptom.Name+" ("+symptom.Severity+")")
	}
	return strings.Join(names, ", ")
}

var (
	_ ports.FormSurface   = (*View)(nil)
	_ ports.ResultSurface = (*View)(nil)
	_ ports.HistoryPanel  = (*View)(nil)
)
