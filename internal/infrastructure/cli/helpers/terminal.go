package helpers

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"

	"github.com/doeshing/medilogic/internal/domain"
	"github.com/doeshing/medilogic/internal/ports"
)

// Terminal implements the controller's UI surfaces on a text stream. The form
// is held in memory; results and history are printed as they arrive.
type Terminal struct {
	out     io.Writer
	spinner *Spinner

	mu      sync.Mutex
	form    domain.FormState
	visible bool
	entries []domain.HistoryEntry
}

// NewTerminal writes to out. The spinner is only animated when out is a
// terminal; otherwise the analyzing state prints a single line.
func NewTerminal(out io.Writer, vocab domain.Vocabulary) *Terminal {
	t := &Terminal{out: out, form: domain.NewFormState(vocab)}
	if IsTerminal(out) {
		t.spinner = NewSpinner(out, domain.MsgAnalyzing)
	}
	return t
}

// IsTerminal reports whether w is an interactive character device.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (t *Terminal) ReadForm() domain.FormState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.form.Clone()
}

func (t *Terminal) WriteForm(form domain.FormState) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.form = form.Clone()
}

func (t *Terminal) ShowAnalyzing() {
	if t.spinner != nil {
		t.spinner.Start()
		return
	}
	fmt.Fprintln(t.out, domain.MsgAnalyzing)
}

func (t *Terminal) ShowValidation(message string) {
	t.stopSpinner()
	fmt.Fprintln(t.out, MsgErrorPrefix+message)
}

func (t *Terminal) ShowError(message string) {
	t.stopSpinner()
	fmt.Fprintln(t.out, MsgErrorPrefix+message)
}

func (t *Terminal) ShowFragment(fragment domain.Fragment) {
	t.stopSpinner()
	RenderFragment(t.out, fragment)
}

func (t *Terminal) Reset() {
	t.stopSpinner()
}

func (t *Terminal) stopSpinner() {
	if t.spinner != nil {
		t.spinner.Stop()
	}
}

// ShowEntries keeps the latest entries and prints them when the panel is visible.
func (t *Terminal) ShowEntries(entries []domain.HistoryEntry) {
	t.mu.Lock()
	t.entries = entries
	visible := t.visible
	t.mu.Unlock()
	if visible {
		RenderEntries(t.out, entries)
	}
}

func (t *Terminal) SetVisible(visible bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.visible = visible
}

func (t *Terminal) Visible() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.visible
}

// Entries returns the last list pushed to the panel.
func (t *Terminal) Entries() []domain.HistoryEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.entries
}

var (
	_ ports.FormSurface   = (*Terminal)(nil)
	_ ports.ResultSurface = (*Terminal)(nil)
	_ ports.HistoryPanel  = (*Terminal)(nil)
)
