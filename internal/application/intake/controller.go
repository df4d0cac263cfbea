package intake

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/doeshing/medilogic/internal/domain"
	"github.com/doeshing/medilogic/internal/ports"
)

// State is the submission lifecycle of a controller.
type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateRequesting State = "requesting"
	StateInvalid    State = "invalid"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// Outcome reports how a submission ended.
type Outcome string

const (
	OutcomeInvalid    Outcome = "invalid"
	OutcomeSucceeded  Outcome = "succeeded"
	OutcomeFailed     Outcome = "failed"
	OutcomeSuperseded Outcome = "superseded"
)

// Controller orchestrates the intake flows of one session: submit, clear,
// history replay and export. It is safe for concurrent use; a response that
// arrives after a newer submission started is discarded.
type Controller struct {
	Client     ports.AnalysisClient
	Renderer   ports.ResultRenderer
	History    ports.HistoryRepository
	Form       ports.FormSurface
	Results    ports.ResultSurface
	Panel      ports.HistoryPanel
	Vocabulary domain.Vocabulary
	Logger     ports.Logger
	Telemetry  ports.Telemetry

	mu         sync.Mutex
	generation uint64
	state      State
	current    domain.Fragment
}

func (c *Controller) ready() error {
	if c.Client == nil || c.Renderer == nil || c.History == nil || c.Form == nil ||
		c.Results == nil || c.Panel == nil || c.Logger == nil {
		return errors.New("intake.Controller dependencies not satisfied")
	}
	return nil
}

// Submit reads the form, validates it, calls the rule engine and renders the
// outcome. The returned error is the validation or analysis failure, already
// shown on the result surface.
func (c *Controller) Submit(ctx context.Context) (Outcome, error) {
	if err := c.ready(); err != nil {
		return OutcomeFailed, err
	}

	c.mu.Lock()
	c.state = StateValidating
	req, err := Build(c.Form.ReadForm(), c.Vocabulary)
	if err != nil {
		c.state = StateInvalid
		c.Results.ShowValidation(err.Error())
		c.state = StateIdle
		c.mu.Unlock()
		c.Logger.Debug("submission rejected", map[string]interface{}{"reason": err.Error()})
		return OutcomeInvalid, err
	}
	c.generation++
	token := c.generation
	c.state = StateRequesting
	c.Results.ShowAnalyzing()
	c.mu.Unlock()

	c.Logger.Debug("calling analysis service", map[string]interface{}{
		"generation": token,
		"symptoms":   len(req.Symptoms),
	})

	started := time.Now()
	rows, err := c.Client.Analyze(ctx, req)
	elapsed := time.Since(started)

	c.mu.Lock()
	defer c.mu.Unlock()

	if token != c.generation {
		c.Logger.Info("discarding superseded analysis response", map[string]interface{}{
			"generation": token,
			"latest":     c.generation,
		})
		c.observe(OutcomeSuperseded, elapsed)
		return OutcomeSuperseded, nil
	}

	if err != nil {
		c.fail(err, elapsed)
		return OutcomeFailed, err
	}

	fragment, err := c.present(rows)
	if err != nil {
		err = fmt.Errorf("render results: %w", err)
		c.fail(err, elapsed)
		return OutcomeFailed, err
	}

	c.Results.ShowFragment(fragment)
	c.current = fragment
	c.state = StateSucceeded
	c.observe(OutcomeSucceeded, elapsed)

	if err := c.History.Save(ctx, req, rows); err != nil {
		c.Logger.Warn("history not saved", map[string]interface{}{"error": err.Error()})
		if c.Telemetry != nil {
			c.Telemetry.PersistFailure()
		}
	}
	c.Panel.ShowEntries(c.History.List(ctx))

	c.state = StateIdle
	return OutcomeSucceeded, nil
}

func (c *Controller) fail(err error, elapsed time.Duration) {
	kind := domain.ErrorKind(err)
	c.state = StateFailed
	c.Logger.Error("analysis failed", err, map[string]interface{}{"kind": kind})
	if c.Telemetry != nil {
		c.Telemetry.AnalysisError(kind)
	}
	c.observe(OutcomeFailed, elapsed)
	c.Results.ShowError(err.Error())
	c.state = StateIdle
}

func (c *Controller) observe(outcome Outcome, elapsed time.Duration) {
	if c.Telemetry != nil {
		c.Telemetry.ObserveAnalysis(string(outcome), elapsed)
	}
}

func (c *Controller) present(rows []domain.AnalysisResultRow) (domain.Fragment, error) {
	if len(rows) == 0 {
		return c.Renderer.RenderEmpty(), nil
	}
	return c.Renderer.Render(rows)
}

// Clear resets the form to its defaults and empties the result area. A
// submission still in flight is discarded when its response arrives.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.state = StateIdle
	c.Form.WriteForm(domain.NewFormState(c.Vocabulary))
	c.Results.Reset()
	c.current = domain.Fragment{}
}

// View re-renders the stored output of history entry index without calling
// the rule engine. An out-of-range index is a no-op and returns false.
func (c *Controller) View(ctx context.Context, index int) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.History.Get(ctx, index)
	if !ok {
		return false, nil
	}
	fragment, err := c.present(entry.Output)
	if err != nil {
		return false, fmt.Errorf("render history entry %d: %w", index, err)
	}
	c.Results.ShowFragment(fragment)
	c.current = fragment
	return true, nil
}

// Reuse repopulates the form from history entry index without running an
// analysis. An out-of-range index is a no-op and returns false.
func (c *Controller) Reuse(ctx context.Context, index int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.History.Get(ctx, index)
	if !ok {
		return false
	}
	c.Form.WriteForm(FormFromRequest(entry.Input, c.Vocabulary))
	return true
}

// ToggleHistory flips the history panel visibility and returns the new value.
func (c *Controller) ToggleHistory(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	visible := !c.Panel.Visible()
	c.Panel.SetVisible(visible)
	if visible {
		c.Panel.ShowEntries(c.History.List(ctx))
	}
	return visible
}

// ClearHistory drops every stored entry and re-renders the empty panel.
// Storage failures are logged, never returned.
func (c *Controller) ClearHistory(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.History.Clear(ctx); err != nil {
		c.Logger.Warn("history not cleared", map[string]interface{}{"error": err.Error()})
		if c.Telemetry != nil {
			c.Telemetry.PersistFailure()
		}
	}
	c.Panel.ShowEntries(c.History.List(ctx))
}

// RefreshHistory pushes the stored entries to the panel.
func (c *Controller) RefreshHistory(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Panel.ShowEntries(c.History.List(ctx))
}

// Current returns the last fragment shown in the result area.
func (c *Controller) Current() domain.Fragment {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// State returns the lifecycle state of the latest submission.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == "" {
		return StateIdle
	}
	return c.state
}
