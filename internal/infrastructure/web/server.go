package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/doeshing/medilogic/assets"
	"github.com/doeshing/medilogic/internal/domain"
	"github.com/doeshing/medilogic/internal/infrastructure/metrics"
	"github.com/doeshing/medilogic/internal/infrastructure/render"
	"github.com/doeshing/medilogic/internal/ports"
)

const (
	reportTitle     = "MediLogic report"
	sweepInterval   = time.Minute
	shutdownTimeout = 30 * time.Second
	maxFormBytes    = 64 << 10
)

// Options configures the web front end.
type Options struct {
	Addr        string
	SubmitRate  int
	SubmitBurst int
}

// Server is the browser front end of the intake controller.
type Server struct {
	opts     Options
	registry *Registry
	renderer *render.Renderer
	page     *template.Template
	vocab    domain.Vocabulary
	logger   ports.Logger
}

// NewServer parses the page template and builds a server over registry.
func NewServer(opts Options, registry *Registry, renderer *render.Renderer, vocab domain.Vocabulary, logger ports.Logger) (*Server, error) {
	page, err := template.ParseFS(assets.Templates, "templates/page.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}
	if opts.Addr == "" {
		opts.Addr = domain.DefaultServerAddr
	}
	return &Server{
		opts:     opts,
		registry: registry,
		renderer: renderer,
		page:     page,
		vocab:    vocab,
		logger:   logger,
	}, nil
}

// Router returns the HTTP handler with every route mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(SecurityHeaders)
	r.Use(metrics.Middleware(routeLabel))

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(WithSession)

		r.Get("/", s.handlePage)
		r.With(RateLimiter(s.opts.SubmitRate, s.opts.SubmitBurst)).Post("/analyze", s.handleAnalyze)
		r.Post("/clear", s.handleClear)

		r.Route("/history", func(r chi.Router) {
			r.Post("/toggle", s.handleToggleHistory)
			r.Post("/clear", s.handleClearHistory)
			r.Post("/{index}/view", s.handleViewEntry)
			r.Post("/{index}/reuse", s.handleReuseEntry)
		})

		r.Get("/report", s.handleReport)
		r.Get("/report/chart.png", s.handleChart)
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go s.registry.RunSweeper(sweepCtx, sweepInterval)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("web front end listening", map[string]interface{}{"addr": s.opts.Addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down web front end", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) session(r *http.Request) *Session {
	return s.registry.Get(r.Context(), SessionID(r.Context()))
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	data := s.session(r).View.Snapshot()
	var buf bytes.Buffer
	if err := s.page.ExecuteTemplate(&buf, "page", data); err != nil {
		s.logger.Error("render page", err, nil)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	sess := s.session(r)
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	sess.View.WriteForm(formFromRequest(r, s.vocab, sess.View.ReadForm()))
	// Errors are already on the result surface.
	_, _ = sess.Controller.Submit(r.Context())
	redirectHome(w, r)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.session(r).Controller.Clear()
	redirectHome(w, r)
}

func (s *Server) handleToggleHistory(w http.ResponseWriter, r *http.Request) {
	s.session(r).Controller.ToggleHistory(r.Context())
	redirectHome(w, r)
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	s.session(r).Controller.ClearHistory(r.Context())
	redirectHome(w, r)
}

func (s *Server) handleViewEntry(w http.ResponseWriter, r *http.Request) {
	sess := s.session(r)
	if index, ok := entryIndex(r); ok {
		if _, err := sess.Controller.View(r.Context(), index); err != nil {
			s.logger.Error("view history entry", err, map[string]interface{}{"index": index})
		}
	}
	redirectHome(w, r)
}

func (s *Server) handleReuseEntry(w http.ResponseWriter, r *http.Request) {
	sess := s.session(r)
	if index, ok := entryIndex(r); ok {
		sess.Controller.Reuse(r.Context(), index)
	}
	redirectHome(w, r)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	fragment := s.session(r).Controller.Current()
	if !fragment.Rendered() {
		http.Error(w, "nothing to export", http.StatusNotFound)
		return
	}
	doc, err := s.renderer.Report(reportTitle, fragment)
	if err != nil {
		s.logger.Error("render report", err, nil)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(doc)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	fragment := s.session(r).Controller.Current()
	if fragment.Empty || len(fragment.Rows) == 0 {
		http.Error(w, "no chart available", http.StatusNotFound)
		return
	}
	var buf bytes.Buffer
	if err := render.ChartPNG(&buf, fragment.Rows); err != nil {
		s.logger.Error("render chart", err, nil)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":   "ok",
		"sessions": s.registry.Len(),
	})
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func entryIndex(r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		return 0, false
	}
	return index, true
}

// formFromRequest maps posted fields onto the vocabulary's controls. Unknown
// symptoms are ignored. A severity is kept when the vocabulary lists it or the
// current form already shows it (a reused entry); otherwise the default applies.
func formFromRequest(r *http.Request, vocab domain.Vocabulary, current domain.FormState) domain.FormState {
	checked := make(map[string]bool)
	for _, name := range r.PostForm["sym"] {
		checked[name] = true
	}
	severities := make(map[string]bool, len(vocab.Severities))
	for _, severity := range vocab.Severities {
		severities[severity] = true
	}

	shown := make(map[string]string, len(current.Controls))
	for _, control := range current.Controls {
		shown[control.Name] = control.Severity
	}

	form := domain.NewFormState(vocab)
	for i := range form.Controls {
		control := &form.Controls[i]
		control.Checked = checked[control.Name]
		severity := r.PostForm.Get("sev_" + control.Name)
		if severities[severity] || (severity != "" && severity == shown[control.Name]) {
			control.Severity = severity
		}
	}
	form.Allergies = r.PostForm.Get("alergias")
	form.Chronic = r.PostForm.Get("cronicos")
	return form
}
