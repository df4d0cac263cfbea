package app

import (
	"context"
	"net/http"

	appconfig "github.com/doeshing/medilogic/internal/application/config"
	"github.com/doeshing/medilogic/internal/application/doctor"
	"github.com/doeshing/medilogic/internal/application/intake"
	"github.com/doeshing/medilogic/internal/domain"
	"github.com/doeshing/medilogic/internal/infrastructure/analysis"
	"github.com/doeshing/medilogic/internal/infrastructure/config"
	"github.com/doeshing/medilogic/internal/infrastructure/history"
	"github.com/doeshing/medilogic/internal/infrastructure/metrics"
	"github.com/doeshing/medilogic/internal/infrastructure/render"
	"github.com/doeshing/medilogic/internal/infrastructure/session"
	"github.com/doeshing/medilogic/internal/pkg/logger"
	"github.com/doeshing/medilogic/internal/ports"
)

// Container wires up application services with infrastructure adapters.
type Container struct {
	Config        domain.Config
	ConfigLoader  *config.FileLoader
	Logger        ports.Logger
	Client        *analysis.Client
	Renderer      *render.Renderer
	Telemetry     ports.Telemetry
	DoctorService *doctor.Service
}

// BuildContainer constructs the dependency graph. configPath overrides the
// default config location when non-empty.
func BuildContainer(ctx context.Context, configPath string, verbose bool) (*Container, error) {
	cfgLoader := config.NewFileLoader(configPath)
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := appconfig.Validate(cfg); err != nil {
		return nil, err
	}

	log := logger.New(verbose)
	client := analysis.NewClient(cfg.Backend.BaseURL, http.DefaultClient)
	renderer, err := render.NewRenderer()
	if err != nil {
		return nil, err
	}

	container := &Container{
		Config:       cfg,
		ConfigLoader: cfgLoader,
		Logger:       log,
		Client:       client,
		Renderer:     renderer,
		Telemetry:    metrics.NewRecorder(),
	}
	container.DoctorService = &doctor.Service{
		ConfigProvider: cfgLoader,
		Backend:        client,
		OpenSessions: func(ctx context.Context, cfg domain.Config) (ports.SessionBackend, error) {
			return session.Open(ctx, cfg.Session.BackendFor(false), cfg.Session, cfg.Server.TTL())
		},
	}
	return container, nil
}

// OpenSessionBackend opens the named session backend using the configured
// connection settings and TTL.
func (c *Container) OpenSessionBackend(ctx context.Context, name string) (ports.SessionBackend, error) {
	return session.Open(ctx, name, c.Config.Session, c.Config.Server.TTL())
}

// NewController builds an intake controller whose history lives in storage
// and whose UI is the given surfaces.
func (c *Container) NewController(storage ports.SessionStorage, form ports.FormSurface, results ports.ResultSurface, panel ports.HistoryPanel) *intake.Controller {
	return &intake.Controller{
		Client:     c.Client,
		Renderer:   c.Renderer,
		History:    history.NewStore(storage),
		Form:       form,
		Results:    results,
		Panel:      panel,
		Vocabulary: c.Config.Vocabulary,
		Logger:     c.Logger,
		Telemetry:  c.Telemetry,
	}
}
