package commands

import (
	"context"
	"sync"

	"github.com/doeshing/medilogic/internal/app"
	configinfra "github.com/doeshing/medilogic/internal/infrastructure/config"
)

// Runtime carries the global flags and builds the container on first use,
// after cobra has parsed them.
type Runtime struct {
	ConfigPath string
	Verbose    bool

	once      sync.Once
	container *app.Container
	err       error
}

// Container returns the shared dependency graph.
func (r *Runtime) Container(ctx context.Context) (*app.Container, error) {
	r.once.Do(func() {
		r.container, r.err = app.BuildContainer(ctx, r.ConfigPath, r.Verbose)
	})
	return r.container, r.err
}

// Loader returns a config loader honoring --config. Config commands use it
// directly so they work even when the file does not validate.
func (r *Runtime) Loader() *configinfra.FileLoader {
	return configinfra.NewFileLoader(r.ConfigPath)
}
