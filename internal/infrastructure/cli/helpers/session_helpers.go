package helpers

import (
	"context"
	"fmt"

	"github.com/doeshing/medilogic/internal/app"
	"github.com/doeshing/medilogic/internal/application/intake"
	"github.com/doeshing/medilogic/internal/domain"
)

// OpenController opens the terminal session backend and builds a controller
// whose history is scoped to sessionID. The returned func closes the backend.
func OpenController(ctx context.Context, container *app.Container, sessionID string, term *Terminal) (*intake.Controller, func(), error) {
	if container == nil {
		return nil, nil, fmt.Errorf("container unavailable")
	}
	if sessionID == "" {
		sessionID = domain.DefaultCLISession
	}
	name := container.Config.Session.BackendFor(true)
	backend, err := container.OpenSessionBackend(ctx, name)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s session storage: %w", name, err)
	}
	controller := container.NewController(backend.Open(sessionID), term, term, term)
	closeFn := func() {
		if err := backend.Close(); err != nil {
			container.Logger.Warn("closing session storage", map[string]interface{}{"error": err.Error()})
		}
	}
	return controller, closeFn, nil
}
