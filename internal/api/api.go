// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/ng-vanquang/priorart-p-dev/internal/config"
	"github.com/ng-vanquang/priorart-p-dev/internal/infrastructure"
	"github.com/ng-vanquang/priorart-p-dev/pkg/middleware"
	"github.com/ng-vanquang/priorart-p-dev/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
// The returned Domain exposes the run system so the server can stop active
// pipeline runs on shutdown.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, *Domain, error) {
	runtime := NewRuntime(cfg, infra)

	domain, err := NewDomain(runtime)
	if err != nil {
		return nil, nil, err
	}

	mux := http.NewServeMux()
	registerRoutes(mux, domain)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))

	return m, domain, nil
}
