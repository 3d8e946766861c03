package api

import (
	"net/http"

	"github.com/ng-vanquang/priorart-p-dev/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain) {
	routes.Register(
		mux,
		domain.Prompts.Handler().Routes(),
		domain.Runs.Handler().Routes(),
	)
}
