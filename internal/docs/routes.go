package docs

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta as rotas de documentação (Swagger UI + OpenAPI YAML).
func RegisterRoutes(r chi.Router) {
	// Suporta /docs (sem barra) redirecionando para /docs/
	r.Get("/docs", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/docs/", http.StatusMovedPermanently)
	})

	r.Route("/docs", func(r chi.Router) {
		// Swagger UI
		r.Get("/", SwaggerUIHandler())

		// Spec OpenAPI embutida (o swagger.html a consome por URL).
		r.Get("/openapi.yaml", OpenAPIHandler())
	})
}
