package products

import "github.com/go-chi/chi/v5"

// RegisterRoutes registra as rotas de produtos no router.
// Separado para o main.go não crescer sem controle.
func RegisterRoutes(route chi.Router, handler *Handler) {
	route.Route("/products", func(route chi.Router) {
		route.Get("/", handler.List)
		route.Post("/validate", handler.Validate)
		route.Post("/update", handler.Update)
	})
}
