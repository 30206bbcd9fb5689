package health

import (
	"context"
	"net/http"
	"time"

	"github.com/dmfarias/pricing-api-golang/internal/httpx"
)

// Pinger é o que o readiness check precisa do pool de conexões.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler encapsula os endpoints de health.
type Handler struct {
	database Pinger
}

// New cria um handler de health.
func New(database Pinger) *Handler {
	return &Handler{database: database}
}

// Health indica se o processo está vivo. NÃO checa o banco; isso é /ready.
func (handler *Handler) Health(w http.ResponseWriter, r *http.Request) {
	httpx.OK(w, r, http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready indica se a aplicação consegue atender tráfego (banco acessível).
func (handler *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if err := handler.database.Ping(r.Context()); err != nil {
		httpx.Fail(w, r, http.StatusServiceUnavailable, "not_ready", "database unreachable")
		return
	}

	httpx.OK(w, r, http.StatusOK, map[string]any{
		"status": "ready",
	})
}
