package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmfarias/pricing-api-golang/internal/config"
	"github.com/dmfarias/pricing-api-golang/internal/db"
	"github.com/dmfarias/pricing-api-golang/internal/docs"
	"github.com/dmfarias/pricing-api-golang/internal/health"
	"github.com/dmfarias/pricing-api-golang/internal/httpx"
	"github.com/dmfarias/pricing-api-golang/internal/products"
)

// appPool é o recorte do pool de conexões que a aplicação usa.
// *pgxpool.Pool o satisfaz; os testes injetam fakes.
type appPool interface {
	products.DB
	Ping(ctx context.Context) error
	Close()
}

// appDeps agrupa as dependências de run para facilitar teste.
type appDeps struct {
	loadConfig     func() (config.Config, error)
	newPool        func(ctx context.Context, url string) (appPool, error)
	listenAndServe func(addr string, handler http.Handler) error
	logf           func(format string, args ...any)
}

var (
	loadConfigFn = config.Load
	newPoolFn    = func(ctx context.Context, url string) (appPool, error) {
		pool, err := db.NewPool(ctx, url)
		if err != nil {
			return nil, err
		}
		return pool, nil
	}
	listenAndServeFn = http.ListenAndServe
	logfFn           = log.Printf
	fatalf           = func(args ...any) {
		log.Fatal(args...)
	}
)

func main() {
	deps := appDeps{
		loadConfig:     loadConfigFn,
		newPool:        newPoolFn,
		listenAndServe: listenAndServeFn,
		logf:           logfFn,
	}

	if err := run(context.Background(), deps); err != nil {
		fatalf(err)
	}
}

func run(ctx context.Context, deps appDeps) error {
	cfg, err := deps.loadConfig()
	if err != nil {
		return err
	}

	pool, err := deps.newPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	router := buildRouter(pool)

	addr := ":" + cfg.Port
	deps.logf("listening on %s", addr)
	return deps.listenAndServe(addr, router)
}

func buildRouter(pool appPool) chi.Router {
	router := chi.NewRouter()

	// Middlewares base para rastreabilidade e estabilidade.
	router.Use(httpx.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(10 * time.Second))

	// Erros de routing tratados no nível do router.
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.Fail(w, r, http.StatusNotFound, "not_found", "resource not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.Fail(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	healthHandler := health.New(pool)
	router.Get("/health", healthHandler.Health)
	router.Get("/ready", healthHandler.Ready)

	docs.RegisterRoutes(router)

	repository := products.NewRepository(pool)
	service := products.NewService(repository)
	products.RegisterRoutes(router, products.NewHandler(service))

	return router
}
