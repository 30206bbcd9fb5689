package products

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmfarias/pricing-api-golang/internal/httpx"
)

// maxCSVBodyBytes limita o corpo dos uploads de CSV.
const maxCSVBodyBytes = 4 << 20

// ServiceAPI define o que o handler precisa do service.
// Permite testar handlers com stubs sem tocar o banco.
type ServiceAPI interface {
	Validate(ctx context.Context, csvText string) (Validation, error)
	ApplyUpdate(ctx context.Context, csvText string) (int, []string, error)
	List(ctx context.Context, page, limit int) ([]Product, int, error)
}

// Handler HTTP de produtos. Só traduz HTTP <-> domínio (service).
type Handler struct {
	service ServiceAPI
}

// NewHandler cria um handler de produtos.
func NewHandler(service ServiceAPI) *Handler {
	return &Handler{service: service}
}

type pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// List atende GET /products com paginação.
func (handler *Handler) List(writer http.ResponseWriter, request *http.Request) {
	page, limit, err := parsePagination(request)
	if err != nil {
		httpx.Fail(writer, request, http.StatusBadRequest, "invalid_pagination", "invalid pagination parameters")
		return
	}

	listed, total, err := handler.service.List(request.Context(), page, limit)
	if err != nil {
		switch {
		case errors.Is(err, ErrorInvalidInput):
			httpx.Fail(writer, request, http.StatusBadRequest, "invalid_input", "invalid input data")
		default:
			// Não vazamos detalhes internos.
			httpx.Fail(writer, request, http.StatusInternalServerError, "internal_error", "unexpected error")
		}
		return
	}

	httpx.OK(writer, request, http.StatusOK, map[string]any{
		"products": listed,
		"pagination": pagination{
			Page:  page,
			Limit: limit,
			Total: total,
		},
	})
}

// Validate atende POST /products/validate com o CSV no corpo (texto puro).
// Nada é gravado; a resposta diz se o lote seria aceito.
func (handler *Handler) Validate(writer http.ResponseWriter, request *http.Request) {
	csvText, ok := readCSVBody(writer, request)
	if !ok {
		return
	}

	validation, err := handler.service.Validate(request.Context(), csvText)
	if err != nil {
		failValidatePipeline(writer, request, err)
		return
	}

	switch {
	case len(validation.MissingCodes) > 0:
		httpx.FailWith(writer, request, http.StatusBadRequest, "missing_codes",
			"uploaded codes not found in catalog", validation.MissingCodes)
	case len(validation.Errors) > 0:
		httpx.FailWith(writer, request, http.StatusBadRequest, "validation_error",
			"price update rejected", validation.Errors)
	default:
		httpx.OK(writer, request, http.StatusOK, validation.Results)
	}
}

// Update atende POST /products/update. Assume lote já validado pelo chamador:
// revalida apenas a forma dos registros e grava preço a preço.
func (handler *Handler) Update(writer http.ResponseWriter, request *http.Request) {
	csvText, ok := readCSVBody(writer, request)
	if !ok {
		return
	}

	applied, fieldErrors, err := handler.service.ApplyUpdate(request.Context(), csvText)
	if err != nil {
		switch {
		case errors.Is(err, ErrorInvalidCSV):
			httpx.Fail(writer, request, http.StatusBadRequest, "invalid_csv", "malformed csv body")
		case errors.Is(err, ErrorNotFound):
			httpx.Fail(writer, request, http.StatusNotFound, "not_found", err.Error())
		default:
			httpx.Fail(writer, request, http.StatusInternalServerError, "internal_error", "unexpected error")
		}
		return
	}
	if len(fieldErrors) > 0 {
		httpx.FailWith(writer, request, http.StatusBadRequest, "validation_error",
			"price update rejected", fieldErrors)
		return
	}

	httpx.OK(writer, request, http.StatusOK, map[string]any{
		"updated": applied,
	})
}

func failValidatePipeline(writer http.ResponseWriter, request *http.Request, err error) {
	switch {
	case errors.Is(err, ErrorInvalidCSV):
		httpx.Fail(writer, request, http.StatusBadRequest, "invalid_csv", "malformed csv body")
	default:
		httpx.Fail(writer, request, http.StatusInternalServerError, "internal_error", "unexpected error")
	}
}

func readCSVBody(writer http.ResponseWriter, request *http.Request) (string, bool) {
	body, err := io.ReadAll(io.LimitReader(request.Body, maxCSVBodyBytes))
	if err != nil {
		httpx.Fail(writer, request, http.StatusBadRequest, "invalid_body", "could not read request body")
		return "", false
	}
	return string(body), true
}

// parsePagination parseia page e limit com defaults e limites razoáveis.
func parsePagination(request *http.Request) (int, int, error) {
	const (
		defaultPage  = 1
		defaultLimit = 20
		maxLimit     = 100
	)

	query := request.URL.Query()

	page := defaultPage
	limit := defaultLimit

	if value := strings.TrimSpace(query.Get("page")); value != "" {
		pageNumber, err := strconv.Atoi(value)
		if err != nil || pageNumber < 1 {
			return 0, 0, err
		}
		page = pageNumber
	}

	if value := strings.TrimSpace(query.Get("limit")); value != "" {
		limitNumber, err := strconv.Atoi(value)
		if err != nil || limitNumber < 1 {
			return 0, 0, err
		}
		if limitNumber > maxLimit {
			limitNumber = maxLimit
		}
		limit = limitNumber
	}

	return page, limit, nil
}
