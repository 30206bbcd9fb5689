package httpx

import (
	"encoding/json"
	"net/http"
	"time"
)

// Response é o envelope padrão que a API devolve.
// Manter um formato consistente simplifica os clientes (frontend/tests).
type Response struct {
	Data  any        `json:"data,omitempty"`
	Error *ErrorBody `json:"error,omitempty"`
	Meta  *Meta      `json:"meta,omitempty"`
}

// Meta carrega informação adicional útil para debugging e rastreabilidade.
type Meta struct {
	RequestID string `json:"request_id,omitempty"`
	TimeUTC   string `json:"time_utc,omitempty"`
}

// ErrorBody descreve um erro de forma estruturada.
// Details carrega o payload específico do erro (lista de códigos ausentes,
// lista de violações de regra). Não expor detalhes internos (SQL, stack).
type ErrorBody struct {
	Code    string `json:"code,omitempty"`    // ex: "validation_error", "missing_codes"
	Message string `json:"message,omitempty"` // mensagem para humanos
	Details any    `json:"details,omitempty"`
}

// JSON escreve uma resposta JSON com os headers corretos.
// Nota: se o encode falhar, responde 500 de forma segura.
func JSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)

	if err := enc.Encode(resp); err != nil {
		// Último recurso: não foi possível serializar JSON.
		http.Error(w, `{"error":{"code":"internal","message":"internal server error"}}`, http.StatusInternalServerError)
	}
}

// OK devolve uma resposta de sucesso com data.
func OK(w http.ResponseWriter, r *http.Request, status int, data any) {
	JSON(w, status, Response{
		Data: data,
		Meta: newMeta(r),
	})
}

// Fail devolve um erro estruturado sem payload adicional.
func Fail(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	FailWith(w, r, status, code, message, nil)
}

// FailWith devolve um erro estruturado com payload em Details.
func FailWith(w http.ResponseWriter, r *http.Request, status int, code, message string, details any) {
	JSON(w, status, Response{
		Error: &ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
		Meta: newMeta(r),
	})
}

func newMeta(r *http.Request) *Meta {
	return &Meta{
		RequestID: RequestIDFrom(r),
		TimeUTC:   time.Now().UTC().Format(time.RFC3339),
	}
}
