package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Erros de domínio (não HTTP). O handler os traduz para status codes.
var (
	ErrorInvalidCSV   = errors.New("malformed csv body")
	ErrorInvalidInput = errors.New("invalid input")
	ErrorNotFound     = errors.New("product not found")
)

// RepositoryAPI define o que o service precisa do repositório.
// Permite testar o service com fakes sem tocar o banco.
type RepositoryAPI interface {
	FindByCodes(ctx context.Context, codes []int64) ([]Product, error)
	UpdateSalesPrice(ctx context.Context, code int64, newPrice decimal.Decimal) error
	List(ctx context.Context, limit, offset int) ([]Product, error)
	Count(ctx context.Context) (int, error)
}

// Service contém as regras de negócio da atualização de preços em lote.
type Service struct {
	repository RepositoryAPI
}

// NewService cria um service de produtos.
func NewService(repository RepositoryAPI) *Service {
	return &Service{repository: repository}
}

// Validation é o desfecho de Validate. Exatamente um dos campos vem
// preenchido:
//   - Results: lote aceito, uma entrada por código enviado;
//   - MissingCodes: códigos do upload sem produto no catálogo;
//   - Errors: erros de campo do CSV ou violações das regras de negócio.
type Validation struct {
	Results      []ValidateResult
	MissingCodes []int64
	Errors       []string
}

// Accepted diz se o lote passou em todas as verificações.
func (validation Validation) Accepted() bool {
	return len(validation.MissingCodes) == 0 && len(validation.Errors) == 0
}

// Validate roda o pipeline completo sobre o corpo CSV: coerção de registros,
// busca no catálogo, diferença de conjuntos para códigos ausentes e as três
// regras de negócio. Não tem efeito colateral: nada é gravado.
//
// As três regras sempre rodam até o fim e suas violações são concatenadas;
// só depois o lote é aceito ou rejeitado.
func (service *Service) Validate(ctx context.Context, csvText string) (Validation, error) {
	records, err := ParseRecords(csvText)
	if err != nil {
		return Validation{}, fmt.Errorf("%w: %v", ErrorInvalidCSV, err)
	}

	updates, fieldErrors := ValidateRecords(records)
	if len(fieldErrors) > 0 {
		// Curto-circuito: lote malformado não toca o banco.
		return Validation{Errors: fieldErrors}, nil
	}

	codes, uploaded := indexUpdates(updates)

	catalog, err := service.repository.FindByCodes(ctx, codes)
	if err != nil {
		return Validation{}, err
	}

	if missing := missingCodes(codes, catalog); len(missing) > 0 {
		return Validation{MissingCodes: missing}, nil
	}

	violations := checkCostFloor(catalog, uploaded)
	violations = append(violations, checkBoundedChange(catalog, uploaded)...)
	violations = append(violations, checkPackConsistency(catalog, uploaded)...)

	// Fechamento da regra de pacotes: pacotes donos de membros editados que
	// não vieram no lote, buscados numa única chamada ao repositório.
	if closure := packClosureCodes(catalog, uploaded); len(closure) > 0 {
		packs, err := service.repository.FindByCodes(ctx, closure)
		if err != nil {
			return Validation{}, err
		}
		violations = append(violations, checkPackConsistency(packs, uploaded)...)
	}

	if len(violations) > 0 {
		return Validation{Errors: violations}, nil
	}

	return Validation{Results: buildResults(codes, uploaded, catalog)}, nil
}

// ApplyUpdate revalida apenas a forma dos registros (não as regras de
// negócio; o chamador deve ter validado antes) e grava cada novo preço.
// As gravações são independentes, sem transação: uma falha no meio do lote
// deixa as linhas anteriores gravadas. Linha sem produto correspondente
// aborta a chamada com ErrorNotFound.
func (service *Service) ApplyUpdate(ctx context.Context, csvText string) (int, []string, error) {
	records, err := ParseRecords(csvText)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrorInvalidCSV, err)
	}

	updates, fieldErrors := ValidateRecords(records)
	if len(fieldErrors) > 0 {
		return 0, fieldErrors, nil
	}

	applied := 0
	for _, update := range updates {
		if err := service.repository.UpdateSalesPrice(ctx, update.Code, update.NewPrice); err != nil {
			if errors.Is(err, ErrorNotFound) {
				return applied, nil, fmt.Errorf("produto %d: %w", update.Code, ErrorNotFound)
			}
			return applied, nil, err
		}
		applied++
	}

	return applied, nil, nil
}

// List devolve uma página do catálogo e o total de produtos.
func (service *Service) List(ctx context.Context, page, limit int) ([]Product, int, error) {
	if page < 1 || limit < 1 {
		return nil, 0, ErrorInvalidInput
	}

	offset := (page - 1) * limit

	listed, err := service.repository.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := service.repository.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	return listed, total, nil
}

// indexUpdates monta o conjunto de códigos (ordem de primeira aparição, sem
// repetição) e o mapa código→novo preço. Código repetido no CSV: a última
// linha vence, como numa aplicação sequencial do lote.
func indexUpdates(updates []PriceUpdate) ([]int64, map[int64]decimal.Decimal) {
	codes := make([]int64, 0, len(updates))
	uploaded := make(map[int64]decimal.Decimal, len(updates))

	for _, update := range updates {
		if _, ok := uploaded[update.Code]; !ok {
			codes = append(codes, update.Code)
		}
		uploaded[update.Code] = update.NewPrice
	}

	return codes, uploaded
}

// missingCodes devolve, na ordem do upload, os códigos pedidos que o catálogo
// não retornou.
func missingCodes(codes []int64, catalog []Product) []int64 {
	found := make(map[int64]bool, len(catalog))
	for _, product := range catalog {
		found[product.Code] = true
	}

	var missing []int64
	for _, code := range codes {
		if !found[code] {
			missing = append(missing, code)
		}
	}
	return missing
}

// buildResults monta o payload de aceitação na ordem do upload, com os dois
// preços formatados com duas casas.
func buildResults(codes []int64, uploaded map[int64]decimal.Decimal, catalog []Product) []ValidateResult {
	byCode := make(map[int64]Product, len(catalog))
	for _, product := range catalog {
		byCode[product.Code] = product
	}

	results := make([]ValidateResult, 0, len(codes))
	for _, code := range codes {
		product := byCode[code]
		results = append(results, ValidateResult{
			Code:         product.Code,
			Name:         product.Name,
			CurrentPrice: product.SalesPrice.StringFixed(2),
			NewPrice:     uploaded[code].StringFixed(2),
		})
	}

	return results
}
