package products

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

// Colunas reconhecidas do CSV de atualização de preços.
// A ordem de declaração define a ordem dos erros dentro de uma mesma linha.
const (
	fieldProductCode = "product_code"
	fieldNewPrice    = "new_price"
)

// Mensagens de erro de campo, no formato exibido ao operador.
const (
	msgTypeNumber  = "Tipo incorreto; esperava 'number', mas recebi 'nan'."
	msgTypeInteger = "Tipo incorreto; esperava 'integer', mas recebi 'float'."
	msgMinimum     = "O valor deve ser maior ou igual a 0."
	msgUnknown     = "Erro desconhecido."
)

// ParseRecords tokeniza o corpo CSV em registros coluna→valor, preservando a
// ordem das linhas. A primeira linha é o cabeçalho; linhas em branco são
// puladas pelo tokenizador.
func ParseRecords(csvText string) ([]map[string]string, error) {
	reader := csv.NewReader(strings.NewReader(csvText))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var records []map[string]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}

		record := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(row) {
				record[name] = strings.TrimSpace(row[i])
			}
		}
		records = append(records, record)
	}

	return records, nil
}

// ValidateRecords coage cada registro em um PriceUpdate tipado.
// Qualquer falha de campo rejeita o lote inteiro: devolvemos todos os erros,
// na ordem das linhas e, dentro da linha, na ordem das colunas.
func ValidateRecords(records []map[string]string) ([]PriceUpdate, []string) {
	updates := make([]PriceUpdate, 0, len(records))
	var errs []string

	for i, record := range records {
		code, codeMsg := coerceCode(record[fieldProductCode])
		if codeMsg != "" {
			errs = append(errs, fieldError(i, fieldProductCode, codeMsg))
		}

		price, priceMsg := coercePrice(record[fieldNewPrice])
		if priceMsg != "" {
			errs = append(errs, fieldError(i, fieldNewPrice, priceMsg))
		}

		if codeMsg == "" && priceMsg == "" {
			updates = append(updates, PriceUpdate{Code: code, NewPrice: price})
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return updates, nil
}

// fieldError monta "Linha {L} (coluna '{campo}'): {msg}". O índice é 0-based
// dentro do corpo; +2 cobre a exibição 1-based e a linha de cabeçalho.
func fieldError(index int, field, msg string) string {
	return fmt.Sprintf("Linha %d (coluna '%s'): %s", index+2, field, msg)
}

// coerceNumber segue a coerção do formato de upload: campo vazio ou ausente
// vale zero; qualquer outro token precisa ser numérico.
func coerceNumber(raw string) (decimal.Decimal, bool) {
	if raw == "" {
		return decimal.Zero, true
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return value, true
}

func coerceCode(raw string) (int64, string) {
	value, ok := coerceNumber(raw)
	if !ok {
		return 0, msgTypeNumber
	}
	if !value.IsInteger() {
		return 0, msgTypeInteger
	}
	if value.Sign() <= 0 {
		return 0, msgMinimum
	}
	if !value.BigInt().IsInt64() {
		return 0, msgUnknown
	}
	return value.IntPart(), ""
}

func coercePrice(raw string) (decimal.Decimal, string) {
	value, ok := coerceNumber(raw)
	if !ok {
		return decimal.Decimal{}, msgTypeNumber
	}
	if value.Sign() <= 0 {
		return decimal.Decimal{}, msgMinimum
	}
	return value, ""
}
