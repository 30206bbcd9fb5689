package products

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// maxRelativeChange é o limite de variação de preço por upload (10%).
var maxRelativeChange = decimal.RequireFromString("0.1")

// resolvePrice devolve o preço efetivo do produto após o upload: o valor
// enviado, se o código está no lote, senão o preço de venda armazenado.
func resolvePrice(product Product, uploaded map[int64]decimal.Decimal) decimal.Decimal {
	if price, ok := uploaded[product.Code]; ok {
		return price
	}
	return product.SalesPrice
}

// checkCostFloor: o novo preço de um produto do lote não pode ficar abaixo do
// preço de custo armazenado (o custo nunca é sobrescrito pelo upload).
func checkCostFloor(catalog []Product, uploaded map[int64]decimal.Decimal) []string {
	var violations []string

	for _, product := range catalog {
		newPrice, ok := uploaded[product.Code]
		if !ok {
			continue
		}
		if newPrice.LessThan(product.CostPrice) {
			violations = append(violations, fmt.Sprintf(
				"Novo preço para o produto %d é menor que o preço de custo (%s < %s)",
				product.Code, newPrice.StringFixed(2), product.CostPrice.StringFixed(2)))
		}
	}

	return violations
}

// checkBoundedChange: a variação relativa do preço de venda não pode exceder
// 10%; exatamente 10% passa. Calculado sem divisão (|novo − atual| vs
// atual × 0.1) para manter a comparação exata em decimal.
// Produto com preço armazenado zero: qualquer upload viola, já que o novo
// preço é estritamente positivo e a variação relativa não tem limite.
func checkBoundedChange(catalog []Product, uploaded map[int64]decimal.Decimal) []string {
	var violations []string

	for _, product := range catalog {
		newPrice, ok := uploaded[product.Code]
		if !ok {
			continue
		}

		exceeded := false
		if product.SalesPrice.IsZero() {
			exceeded = true
		} else {
			difference := newPrice.Sub(product.SalesPrice).Abs()
			exceeded = difference.GreaterThan(product.SalesPrice.Mul(maxRelativeChange))
		}

		if exceeded {
			violations = append(violations, fmt.Sprintf(
				"A alteração do valor do produto %d é maior que 10%%", product.Code))
		}
	}

	return violations
}

// checkPackConsistency: o preço efetivo de cada pacote deve ser exatamente a
// soma de (preço efetivo do membro × quantidade) sobre seus membros.
// Produtos sem membros são ignorados; a igualdade é decimal exata, sem
// tolerância.
//
// A mesma verificação serve para os dois caminhos da regra: pacotes presentes
// no lote (membros embutidos pelo repositório) e pacotes buscados pelo
// fechamento, cujo preço efetivo é o armazenado por construção.
func checkPackConsistency(catalog []Product, uploaded map[int64]decimal.Decimal) []string {
	var violations []string

	for _, pack := range catalog {
		if !pack.IsPack() {
			continue
		}

		packPrice := resolvePrice(pack, uploaded)

		sum := decimal.Zero
		for _, component := range pack.Components {
			memberPrice := resolvePrice(component.Member, uploaded)
			sum = sum.Add(memberPrice.Mul(decimal.NewFromInt(component.Qty)))
		}

		if !packPrice.Equal(sum) {
			violations = append(violations, fmt.Sprintf(
				"O preço do pacote %d é diferente da soma dos preços dos produtos que o compõem (%s != %s)",
				pack.Code, packPrice.StringFixed(2), sum.StringFixed(2)))
		}
	}

	return violations
}

// packClosureCodes lista os códigos de pacotes que precisam da busca de
// fechamento: donos de produtos simples do lote cujo próprio pacote não veio
// no upload. Pacotes do lote já foram verificados pelo caminho direto.
// A ordem segue o catálogo carregado, sem repetição, para que uma única
// chamada ao repositório cubra todos.
func packClosureCodes(catalog []Product, uploaded map[int64]decimal.Decimal) []int64 {
	seen := make(map[int64]bool)
	var codes []int64

	for _, product := range catalog {
		if _, ok := uploaded[product.Code]; !ok {
			continue
		}
		if product.IsPack() {
			continue
		}
		for _, membership := range product.Memberships {
			if _, inUpload := uploaded[membership.PackCode]; inUpload {
				continue
			}
			if seen[membership.PackCode] {
				continue
			}
			seen[membership.PackCode] = true
			codes = append(codes, membership.PackCode)
		}
	}

	return codes
}
