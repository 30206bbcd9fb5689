package products

import "github.com/shopspring/decimal"

// Product representa um registro do catálogo.
// Preços em decimal para comparação exata (DB: numeric(10,2)); float aqui
// geraria divergências espúrias na regra de consistência de pacotes.
type Product struct {
	Code       int64           `json:"code,string"`
	Name       string          `json:"name"`
	CostPrice  decimal.Decimal `json:"cost_price"`
	SalesPrice decimal.Decimal `json:"sales_price"`

	// Components: relações em que este produto é o pacote (membro embutido).
	Components []PackComponent `json:"-"`
	// Memberships: relações em que este produto é membro de algum pacote.
	Memberships []PackMembership `json:"-"`
}

// IsPack diz se o produto compõe um pacote (tem ao menos um membro).
func (product Product) IsPack() bool {
	return len(product.Components) > 0
}

// PackComponent é uma aresta pacote→membro com o produto membro embutido.
type PackComponent struct {
	PackCode int64
	Member   Product
	Qty      int64
}

// PackMembership é a visão inversa: membro→pacote dono.
type PackMembership struct {
	PackCode   int64
	MemberCode int64
	Qty        int64
}

// PriceUpdate é uma linha do CSV já coagida e validada.
// Vive apenas durante uma requisição; a ordem segue as linhas do arquivo.
type PriceUpdate struct {
	Code     int64
	NewPrice decimal.Decimal
}

// ValidateResult é uma entrada do payload de aceitação da validação.
// Code serializa como string (compatível com clientes que não lidam
// com inteiros de 64 bits em JSON).
type ValidateResult struct {
	Code         int64  `json:"code,string"`
	Name         string `json:"name"`
	CurrentPrice string `json:"current_price"`
	NewPrice     string `json:"new_price"`
}
