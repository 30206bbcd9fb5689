package products

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func price(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	return decimal.RequireFromString(value)
}

func TestCheckCostFloor(t *testing.T) {
	catalog := []Product{
		{Code: 2, Name: "Noodles", CostPrice: price(t, "4.80"), SalesPrice: price(t, "5.00")},
	}

	t.Run("below cost", func(t *testing.T) {
		uploaded := map[int64]decimal.Decimal{2: price(t, "4.00")}

		violations := checkCostFloor(catalog, uploaded)

		require.Equal(t, []string{
			"Novo preço para o produto 2 é menor que o preço de custo (4.00 < 4.80)",
		}, violations)
	})

	t.Run("equal to cost passes", func(t *testing.T) {
		uploaded := map[int64]decimal.Decimal{2: price(t, "4.80")}

		require.Empty(t, checkCostFloor(catalog, uploaded))
	})

	t.Run("product not uploaded is not checked", func(t *testing.T) {
		require.Empty(t, checkCostFloor(catalog, map[int64]decimal.Decimal{}))
	})
}

func TestCheckBoundedChange(t *testing.T) {
	catalog := []Product{
		{Code: 2, SalesPrice: price(t, "5.00")},
	}

	tests := []struct {
		name     string
		uploaded string
		violates bool
	}{
		{name: "exactly ten percent up passes", uploaded: "5.50", violates: false},
		{name: "just above ten percent up", uploaded: "5.51", violates: true},
		{name: "exactly ten percent down passes", uploaded: "4.50", violates: false},
		{name: "just below ten percent down", uploaded: "4.49", violates: true},
		{name: "unchanged passes", uploaded: "5.00", violates: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uploaded := map[int64]decimal.Decimal{2: price(t, tt.uploaded)}

			violations := checkBoundedChange(catalog, uploaded)

			if tt.violates {
				require.Equal(t, []string{
					"A alteração do valor do produto 2 é maior que 10%",
				}, violations)
			} else {
				require.Empty(t, violations)
			}
		})
	}

	t.Run("zero stored price always violates", func(t *testing.T) {
		zeroPriced := []Product{{Code: 9, SalesPrice: decimal.Zero}}
		uploaded := map[int64]decimal.Decimal{9: price(t, "0.01")}

		violations := checkBoundedChange(zeroPriced, uploaded)

		require.Equal(t, []string{
			"A alteração do valor do produto 9 é maior que 10%",
		}, violations)
	})

	t.Run("product not uploaded is not checked", func(t *testing.T) {
		require.Empty(t, checkBoundedChange(catalog, map[int64]decimal.Decimal{}))
	})
}

// Catálogo dos cenários de pacote: pacote 100 (preço 120.00) com um membro,
// produto 1 (preço 20.00), quantidade 6.
func packCatalog(t *testing.T) []Product {
	t.Helper()

	member := Product{Code: 1, Name: "Ramen", CostPrice: price(t, "3.00"), SalesPrice: price(t, "20.00")}
	pack := Product{
		Code:       100,
		Name:       "Ramen 6un",
		CostPrice:  price(t, "18.00"),
		SalesPrice: price(t, "120.00"),
		Components: []PackComponent{{PackCode: 100, Member: member, Qty: 6}},
	}
	return []Product{pack}
}

func TestCheckPackConsistency(t *testing.T) {
	t.Run("member repriced without pack", func(t *testing.T) {
		uploaded := map[int64]decimal.Decimal{1: price(t, "25")}

		violations := checkPackConsistency(packCatalog(t), uploaded)

		require.Equal(t, []string{
			"O preço do pacote 100 é diferente da soma dos preços dos produtos que o compõem (120.00 != 150.00)",
		}, violations)
	})

	t.Run("member and pack repriced together", func(t *testing.T) {
		uploaded := map[int64]decimal.Decimal{
			1:   price(t, "25"),
			100: price(t, "150"),
		}

		require.Empty(t, checkPackConsistency(packCatalog(t), uploaded))
	})

	t.Run("stored prices already consistent", func(t *testing.T) {
		member := Product{Code: 1, SalesPrice: price(t, "20.00")}
		pack := Product{
			Code:       100,
			SalesPrice: price(t, "120.00"),
			Components: []PackComponent{{PackCode: 100, Member: member, Qty: 6}},
		}

		require.Empty(t, checkPackConsistency([]Product{pack}, nil))
	})

	t.Run("plain products are skipped", func(t *testing.T) {
		plain := []Product{{Code: 2, SalesPrice: price(t, "5.00")}}
		uploaded := map[int64]decimal.Decimal{2: price(t, "9.99")}

		require.Empty(t, checkPackConsistency(plain, uploaded))
	})

	t.Run("exact decimal sum", func(t *testing.T) {
		// 3 × 0.10 = 0.30 deve bater exatamente; em float binário não bate.
		member := Product{Code: 7, SalesPrice: price(t, "0.10")}
		pack := Product{
			Code:       70,
			SalesPrice: price(t, "0.30"),
			Components: []PackComponent{{PackCode: 70, Member: member, Qty: 3}},
		}

		require.Empty(t, checkPackConsistency([]Product{pack}, nil))
	})
}

func TestPackClosureCodes(t *testing.T) {
	membership := PackMembership{PackCode: 100, MemberCode: 1, Qty: 6}

	t.Run("member uploaded without its pack", func(t *testing.T) {
		catalog := []Product{{Code: 1, Memberships: []PackMembership{membership}}}
		uploaded := map[int64]decimal.Decimal{1: decimal.NewFromInt(25)}

		require.Equal(t, []int64{100}, packClosureCodes(catalog, uploaded))
	})

	t.Run("owning pack also uploaded", func(t *testing.T) {
		catalog := []Product{{Code: 1, Memberships: []PackMembership{membership}}}
		uploaded := map[int64]decimal.Decimal{
			1:   decimal.NewFromInt(25),
			100: decimal.NewFromInt(150),
		}

		require.Empty(t, packClosureCodes(catalog, uploaded))
	})

	t.Run("siblings deduplicate the pack", func(t *testing.T) {
		catalog := []Product{
			{Code: 1, Memberships: []PackMembership{{PackCode: 100, MemberCode: 1, Qty: 2}}},
			{Code: 3, Memberships: []PackMembership{{PackCode: 100, MemberCode: 3, Qty: 1}}},
		}
		uploaded := map[int64]decimal.Decimal{
			1: decimal.NewFromInt(25),
			3: decimal.NewFromInt(10),
		}

		require.Equal(t, []int64{100}, packClosureCodes(catalog, uploaded))
	})

	t.Run("packs in catalog are not closure candidates", func(t *testing.T) {
		catalog := []Product{{
			Code:        100,
			Components:  []PackComponent{{PackCode: 100, Member: Product{Code: 1}, Qty: 6}},
			Memberships: []PackMembership{{PackCode: 900, MemberCode: 100, Qty: 1}},
		}}
		uploaded := map[int64]decimal.Decimal{100: decimal.NewFromInt(150)}

		require.Empty(t, packClosureCodes(catalog, uploaded))
	})

	t.Run("product not uploaded contributes nothing", func(t *testing.T) {
		catalog := []Product{{Code: 1, Memberships: []PackMembership{membership}}}

		require.Empty(t, packClosureCodes(catalog, map[int64]decimal.Decimal{}))
	})
}
