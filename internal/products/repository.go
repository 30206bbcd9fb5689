package products

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// DB é o recorte do pool que o repositório usa.
// Permite testar o repositório com fakes sem tocar o banco.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository acessa as tabelas products e packs.
// Contém SQL e mapeamento DB → modelo.
type Repository struct {
	database DB
}

// NewRepository cria um repositório de produtos.
func NewRepository(database DB) *Repository {
	return &Repository{database: database}
}

// FindByCodes carrega os produtos cujos códigos estão em codes, cada um com as
// duas visões de adjacência da relação de pacotes embutidas. Códigos sem
// produto correspondente simplesmente não aparecem no resultado; é o chamador
// que detecta a lacuna por diferença de conjuntos.
//
// Uma única ida ao banco por visão, com ANY($1), em vez de uma consulta por
// código: a mesma chamada serve a busca de fechamento da regra de pacotes.
func (repository *Repository) FindByCodes(ctx context.Context, codes []int64) ([]Product, error) {
	if len(codes) == 0 {
		return nil, nil
	}

	const productsQuery = `
		SELECT code, name, cost_price::text, sales_price::text
		FROM products
		WHERE code = ANY($1)
		ORDER BY code;
	`

	rows, err := repository.database.Query(ctx, productsQuery, codes)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var found []Product
	index := make(map[int64]int)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		index[product.Code] = len(found)
		found = append(found, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read products: %w", err)
	}

	if len(found) == 0 {
		return nil, nil
	}

	if err := repository.attachComponents(ctx, found, index); err != nil {
		return nil, err
	}
	if err := repository.attachMemberships(ctx, found, index); err != nil {
		return nil, err
	}

	return found, nil
}

// attachComponents embute, em cada pacote carregado, seus membros com o
// produto membro completo (necessário para somar preços efetivos).
func (repository *Repository) attachComponents(ctx context.Context, found []Product, index map[int64]int) error {
	const query = `
		SELECT k.pack_id, k.qty, p.code, p.name, p.cost_price::text, p.sales_price::text
		FROM packs k
		JOIN products p ON p.code = k.product_id
		WHERE k.pack_id = ANY($1)
		ORDER BY k.pack_id, p.code;
	`

	rows, err := repository.database.Query(ctx, query, codesOf(found))
	if err != nil {
		return fmt.Errorf("query pack components: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			packCode   int64
			qty        int64
			member     Product
			costPrice  string
			salesPrice string
		)
		if err := rows.Scan(&packCode, &qty, &member.Code, &member.Name, &costPrice, &salesPrice); err != nil {
			return fmt.Errorf("scan pack component: %w", err)
		}
		if member.CostPrice, err = decimal.NewFromString(costPrice); err != nil {
			return fmt.Errorf("parse member cost price: %w", err)
		}
		if member.SalesPrice, err = decimal.NewFromString(salesPrice); err != nil {
			return fmt.Errorf("parse member sales price: %w", err)
		}

		i := index[packCode]
		found[i].Components = append(found[i].Components, PackComponent{
			PackCode: packCode,
			Member:   member,
			Qty:      qty,
		})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("read pack components: %w", err)
	}

	return nil
}

// attachMemberships embute a visão inversa: de quais pacotes cada produto
// carregado participa, com código do pacote dono e quantidade.
func (repository *Repository) attachMemberships(ctx context.Context, found []Product, index map[int64]int) error {
	const query = `
		SELECT k.pack_id, k.product_id, k.qty
		FROM packs k
		WHERE k.product_id = ANY($1)
		ORDER BY k.product_id, k.pack_id;
	`

	rows, err := repository.database.Query(ctx, query, codesOf(found))
	if err != nil {
		return fmt.Errorf("query pack memberships: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var membership PackMembership
		if err := rows.Scan(&membership.PackCode, &membership.MemberCode, &membership.Qty); err != nil {
			return fmt.Errorf("scan pack membership: %w", err)
		}

		i := index[membership.MemberCode]
		found[i].Memberships = append(found[i].Memberships, membership)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("read pack memberships: %w", err)
	}

	return nil
}

// UpdateSalesPrice grava o novo preço de venda de um produto.
// Zero linhas afetadas vira ErrorNotFound: a aplicação falha a chamada em vez
// de pular a linha silenciosamente.
func (repository *Repository) UpdateSalesPrice(ctx context.Context, code int64, newPrice decimal.Decimal) error {
	const query = `
		UPDATE products
		SET sales_price = $2::numeric
		WHERE code = $1;
	`

	tag, err := repository.database.Exec(ctx, query, code, newPrice.String())
	if err != nil {
		return fmt.Errorf("update sales price: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrorNotFound
	}

	return nil
}

// List devolve uma página do catálogo ordenada por código.
func (repository *Repository) List(ctx context.Context, limit, offset int) ([]Product, error) {
	const query = `
		SELECT code, name, cost_price::text, sales_price::text
		FROM products
		ORDER BY code
		LIMIT $1 OFFSET $2;
	`

	rows, err := repository.database.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query product list: %w", err)
	}
	defer rows.Close()

	var listed []Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		listed = append(listed, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read product list: %w", err)
	}

	return listed, nil
}

// Count devolve o total de produtos do catálogo (para paginação).
func (repository *Repository) Count(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM products;`

	var total int
	if err := repository.database.QueryRow(ctx, query).Scan(&total); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}

	return total, nil
}

func scanProduct(rows pgx.Rows) (Product, error) {
	var (
		product    Product
		costPrice  string
		salesPrice string
	)
	if err := rows.Scan(&product.Code, &product.Name, &costPrice, &salesPrice); err != nil {
		return Product{}, fmt.Errorf("scan product: %w", err)
	}

	var err error
	if product.CostPrice, err = decimal.NewFromString(costPrice); err != nil {
		return Product{}, fmt.Errorf("parse cost price: %w", err)
	}
	if product.SalesPrice, err = decimal.NewFromString(salesPrice); err != nil {
		return Product{}, fmt.Errorf("parse sales price: %w", err)
	}

	return product, nil
}

func codesOf(found []Product) []int64 {
	codes := make([]int64, len(found))
	for i, product := range found {
		codes[i] = product.Code
	}
	return codes
}
