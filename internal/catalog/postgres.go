package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/temcen/laptop-advisor/pkg/models"
)

// DatabaseQuerier is satisfied by *pgxpool.Pool and pgxmock pools.
type DatabaseQuerier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

type PostgresCatalog struct {
	db DatabaseQuerier
}

func NewPostgresCatalog(db DatabaseQuerier) *PostgresCatalog {
	return &PostgresCatalog{db: db}
}

const laptopColumns = `id, name, brand, price, processor, ram, storage, graphics, release_year`

func (c *PostgresCatalog) Query(ctx context.Context, filter models.CatalogFilter) ([]models.CandidateProduct, error) {
	query := `SELECT ` + laptopColumns + ` FROM laptops WHERE price BETWEEN $1 AND $2`
	args := []interface{}{filter.PriceMin, filter.PriceMax}

	if brands := lowerBrands(filter.Brands); len(brands) > 0 {
		query += ` AND lower(brand) = ANY($3)`
		args = append(args, brands)
	}

	rows, err := c.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("catalog query failed: %w", err)
	}
	defer rows.Close()

	var products []models.CandidateProduct
	for rows.Next() {
		var p models.CandidateProduct
		var year *int
		if err := rows.Scan(&p.ID, &p.Name, &p.Brand, &p.Price,
			&p.Specs.Processor, &p.Specs.RAM, &p.Specs.Storage, &p.Specs.Graphics, &year); err != nil {
			return nil, fmt.Errorf("failed to scan laptop row: %w", err)
		}
		p.ReleaseYear = year
		products = append(products, withReleaseYear(p))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating laptop rows: %w", err)
	}

	return products, nil
}
