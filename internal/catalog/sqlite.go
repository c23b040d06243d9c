package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/temcen/laptop-advisor/pkg/models"
)

// SQLiteCatalog is a file-backed catalog for local runs and the CLI.
type SQLiteCatalog struct {
	db *sql.DB
}

func NewSQLiteCatalog(dbPath string) (*SQLiteCatalog, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}
	// A single connection keeps :memory: databases shared across calls.
	db.SetMaxOpenConns(1)

	c := &SQLiteCatalog{db: db}
	if err := c.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize catalog schema: %w", err)
	}
	return c, nil
}

func (c *SQLiteCatalog) Close() error {
	return c.db.Close()
}

func (c *SQLiteCatalog) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

func (c *SQLiteCatalog) initSchema() error {
	_, err := c.db.Exec(`
		CREATE TABLE IF NOT EXISTS laptops (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			brand TEXT NOT NULL,
			price REAL NOT NULL,
			processor TEXT NOT NULL DEFAULT '',
			ram TEXT NOT NULL DEFAULT '',
			storage TEXT NOT NULL DEFAULT '',
			graphics TEXT NOT NULL DEFAULT '',
			release_year INTEGER
		)
	`)
	if err != nil {
		return err
	}
	_, err = c.db.Exec(`CREATE INDEX IF NOT EXISTS idx_laptops_price ON laptops(price)`)
	return err
}

// Upsert inserts or replaces products.
func (c *SQLiteCatalog) Upsert(ctx context.Context, products []models.CandidateProduct) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin catalog transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO laptops (id, name, brand, price, processor, ram, storage, graphics, release_year)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare catalog insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range products {
		var year sql.NullInt64
		if p.ReleaseYear != nil {
			year = sql.NullInt64{Int64: int64(*p.ReleaseYear), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, p.ID, p.Name, p.Brand, p.Price,
			p.Specs.Processor, p.Specs.RAM, p.Specs.Storage, p.Specs.Graphics, year); err != nil {
			return fmt.Errorf("failed to insert laptop %s: %w", p.ID, err)
		}
	}

	return tx.Commit()
}

func (c *SQLiteCatalog) Query(ctx context.Context, filter models.CatalogFilter) ([]models.CandidateProduct, error) {
	query := `SELECT ` + laptopColumns + ` FROM laptops WHERE price BETWEEN ? AND ?`
	args := []interface{}{filter.PriceMin, filter.PriceMax}

	if brands := lowerBrands(filter.Brands); len(brands) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(brands)), ",")
		query += ` AND lower(brand) IN (` + placeholders + `)`
		for _, b := range brands {
			args = append(args, b)
		}
	}
	query += ` ORDER BY id`

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("catalog query failed: %w", err)
	}
	defer rows.Close()

	var products []models.CandidateProduct
	for rows.Next() {
		var p models.CandidateProduct
		var year sql.NullInt64
		if err := rows.Scan(&p.ID, &p.Name, &p.Brand, &p.Price,
			&p.Specs.Processor, &p.Specs.RAM, &p.Specs.Storage, &p.Specs.Graphics, &year); err != nil {
			return nil, fmt.Errorf("failed to scan laptop row: %w", err)
		}
		if year.Valid {
			y := int(year.Int64)
			p.ReleaseYear = &y
		}
		products = append(products, withReleaseYear(p))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating laptop rows: %w", err)
	}

	return products, nil
}
