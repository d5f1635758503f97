package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/UMDhodi/Obsidian/internal/domain"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

type Repository struct {
	db *sql.DB
}

func (r *Repository) RunMigrations(migrationsPath string) error {
	driver, err := sqlite.WithInstance(r.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		"sqlite",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func NewRepository(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one connection so ":memory:" databases are shared by every query
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Repository{db: db}, nil
}

const productColumns = `id, name, tagline, description, category, type, image_url, price, benefits, in_stock`

// GetAllProducts returns the catalog in display order
func (r *Repository) GetAllProducts(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY position`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return products, nil
}

func (r *Repository) GetQuotes(ctx context.Context) ([]domain.Quote, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT text, author FROM quotes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query quotes: %w", err)
	}
	defer rows.Close()

	var quotes []domain.Quote
	for rows.Next() {
		var q domain.Quote
		if err := rows.Scan(&q.Text, &q.Author); err != nil {
			return nil, fmt.Errorf("failed to scan quote: %w", err)
		}
		quotes = append(quotes, q)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return quotes, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func scanProduct(row *sql.Rows) (domain.Product, error) {
	var (
		p                     domain.Product
		category, kind, price string
		benefits              string
	)
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Tagline,
		&p.Description,
		&category,
		&kind,
		&p.ImageURL,
		&price,
		&benefits,
		&p.InStock,
	)
	if err != nil {
		return p, fmt.Errorf("failed to scan product: %w", err)
	}

	if p.Category, err = domain.ParseCategory(category); err != nil {
		return p, fmt.Errorf("product %s: %w", p.ID, err)
	}
	if p.Type, err = domain.ParseProductType(kind); err != nil {
		return p, fmt.Errorf("product %s: %w", p.ID, err)
	}
	if p.Price, err = decimal.NewFromString(price); err != nil {
		return p, fmt.Errorf("product %s: invalid price %q: %w", p.ID, price, err)
	}
	if err := json.Unmarshal([]byte(benefits), &p.Benefits); err != nil {
		return p, fmt.Errorf("product %s: invalid benefits: %w", p.ID, err)
	}
	return p, nil
}
