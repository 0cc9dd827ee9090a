package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/karimzak/shopchat/internal/db"
)

// Store reads and seeds the catalog tables in SQLite. It implements Source.
type Store struct {
	db *db.DB
}

// NewStore creates a catalog store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Fetch loads the full catalog as a snapshot.
func (s *Store) Fetch(ctx context.Context) (*Snapshot, error) {
	products, err := s.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := s.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Products: products, Categories: categories}, nil
}

// ListProducts returns all products, active or not, in stable id order.
func (s *Store) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, category, brand, description, price, count_in_stock, rating, num_reviews, is_active
		 FROM products ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		var active int
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Brand, &p.Description,
			&p.Price, &p.CountInStock, &p.Rating, &p.NumReviews, &active); err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		p.IsActive = active != 0
		products = append(products, p)
	}
	return products, rows.Err()
}

// ListCategories returns all category names in alphabetical order.
func (s *Store) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		categories = append(categories, name)
	}
	return categories, rows.Err()
}

// UpsertProduct inserts or replaces a product.
func (s *Store) UpsertProduct(ctx context.Context, p Product) error {
	active := 0
	if p.IsActive {
		active = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO products (id, name, category, brand, description, price, count_in_stock, rating, num_reviews, is_active, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name, category = excluded.category, brand = excluded.brand,
		   description = excluded.description, price = excluded.price,
		   count_in_stock = excluded.count_in_stock, rating = excluded.rating,
		   num_reviews = excluded.num_reviews, is_active = excluded.is_active,
		   updated_at = excluded.updated_at`,
		p.ID, p.Name, p.Category, p.Brand, p.Description, p.Price,
		p.CountInStock, p.Rating, p.NumReviews, active, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("upserting product %q: %w", p.ID, err)
	}
	return nil
}

// UpsertCategory inserts a category name if it is not already present.
func (s *Store) UpsertCategory(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (name) VALUES (?) ON CONFLICT(name) DO NOTHING`, name)
	if err != nil {
		return fmt.Errorf("upserting category %q: %w", name, err)
	}
	return nil
}
