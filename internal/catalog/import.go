package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/karimzak/shopchat/internal/progress"
)

// importFile is the JSON shape accepted by ImportJSON. Categories may be
// omitted; they are then derived from the products.
type importFile struct {
	Products   []Product `json:"products"`
	Categories []string  `json:"categories"`
}

// ImportJSON seeds the catalog store from a JSON file. Products without an
// id get a generated one. Returns the number of imported products.
func ImportJSON(ctx context.Context, store *Store, path string, reporter progress.Reporter) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading catalog file: %w", err)
	}

	var file importFile
	if err := json.Unmarshal(data, &file); err != nil {
		return 0, fmt.Errorf("parsing catalog file: %w", err)
	}

	if reporter != nil {
		reporter.Start(len(file.Products))
	}

	seen := make(map[string]bool)
	for _, c := range file.Categories {
		if c != "" {
			seen[strings.ToLower(c)] = true
			if err := store.UpsertCategory(ctx, c); err != nil {
				return 0, err
			}
		}
	}

	for i, p := range file.Products {
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		if err := store.UpsertProduct(ctx, p); err != nil {
			return i, err
		}
		if p.Category != "" && !seen[strings.ToLower(p.Category)] {
			seen[strings.ToLower(p.Category)] = true
			if err := store.UpsertCategory(ctx, p.Category); err != nil {
				return i, err
			}
		}
		if reporter != nil {
			reporter.Update(i+1, p.Name)
		}
	}

	if reporter != nil {
		reporter.Finish()
	}
	return len(file.Products), nil
}

// DeriveCategories returns the distinct category names of the given
// products in alphabetical order.
func DeriveCategories(products []Product) []string {
	seen := make(map[string]bool)
	var categories []string
	for _, p := range products {
		if p.Category == "" || seen[strings.ToLower(p.Category)] {
			continue
		}
		seen[strings.ToLower(p.Category)] = true
		categories = append(categories, p.Category)
	}
	sort.Strings(categories)
	return categories
}
