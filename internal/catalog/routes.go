package catalog

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the catalog API routes.
func RegisterRoutes(r chi.Router, cache *Cache) {
	r.Route("/api/catalog", func(r chi.Router) {
		r.Get("/products", handleListProducts(cache))
		r.Get("/categories", handleListCategories(cache))
		r.Post("/refresh", handleRefresh(cache))
	})
}

func handleListProducts(cache *Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products := []Product{}
		for _, p := range cache.Products() {
			if p.IsActive {
				products = append(products, p)
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(products)
	}
}

func handleListCategories(cache *Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories := cache.Categories()
		if categories == nil {
			categories = []string{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(categories)
	}
}

func handleRefresh(cache *Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := cache.Refresh(r.Context()); err != nil {
			http.Error(w, `{"error":"refresh failed, previous snapshot kept"}`, http.StatusBadGateway)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]int{"products": len(cache.Products())})
	}
}
