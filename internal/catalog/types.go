package catalog

// Product is a read-only catalog entry. The engine never mutates products
// and never surfaces one with IsActive false.
type Product struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Brand        string  `json:"brand"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	CountInStock int     `json:"count_in_stock"`
	Rating       float64 `json:"rating"`
	NumReviews   int     `json:"num_reviews"`
	IsActive     bool    `json:"is_active"`
}

// Snapshot is a point-in-time view of the catalog. It is replaced wholesale
// on refresh and never partially mutated.
type Snapshot struct {
	Products   []Product `json:"products"`
	Categories []string  `json:"categories"`
}
