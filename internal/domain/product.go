package domain

// Product is one catalog record ingested from the remote feed. Every field is
// defaulted at construction time; consumers never observe blank values,
// Price >= 0 and Stock >= 0 always hold.
type Product struct {
	ID              string  `json:"id" csv:"id"`
	Name            string  `json:"name" csv:"name"`
	Description     string  `json:"description" csv:"description"`
	Characteristics string  `json:"characteristics" csv:"characteristics"`
	Price           float64 `json:"price" csv:"price"`
	Stock           int     `json:"stock" csv:"stock"`
	Category        string  `json:"category" csv:"category"`
	Image           string  `json:"image" csv:"image"`
}

// Stock level labels used by the storefront to pick an indicator style.
const (
	StockOut    = "out"
	StockLow    = "low"
	StockMedium = "medium"
	StockHigh   = "high"
)

// StockLevel classifies the remaining stock into a display bucket.
func (p Product) StockLevel() string {
	switch {
	case p.Stock <= 0:
		return StockOut
	case p.Stock <= 3:
		return StockLow
	case p.Stock <= 8:
		return StockMedium
	default:
		return StockHigh
	}
}

// InStock reports whether the product can be added to a cart at all.
func (p Product) InStock() bool {
	return p.Stock > 0
}
