package domain

// CartLine aggregates the quantity for a single product. The display fields
// are a snapshot taken when the product was first added; they are not re-synced
// to later catalog loads. Stock is snapshotted too so quantity updates can
// enforce the same ceiling the add path does.
type CartLine struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Category  string  `json:"category"`
	Image     string  `json:"image"`
	Stock     int     `json:"stock"`
	Quantity  int     `json:"quantity"`
}

// LineTotal is price times quantity for this line.
func (l CartLine) LineTotal() float64 {
	return l.Price * float64(l.Quantity)
}

// NewCartLine snapshots a product into a fresh line.
func NewCartLine(p Product, qty int) CartLine {
	return CartLine{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Category:  p.Category,
		Image:     p.Image,
		Stock:     p.Stock,
		Quantity:  qty,
	}
}
