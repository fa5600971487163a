package catalog

import (
	"strings"

	"github.com/spf13/cast"

	"github.com/paodecos/storefront/internal/domain"
	"github.com/paodecos/storefront/pkg/driveurl"
)

// Spreadsheet column names. Both feed shapes (SheetDB JSON and CSV export)
// use the same header strings, so a single normalization path serves both.
const (
	colName            = "Nombre producto"
	colPrice           = "Precio producto"
	colCategory        = "Tipo"
	colDescription     = "Descripción producto"
	colCharacteristics = "Caracteristicas"
	colImage           = "img_product"
	colStock           = "Stock"
)

// Defaults substituted for blank or invalid source fields.
const (
	DefaultName        = "Producto sin nombre"
	DefaultDescription = "Sin descripción disponible"
	DefaultCategory    = "general"
	PlaceholderImage   = "https://via.placeholder.com/300x200?text=Sin+Imagen"
)

// productFromRow builds a fully defaulted Product from a column-name keyed
// row, regardless of which feed front-end produced the row. Numeric text that
// fails to coerce becomes 0; negative values are floored at 0.
func (c *Catalog) productFromRow(row map[string]string) domain.Product {
	p := domain.Product{
		ID:              c.node.Generate().Base36(),
		Name:            strings.TrimSpace(row[colName]),
		Description:     strings.TrimSpace(row[colDescription]),
		Characteristics: strings.TrimSpace(row[colCharacteristics]),
		Category:        strings.TrimSpace(row[colCategory]),
	}
	if p.Name == "" {
		p.Name = DefaultName
	}
	if p.Description == "" {
		p.Description = DefaultDescription
	}
	if p.Category == "" {
		p.Category = DefaultCategory
	}

	if v, err := cast.ToFloat64E(strings.TrimSpace(row[colPrice])); err == nil && v > 0 {
		p.Price = v
	}
	if v, err := cast.ToFloat64E(strings.TrimSpace(row[colStock])); err == nil && v > 0 {
		p.Stock = int(v)
	}

	p.Image = driveurl.Normalize(strings.TrimSpace(row[colImage]))
	if p.Image == "" {
		p.Image = PlaceholderImage
	}
	return p
}
