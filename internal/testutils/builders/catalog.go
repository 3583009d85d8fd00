package builders

import (
	"github.com/KirkDiggler/cryptea/internal/entities/traits"
)

// CatalogBuilder assembles a catalog category by category, in call order
type CatalogBuilder struct {
	entries []traits.CategoryAssets
}

// NewCatalogBuilder creates an empty catalog builder
func NewCatalogBuilder() *CatalogBuilder {
	return &CatalogBuilder{}
}

// WithCategory appends a category with its assets
func (b *CatalogBuilder) WithCategory(category traits.Category, assets ...traits.Asset) *CatalogBuilder {
	b.entries = append(b.entries, traits.CategoryAssets{Category: category, Assets: assets})
	return b
}

// Build returns the catalog and panics on duplicate categories
func (b *CatalogBuilder) Build() *traits.Catalog {
	catalog, err := traits.NewCatalog(b.entries...)
	if err != nil {
		panic(err)
	}
	return catalog
}

// DefaultCatalog is the three layer catalog most tests use
func DefaultCatalog() *traits.Catalog {
	return NewCatalogBuilder().
		WithCategory("Background", "blue.png", "red.png").
		WithCategory("Body", "alien.png", "ape.png", "zombie.png").
		WithCategory("Hat", "beanie.png", "cap.png").
		Build()
}

// DefaultSelection picks a background and body from DefaultCatalog
func DefaultSelection() traits.Selection {
	return traits.Selection{"Background": "blue.png", "Body": "ape.png", "Hat": ""}
}
