package traits

import (
	"github.com/KirkDiggler/cryptea/internal/errors"
)

// LayerOrder is the back-to-front paint order. It is also the attribute order.
type LayerOrder []Category

// Validate rejects empty and repeated names.
func (l LayerOrder) Validate() error {
	vb := errors.NewValidationBuilder()
	seen := make(map[Category]struct{}, len(l))
	for i, category := range l {
		if category == "" {
			vb.Fieldf("layer_order", "entry %d is empty", i)
			continue
		}
		if _, dup := seen[category]; dup {
			vb.Fieldf("layer_order", "%q appears more than once", category)
		}
		seen[category] = struct{}{}
	}
	return vb.Build()
}

// Renderable returns the layers that exist in catalog, in order. The two lists
// are allowed to drift; unknown names are dropped.
func (l LayerOrder) Renderable(catalog *Catalog) LayerOrder {
	out := make(LayerOrder, 0, len(l))
	for _, category := range l {
		if catalog.Has(category) {
			out = append(out, category)
		}
	}
	return out
}

// Selection maps a category to its chosen asset. The empty asset means none;
// a missing key and an empty value are equivalent.
type Selection map[Category]Asset

// NewSelection returns a selection with every catalog category unset.
func NewSelection(catalog *Catalog) Selection {
	sel := make(Selection, catalog.Len())
	for _, category := range catalog.Categories() {
		sel[category] = ""
	}
	return sel
}

// Get returns the chosen asset and whether one is set.
func (s Selection) Get(category Category) (Asset, bool) {
	asset := s[category]
	return asset, asset != ""
}

// Clone returns an independent copy.
func (s Selection) Clone() Selection {
	out := make(Selection, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// IsEmpty reports whether nothing is selected.
func (s Selection) IsEmpty() bool {
	for _, asset := range s {
		if asset != "" {
			return false
		}
	}
	return true
}

// Equal compares the chosen assets, treating unset and missing alike.
func (s Selection) Equal(other Selection) bool {
	for k, v := range s {
		if other[k] != v {
			return false
		}
	}
	for k, v := range other {
		if s[k] != v {
			return false
		}
	}
	return true
}

// Attributes describes the selection in layer order, one entry per layer,
// with None for unset categories.
func (s Selection) Attributes(layers LayerOrder) []Attribute {
	out := make([]Attribute, 0, len(layers))
	for _, category := range layers {
		value := None
		if asset, ok := s.Get(category); ok {
			value = string(asset)
		}
		out = append(out, Attribute{TraitType: string(category), Value: value})
	}
	return out
}
