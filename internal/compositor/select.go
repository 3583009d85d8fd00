// Package compositor turns a selection of trait assets into a flattened image
// and its attribute list, and provides the selection operations the forge
// exposes: random sampling and toggle picking.
package compositor

import (
	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/cryptea/internal/entities/traits"
	"github.com/KirkDiggler/cryptea/internal/errors"
)

// Randomize draws one asset uniformly per layer. Layers whose category has no
// assets are set to none; layers missing from the catalog get no entry. The
// previous selection plays no part.
func Randomize(roller dice.Roller, catalog *traits.Catalog, layers traits.LayerOrder) (traits.Selection, error) {
	if roller == nil {
		return nil, errors.InvalidArgument("roller is required")
	}
	if catalog == nil {
		return nil, errors.InvalidArgument("catalog is required")
	}

	sel := make(traits.Selection, len(layers))
	for _, category := range layers {
		if !catalog.Has(category) {
			continue
		}

		assets := catalog.Assets(category)
		if len(assets) == 0 {
			sel[category] = ""
			continue
		}

		roll, err := roller.Roll(len(assets))
		if err != nil {
			return nil, errors.Wrapf(err, "failed to draw asset for %s", category)
		}
		if roll < 1 || roll > len(assets) {
			return nil, errors.Internalf("roller returned %d for a %d sided draw", roll, len(assets))
		}
		sel[category] = assets[roll-1]
	}

	return sel, nil
}

// ToggleSelect returns a copy of sel where category is set to asset, or
// cleared when asset was already chosen. An unknown category or an asset from
// another category is rejected and sel is left as it was.
func ToggleSelect(catalog *traits.Catalog, sel traits.Selection, category traits.Category, asset traits.Asset) (traits.Selection, error) {
	if catalog == nil {
		return nil, errors.InvalidArgument("catalog is required")
	}
	if !catalog.Has(category) {
		return nil, errors.Preconditionf("category %q is not in the catalog", category).
			WithMeta(errors.MetaCategory, string(category))
	}
	if !catalog.Contains(category, asset) {
		return nil, errors.Preconditionf("asset %q does not belong to category %q", asset, category).
			WithMeta(errors.MetaCategory, string(category)).
			WithMeta(errors.MetaAsset, string(asset))
	}

	out := sel.Clone()
	if out[category] == asset {
		out[category] = ""
	} else {
		out[category] = asset
	}
	return out, nil
}
