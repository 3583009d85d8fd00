package traits

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/KirkDiggler/cryptea/internal/errors"
)

// CategoryAssets is one catalog entry in scan order.
type CategoryAssets struct {
	Category Category
	Assets   []Asset
}

// Catalog maps each category to its ordered assets. Category order is the
// order the entries were scanned in and is preserved through JSON. A Catalog
// is never mutated after construction; accessors hand out copies.
type Catalog struct {
	order  []Category
	assets map[Category][]Asset
}

// NewCatalog validates entries and builds an immutable catalog.
func NewCatalog(entries ...CategoryAssets) (*Catalog, error) {
	c := &Catalog{
		order:  make([]Category, 0, len(entries)),
		assets: make(map[Category][]Asset, len(entries)),
	}

	for _, entry := range entries {
		if entry.Category == "" {
			return nil, errors.InvalidArgument("category name cannot be empty")
		}
		if _, exists := c.assets[entry.Category]; exists {
			return nil, errors.InvalidArgumentf("duplicate category %q", entry.Category)
		}

		seen := make(map[Asset]struct{}, len(entry.Assets))
		assets := make([]Asset, 0, len(entry.Assets))
		for _, asset := range entry.Assets {
			if !IsSimpleName(string(asset)) || !IsImageFile(string(asset)) {
				return nil, errors.InvalidArgumentf("invalid asset %q in category %q", asset, entry.Category)
			}
			if _, dup := seen[asset]; dup {
				return nil, errors.InvalidArgumentf("duplicate asset %q in category %q", asset, entry.Category)
			}
			seen[asset] = struct{}{}
			assets = append(assets, asset)
		}

		c.order = append(c.order, entry.Category)
		c.assets[entry.Category] = assets
	}

	return c, nil
}

// EmptyCatalog returns a catalog with no categories.
func EmptyCatalog() *Catalog {
	c, _ := NewCatalog()
	return c
}

// Len returns the number of categories.
func (c *Catalog) Len() int {
	return len(c.order)
}

// Categories returns the categories in scan order.
func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.order))
	copy(out, c.order)
	return out
}

// Has reports whether the category exists.
func (c *Catalog) Has(category Category) bool {
	_, ok := c.assets[category]
	return ok
}

// Assets returns the category's assets in scan order, or nil if unknown.
func (c *Catalog) Assets(category Category) []Asset {
	assets, ok := c.assets[category]
	if !ok {
		return nil
	}
	out := make([]Asset, len(assets))
	copy(out, assets)
	return out
}

// Contains reports whether asset belongs to category.
func (c *Catalog) Contains(category Category, asset Asset) bool {
	for _, a := range c.assets[category] {
		if a == asset {
			return true
		}
	}
	return false
}

// Entries returns a copy of the catalog as ordered entries.
func (c *Catalog) Entries() []CategoryAssets {
	out := make([]CategoryAssets, 0, len(c.order))
	for _, category := range c.order {
		out = append(out, CategoryAssets{Category: category, Assets: c.Assets(category)})
	}
	return out
}

// Equal compares keys, key order and per-key asset order.
func (c *Catalog) Equal(other *Catalog) bool {
	if c == nil || other == nil {
		return c == other
	}
	if len(c.order) != len(other.order) {
		return false
	}
	for i, category := range c.order {
		if other.order[i] != category {
			return false
		}
		a, b := c.assets[category], other.assets[category]
		if len(a) != len(b) {
			return false
		}
		for j := range a {
			if a[j] != b[j] {
				return false
			}
		}
	}
	return true
}

// MarshalJSON writes an object whose keys follow scan order.
func (c *Catalog) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, category := range c.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(category))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		names := make([]string, len(c.assets[category]))
		for j, asset := range c.assets[category] {
			names[j] = string(asset)
		}
		value, err := json.Marshal(names)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object keeping the document's key order.
func (c *Catalog) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return errors.Wrap(err, "failed to read catalog")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.InvalidArgument("catalog must be a JSON object")
	}

	var entries []CategoryAssets
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return errors.Wrap(err, "failed to read catalog key")
		}
		key, ok := tok.(string)
		if !ok {
			return errors.InvalidArgument(fmt.Sprintf("unexpected catalog token %v", tok))
		}

		var names []string
		if err := dec.Decode(&names); err != nil {
			return errors.WrapWithCode(err, errors.CodeInvalidArgument,
				fmt.Sprintf("category %q must be an array of strings", key))
		}

		assets := make([]Asset, len(names))
		for i, name := range names {
			assets[i] = Asset(name)
		}
		entries = append(entries, CategoryAssets{Category: Category(key), Assets: assets})
	}

	if _, err := dec.Token(); err != nil {
		return errors.Wrap(err, "failed to read end of catalog")
	}

	built, err := NewCatalog(entries...)
	if err != nil {
		return err
	}
	*c = *built
	return nil
}
