// Package traits holds the data model shared by the catalog builder and the
// compositor: categories, assets, the catalog, layer order and selections.
package traits

import (
	"path/filepath"
	"strings"
)

// Category names a trait slot such as "Background" or "Eyes".
type Category string

// Asset is the file name of one selectable option within a category.
type Asset string

// None is the attribute value emitted for a category with nothing selected.
const None = "None"

// AcceptedExtensions lists the image extensions recognized as assets.
// Matching is case-insensitive.
var AcceptedExtensions = []string{".png", ".jpg", ".jpeg", ".gif"}

// IsImageFile reports whether name carries one of the accepted extensions.
func IsImageFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, accepted := range AcceptedExtensions {
		if ext == accepted {
			return true
		}
	}
	return false
}

// IsSimpleName reports whether name is a bare file or directory name with no
// path components.
func IsSimpleName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}

// Attribute is one entry of the marketplace attribute array.
type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

// Metadata is the token metadata document handed to the upload collaborator.
// The attribute array convention is what marketplace tooling reads.
type Metadata struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Attributes  []Attribute `json:"attributes"`
}
