package catalog

import (
	"context"
	"path/filepath"

	"github.com/KirkDiggler/cryptea/internal/entities/traits"
	"github.com/KirkDiggler/cryptea/internal/errors"
)

// GenerateInput names a collection under a base directory
type GenerateInput struct {
	BasePath       string
	CollectionName string
}

// GenerateOutput carries the built catalog and where it was written
type GenerateOutput struct {
	Catalog        *traits.Catalog
	CollectionPath string
	JSONPath       string
	TypeScriptPath string
}

// Validate ensures the collection can be located
func (i *GenerateInput) Validate() error {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("BasePath", i.BasePath, vb)
	errors.ValidateRequired("CollectionName", i.CollectionName, vb)
	if i.CollectionName != "" && !traits.IsSimpleName(i.CollectionName) {
		vb.Field("CollectionName", "must be a plain name")
	}
	return vb.Build()
}

// CollectionPath is the directory holding the collection's categories.
func (i *GenerateInput) CollectionPath() string {
	return filepath.Join(i.BasePath, i.CollectionName)
}

// Generate scans <base>/<collection> and writes both catalog forms into it.
func Generate(ctx context.Context, input *GenerateInput) (*GenerateOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	collectionPath := input.CollectionPath()
	catalog, err := Build(ctx, collectionPath)
	if err != nil {
		return nil, err
	}

	emitted, err := Emit(ctx, &EmitInput{
		Catalog:        catalog,
		CollectionName: input.CollectionName,
		Dir:            collectionPath,
	})
	if err != nil {
		return nil, err
	}

	return &GenerateOutput{
		Catalog:        catalog,
		CollectionPath: collectionPath,
		JSONPath:       emitted.JSONPath,
		TypeScriptPath: emitted.TypeScriptPath,
	}, nil
}
