package catalog

import (
	"encoding/json"
	"os"

	"github.com/KirkDiggler/cryptea/internal/entities/traits"
	"github.com/KirkDiggler/cryptea/internal/errors"
)

// Load reads a catalog previously written by Emit.
func Load(path string) (*traits.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ScanFailure(path, err)
	}

	catalog := traits.EmptyCatalog()
	if err := json.Unmarshal(data, catalog); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeDataLoss, "catalog document is malformed").
			WithMeta(errors.MetaPath, path)
	}
	return catalog, nil
}
