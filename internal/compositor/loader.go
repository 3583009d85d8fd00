package compositor

//go:generate mockgen -destination=mock/mock_loader.go -package=compositormock github.com/KirkDiggler/cryptea/internal/compositor AssetLoader

import (
	"context"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"os"
	"path/filepath"

	"github.com/KirkDiggler/cryptea/internal/entities/traits"
	"github.com/KirkDiggler/cryptea/internal/errors"
)

// AssetLoader resolves a category and asset name to a decoded image.
type AssetLoader interface {
	Load(ctx context.Context, category traits.Category, asset traits.Asset) (image.Image, error)
}

// FSLoader reads assets from <Root>/<Category>/<Asset>.
type FSLoader struct {
	Root string
}

// NewFSLoader creates a loader rooted at the collection directory
func NewFSLoader(root string) (*FSLoader, error) {
	if root == "" {
		return nil, errors.InvalidArgument("assets root is required")
	}
	return &FSLoader{Root: root}, nil
}

// Path returns the file for an asset, refusing names that would leave Root.
func (l *FSLoader) Path(category traits.Category, asset traits.Asset) (string, error) {
	if !traits.IsSimpleName(string(category)) || !traits.IsSimpleName(string(asset)) {
		return "", errors.InvalidArgumentf("asset path %s/%s is not allowed", category, asset)
	}
	return filepath.Join(l.Root, string(category), string(asset)), nil
}

// Load opens and decodes one asset. Missing files are NOT_FOUND and
// undecodable ones DATA_LOSS; both carry the category and asset.
func (l *FSLoader) Load(_ context.Context, category traits.Category, asset traits.Asset) (image.Image, error) {
	path, err := l.Path(category, asset)
	if err != nil {
		return nil, errors.AssetLoad(string(category), string(asset), os.ErrNotExist)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.AssetLoad(string(category), string(asset), err)
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.AssetLoad(string(category), string(asset), err)
	}
	return img, nil
}

var _ AssetLoader = (*FSLoader)(nil)
