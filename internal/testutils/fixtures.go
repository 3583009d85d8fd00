package testutils

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestCollectionName is the collection used by filesystem fixtures
const TestCollectionName = "cryptea-punks"

// LayerFixture describes one category directory and the files inside it
type LayerFixture struct {
	Category string
	Files    []string
	// Size is the edge length of generated images, 8 when zero
	Size int
	// Color fills generated images, opaque red when zero
	Color color.RGBA
}

// WriteCollection creates <root>/<collection>/<Category>/<files> and returns
// the collection path. Files with an image extension get a real PNG body so
// they can be decoded; everything else is written empty.
func WriteCollection(t *testing.T, root, collection string, layers ...LayerFixture) string {
	t.Helper()

	collectionPath := filepath.Join(root, collection)
	require.NoError(t, os.MkdirAll(collectionPath, 0o755))

	for _, layer := range layers {
		dir := filepath.Join(collectionPath, layer.Category)
		require.NoError(t, os.MkdirAll(dir, 0o755))

		size := layer.Size
		if size == 0 {
			size = 8
		}
		fill := layer.Color
		if fill == (color.RGBA{}) {
			fill = color.RGBA{R: 255, A: 255}
		}

		for _, name := range layer.Files {
			path := filepath.Join(dir, name)
			switch filepath.Ext(name) {
			case ".png", ".PNG", ".jpg", ".jpeg", ".gif":
				WritePNG(t, path, size, fill)
			default:
				require.NoError(t, os.WriteFile(path, nil, 0o644))
			}
		}
	}

	return collectionPath
}

// WritePNG writes a size x size PNG filled with c.
func WritePNG(t *testing.T, path string, size int, c color.Color) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	require.NoError(t, png.Encode(f, SolidImage(size, c)))
}

// SolidImage returns a size x size image filled with c.
func SolidImage(size int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}
