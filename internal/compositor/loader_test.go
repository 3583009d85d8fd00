package compositor_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/cryptea/internal/compositor"
	"github.com/KirkDiggler/cryptea/internal/entities/traits"
	"github.com/KirkDiggler/cryptea/internal/errors"
	"github.com/KirkDiggler/cryptea/internal/testutils"
)

func TestFSLoader(t *testing.T) {
	ctx := context.Background()
	root := testutils.WriteCollection(t, t.TempDir(), testutils.TestCollectionName,
		testutils.LayerFixture{Category: "Body", Files: []string{"Robot.png"}, Size: 6},
	)
	require.NoError(t, os.WriteFile(filepath.Join(root, "Body", "Broken.png"), []byte("not an image"), 0o644))

	loader, err := compositor.NewFSLoader(root)
	require.NoError(t, err)

	t.Run("decodes an asset", func(t *testing.T) {
		img, err := loader.Load(ctx, "Body", "Robot.png")
		require.NoError(t, err)
		assert.Equal(t, 6, img.Bounds().Dx())
	})

	t.Run("missing asset", func(t *testing.T) {
		_, err := loader.Load(ctx, "Body", "Ghost.png")
		require.Error(t, err)
		assert.True(t, errors.IsAssetLoad(err))
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("undecodable asset", func(t *testing.T) {
		_, err := loader.Load(ctx, "Body", "Broken.png")
		require.Error(t, err)
		assert.True(t, errors.IsAssetLoad(err))
		assert.True(t, errors.IsDataLoss(err))
	})

	t.Run("refuses to leave the root", func(t *testing.T) {
		for _, tc := range []struct {
			category traits.Category
			asset    traits.Asset
		}{
			{"..", "secret.png"},
			{"Body", "../../etc/passwd"},
			{"Body/..", "Robot.png"},
		} {
			_, err := loader.Load(ctx, tc.category, tc.asset)
			require.Error(t, err)
			assert.True(t, errors.IsNotFound(err))
		}
	})

	t.Run("requires a root", func(t *testing.T) {
		_, err := compositor.NewFSLoader("")
		require.Error(t, err)
	})
}

func TestFSLoaderWithCompositor(t *testing.T) {
	root := testutils.WriteCollection(t, t.TempDir(), testutils.TestCollectionName,
		testutils.LayerFixture{Category: "Background", Files: []string{"Mars.png"}, Size: 16},
		testutils.LayerFixture{Category: "Body", Files: []string{"Robot.png"}, Size: 4},
	)
	loader, err := compositor.NewFSLoader(root)
	require.NoError(t, err)

	c, err := compositor.New(&compositor.Config{Loader: loader, CanvasSize: 16})
	require.NoError(t, err)

	out, err := c.Compose(context.Background(), &compositor.ComposeInput{
		Selection:  traits.Selection{"Background": "Mars.png", "Body": "Robot.png"},
		LayerOrder: traits.LayerOrder{"Background", "Body", "Hat"},
	})
	require.NoError(t, err)
	assert.Equal(t, compositor.FormatJPEG, out.Format)
	assert.Equal(t, []traits.Attribute{
		{TraitType: "Background", Value: "Mars.png"},
		{TraitType: "Body", Value: "Robot.png"},
		{TraitType: "Hat", Value: "None"},
	}, out.Attributes)
}
