package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/cryptea/internal/catalog"
	"github.com/KirkDiggler/cryptea/internal/errors"
	"github.com/KirkDiggler/cryptea/internal/testutils"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCatalogBuild(t *testing.T) {
	base := t.TempDir()
	collectionPath := testutils.WriteCollection(t, base, testutils.TestCollectionName,
		testutils.LayerFixture{Category: "Body", Files: []string{"ape.png", "alien.png", "notes.txt"}},
		testutils.LayerFixture{Category: "Hat"},
	)

	out, err := runRoot(t, "catalog", "build", "--base", base, "--collection", testutils.TestCollectionName)
	require.NoError(t, err)

	jsonPath, tsPath := catalog.OutputPaths(collectionPath, testutils.TestCollectionName)
	assert.Contains(t, out, "Wrote "+jsonPath)
	assert.Contains(t, out, "Wrote "+tsPath)
	assert.Contains(t, out, "2 assets")

	built, err := catalog.Load(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"alien.png", "ape.png"}, assetNames(built.Assets("Body")))
	assert.True(t, built.Has("Hat"))
}

func TestCatalogBuild_WriteFailure(t *testing.T) {
	base := t.TempDir()
	collectionPath := testutils.WriteCollection(t, base, testutils.TestCollectionName,
		testutils.LayerFixture{Category: "Body", Files: []string{"ape.png"}},
	)

	// An occupied backup slot stops the existing JSON from being moved aside
	jsonPath, _ := catalog.OutputPaths(collectionPath, testutils.TestCollectionName)
	require.NoError(t, os.WriteFile(jsonPath, []byte("{}"), 0o644))
	backup := filepath.Join(collectionPath, "."+filepath.Base(jsonPath)+".bak")
	require.NoError(t, os.MkdirAll(filepath.Join(backup, "blocker"), 0o755))

	_, err := runRoot(t, "catalog", "build", "--base", base, "--collection", testutils.TestCollectionName)
	require.Error(t, err)
	assert.True(t, errors.IsWrite(err))
}

func assetNames[T ~string](assets []T) []string {
	out := make([]string, len(assets))
	for i, a := range assets {
		out[i] = string(a)
	}
	return out
}
