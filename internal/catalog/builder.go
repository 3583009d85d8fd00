// Package catalog builds the trait catalog from a directory tree and writes
// its JSON and TypeScript forms.
//
// The expected layout is <base>/<collection>/<Category>/<asset files>. Only
// immediate subdirectories become categories and only immediate image files
// become assets.
package catalog

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/KirkDiggler/cryptea/internal/entities/traits"
	"github.com/KirkDiggler/cryptea/internal/errors"
)

// ScanCategories lists the immediate subdirectories of basePath in directory
// listing order, skipping hidden ones such as .git. A missing or unreadable directory is logged and yields no
// categories.
func ScanCategories(ctx context.Context, basePath string) []traits.Category {
	entries, ok := readDir(ctx, basePath)
	if !ok {
		return []traits.Category{}
	}

	categories := make([]traits.Category, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() || hidden(entry.Name()) || !traits.IsSimpleName(entry.Name()) {
			continue
		}
		categories = append(categories, traits.Category(entry.Name()))
	}
	return categories
}

// ScanAssets lists the image files directly inside categoryPath in directory
// listing order. Hidden files, other files and nested directories are ignored.
func ScanAssets(ctx context.Context, categoryPath string) []traits.Asset {
	entries, ok := readDir(ctx, categoryPath)
	if !ok {
		return []traits.Asset{}
	}

	assets := make([]traits.Asset, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() || hidden(entry.Name()) || !traits.IsImageFile(entry.Name()) {
			continue
		}
		assets = append(assets, traits.Asset(entry.Name()))
	}
	return assets
}

// Build scans basePath into a catalog. Scan failures degrade to empty
// results; only cancellation is returned as an error.
func Build(ctx context.Context, basePath string) (*traits.Catalog, error) {
	categories := ScanCategories(ctx, basePath)

	entries := make([]traits.CategoryAssets, 0, len(categories))
	for _, category := range categories {
		if err := ctx.Err(); err != nil {
			return nil, errors.Canceled("catalog build canceled")
		}
		entries = append(entries, traits.CategoryAssets{
			Category: category,
			Assets:   ScanAssets(ctx, filepath.Join(basePath, string(category))),
		})
	}

	catalog, err := traits.NewCatalog(entries...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to assemble catalog from %s", basePath)
	}

	slog.InfoContext(ctx, "Catalog built",
		"path", basePath,
		"categories", catalog.Len(),
	)

	return catalog, nil
}

// hidden matches dot files, which neither scans nor the watcher consider
func hidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// readDir returns entries sorted by file name, which is the listing order the
// emitted files promise to consumers.
func readDir(ctx context.Context, path string) ([]os.DirEntry, bool) {
	entries, err := os.ReadDir(path)
	if err != nil {
		scanErr := errors.ScanFailure(path, err)
		slog.WarnContext(ctx, "Skipping unreadable directory",
			"path", path,
			"code", scanErr.Code,
			"error", err,
		)
		return nil, false
	}
	return entries, true
}
