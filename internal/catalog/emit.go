package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/KirkDiggler/cryptea/internal/entities/traits"
	"github.com/KirkDiggler/cryptea/internal/errors"
)

// File extensions of the emitted catalog forms
const (
	JSONExtension       = ".json"
	TypeScriptExtension = ".ts"

	emittedFileMode = 0o644
)

// EmitInput describes where and under which name the catalog is written
type EmitInput struct {
	Catalog        *traits.Catalog
	CollectionName string
	Dir            string
}

// EmitOutput reports the written files
type EmitOutput struct {
	JSONPath       string
	TypeScriptPath string
}

// Validate ensures the input can be emitted
func (i *EmitInput) Validate() error {
	vb := errors.NewValidationBuilder()
	if i.Catalog == nil {
		vb.RequiredField("Catalog")
	}
	errors.ValidateRequired("CollectionName", i.CollectionName, vb)
	errors.ValidateRequired("Dir", i.Dir, vb)
	if i.CollectionName != "" && !traits.IsSimpleName(i.CollectionName) {
		vb.Field("CollectionName", "must be a plain name")
	}
	return vb.Build()
}

// OutputPaths returns the JSON and TypeScript paths for a collection in dir.
func OutputPaths(dir, collectionName string) (string, string) {
	return filepath.Join(dir, collectionName+JSONExtension),
		filepath.Join(dir, collectionName+TypeScriptExtension)
}

// Emit writes the catalog as a pretty printed JSON document and as a
// TypeScript type plus constant. Both files are replaced or neither is.
func Emit(ctx context.Context, input *EmitInput) (*EmitOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	jsonDoc, err := MarshalDocument(input.Catalog)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode catalog")
	}
	tsDoc := RenderTypeScript(input.Catalog, input.CollectionName)

	jsonPath, tsPath := OutputPaths(input.Dir, input.CollectionName)
	if err := writeAll(
		outputFile{path: jsonPath, data: jsonDoc},
		outputFile{path: tsPath, data: []byte(tsDoc)},
	); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Catalog emitted",
		"collection", input.CollectionName,
		"json", jsonPath,
		"typescript", tsPath,
	)

	return &EmitOutput{JSONPath: jsonPath, TypeScriptPath: tsPath}, nil
}

// MarshalDocument renders the pretty printed JSON form with a trailing newline.
func MarshalDocument(catalog *traits.Catalog) ([]byte, error) {
	data, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// RenderTypeScript renders a record type listing each category as string[]
// followed by an exported constant of that type.
func RenderTypeScript(catalog *traits.Catalog, collectionName string) string {
	typeName := pascalIdentifier(collectionName) + "Traits"
	constName := lowerFirst(typeName)

	var b strings.Builder
	b.WriteString("// Code generated by cryptea catalog build. DO NOT EDIT.\n\n")

	fmt.Fprintf(&b, "export type %s = {\n", typeName)
	for _, category := range catalog.Categories() {
		fmt.Fprintf(&b, "  %s: string[];\n", quote(string(category)))
	}
	b.WriteString("};\n\n")

	fmt.Fprintf(&b, "export const %s: %s = {\n", constName, typeName)
	for _, entry := range catalog.Entries() {
		if len(entry.Assets) == 0 {
			fmt.Fprintf(&b, "  %s: [],\n", quote(string(entry.Category)))
			continue
		}
		fmt.Fprintf(&b, "  %s: [\n", quote(string(entry.Category)))
		for _, asset := range entry.Assets {
			fmt.Fprintf(&b, "    %s,\n", quote(string(asset)))
		}
		b.WriteString("  ],\n")
	}
	b.WriteString("};\n")

	return b.String()
}

// quote produces a string literal that is valid in both JSON and TypeScript.
func quote(s string) string {
	data, _ := json.Marshal(s)
	return string(data)
}

// pascalIdentifier turns "cryptea-punks v2" into "CrypteaPunksV2".
func pascalIdentifier(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var b strings.Builder
	for _, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}

	id := b.String()
	if id == "" || unicode.IsDigit([]rune(id)[0]) {
		id = "Collection" + id
	}
	return id
}

func lowerFirst(s string) string {
	runes := []rune(s)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

type outputFile struct {
	path string
	data []byte
}

// writeAll stages every file next to its destination, then swaps them in.
// A failed swap restores whatever was already replaced.
func writeAll(files ...outputFile) error {
	staged := make([]string, 0, len(files))
	discard := func() {
		for _, tmp := range staged {
			_ = os.Remove(tmp)
		}
	}

	for _, f := range files {
		tmp, err := stage(f)
		if err != nil {
			discard()
			return errors.Write(f.path, err)
		}
		staged = append(staged, tmp)
	}

	type swapped struct {
		path   string
		backup string
	}
	var done []swapped
	rollback := func() {
		for i := len(done) - 1; i >= 0; i-- {
			_ = os.Remove(done[i].path)
			if done[i].backup != "" {
				_ = os.Rename(done[i].backup, done[i].path)
			}
		}
	}

	for i, f := range files {
		backup := ""
		if _, err := os.Stat(f.path); err == nil {
			backup = filepath.Join(filepath.Dir(f.path), "."+filepath.Base(f.path)+".bak")
			if err := os.Rename(f.path, backup); err != nil {
				rollback()
				discard()
				return errors.Write(f.path, err)
			}
		}
		if err := os.Rename(staged[i], f.path); err != nil {
			if backup != "" {
				_ = os.Rename(backup, f.path)
			}
			rollback()
			discard()
			return errors.Write(f.path, err)
		}
		done = append(done, swapped{path: f.path, backup: backup})
	}

	for _, s := range done {
		if s.backup != "" {
			_ = os.Remove(s.backup)
		}
	}
	return nil
}

func stage(f outputFile) (string, error) {
	dir, base := filepath.Split(f.path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return "", err
	}

	if _, err := tmp.Write(f.data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Chmod(emittedFileMode); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}
