// Package storage is the content-addressed upload collaborator. Composed
// images and token metadata are stored under the SHA-256 of their bytes, so
// uploading the same artifact twice yields the same URI.
package storage

//go:generate mockgen -destination=mock/mock_client.go -package=storagemock github.com/KirkDiggler/cryptea/internal/clients/storage Client

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/gowebpki/jcs"

	"github.com/KirkDiggler/cryptea/internal/errors"
)

// HashPrefix marks the digest algorithm on returned hashes
const HashPrefix = "sha256:"

// Client defines the interface for artifact uploads
type Client interface {
	// Put stores data and returns where it lives. Storing existing content
	// is a no-op that returns the same URI.
	Put(ctx context.Context, input *PutInput) (*PutOutput, error)

	// Get fetches previously stored content by URI
	Get(ctx context.Context, uri string) (*GetOutput, error)

	// Delete removes content by URI. Deleting missing content succeeds.
	Delete(ctx context.Context, uri string) error
}

// PutInput is the artifact to upload
type PutInput struct {
	Data        []byte
	ContentType string
}

// Validate ensures there is something to store
func (i *PutInput) Validate() error {
	vb := errors.NewValidationBuilder()
	if len(i.Data) == 0 {
		vb.RequiredField("Data")
	}
	errors.ValidateRequired("ContentType", i.ContentType, vb)
	return vb.Build()
}

// PutOutput locates the stored artifact
type PutOutput struct {
	URI  string
	Hash string
}

// GetOutput is stored content
type GetOutput struct {
	Data        []byte
	ContentType string
}

// Digest returns the lowercase hex SHA-256 of data.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ContentHash returns the prefixed digest Put reports for data
func ContentHash(data []byte) string {
	return HashPrefix + Digest(data)
}

// CanonicalJSON encodes v as RFC 8785 canonical JSON so equal documents hash
// equally regardless of field order or number formatting.
func CanonicalJSON(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode document")
	}
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return nil, errors.Wrap(err, "failed to canonicalize document")
	}
	return canonical, nil
}

// PutJSON canonicalizes v and stores it as application/json.
func PutJSON(ctx context.Context, client Client, v any) (*PutOutput, error) {
	data, err := CanonicalJSON(v)
	if err != nil {
		return nil, err
	}
	return client.Put(ctx, &PutInput{Data: data, ContentType: "application/json"})
}

func isHex(s string) bool {
	if len(s) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
