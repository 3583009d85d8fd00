package storage

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/KirkDiggler/cryptea/internal/errors"
)

// FSScheme is the URI scheme of the filesystem store
const FSScheme = "cas://"

// FSStore keeps artifacts under <Root>/<hh>/<hash> with a sidecar holding
// the content type. Meant for development and tests.
type FSStore struct {
	root string
}

// NewFSStore creates the root directory if needed
func NewFSStore(root string) (*FSStore, error) {
	if root == "" {
		return nil, errors.InvalidArgument("storage root is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errors.Write(root, err)
	}
	return &FSStore{root: root}, nil
}

var _ Client = (*FSStore)(nil)

// Put writes data unless an artifact with the same hash exists
func (s *FSStore) Put(ctx context.Context, input *PutInput) (*PutOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	hash := Digest(input.Data)
	out := &PutOutput{URI: FSScheme + hash, Hash: HashPrefix + hash}

	path := s.path(hash)
	if _, err := os.Stat(path); err == nil {
		return out, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Write(path, err)
	}
	if err := writeFileAtomic(path+".type", []byte(input.ContentType)); err != nil {
		return nil, errors.Write(path, err)
	}
	if err := writeFileAtomic(path, input.Data); err != nil {
		return nil, errors.Write(path, err)
	}

	slog.DebugContext(ctx, "Stored artifact", "uri", out.URI, "bytes", len(input.Data))
	return out, nil
}

// Get reads an artifact back
func (s *FSStore) Get(_ context.Context, uri string) (*GetOutput, error) {
	hash, err := parseFSURI(uri)
	if err != nil {
		return nil, err
	}

	path := s.path(hash)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundf("artifact %s not found", uri)
		}
		return nil, errors.Wrapf(err, "failed to read artifact %s", uri)
	}

	contentType := "application/octet-stream"
	if raw, err := os.ReadFile(path + ".type"); err == nil {
		contentType = string(raw)
	}

	return &GetOutput{Data: data, ContentType: contentType}, nil
}

// Delete removes an artifact and its sidecar
func (s *FSStore) Delete(_ context.Context, uri string) error {
	hash, err := parseFSURI(uri)
	if err != nil {
		return err
	}

	path := s.path(hash)
	for _, p := range []string{path, path + ".type"} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return errors.Write(p, err)
		}
	}
	return nil
}

func (s *FSStore) path(hash string) string {
	return filepath.Join(s.root, hash[:2], hash)
}

func parseFSURI(uri string) (string, error) {
	hash, ok := strings.CutPrefix(uri, FSScheme)
	if !ok || !isHex(hash) {
		return "", errors.InvalidArgumentf("not a filesystem artifact URI: %q", uri)
	}
	return hash, nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return nil
}
