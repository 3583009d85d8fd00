package storage_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/cryptea/internal/clients/storage"
	"github.com/KirkDiggler/cryptea/internal/entities/traits"
	"github.com/KirkDiggler/cryptea/internal/errors"
)

// fakeS3 is an in-memory bucket
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]fakeObject
	puts    int
}

type fakeObject struct {
	data        []byte
	contentType string
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string]fakeObject{}}
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[aws.ToString(in.Key)]; !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts++
	f.objects[aws.ToString(in.Key)] = fakeObject{data: data, contentType: aws.ToString(in.ContentType)}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	obj, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{
		Body:        io.NopCloser(bytes.NewReader(obj.data)),
		ContentType: aws.String(obj.contentType),
	}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

// StoreTestSuite runs the same contract against every backend
type StoreTestSuite struct {
	suite.Suite
	newStore func(t *testing.T) storage.Client
	scheme   string
	store    storage.Client
	ctx      context.Context
}

func (s *StoreTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = s.newStore(s.T())
}

func (s *StoreTestSuite) TestPutGetDelete() {
	data := []byte("composed image bytes")

	out, err := s.store.Put(s.ctx, &storage.PutInput{Data: data, ContentType: "image/jpeg"})
	s.Require().NoError(err)
	s.True(strings.HasPrefix(out.URI, s.scheme), out.URI)
	s.Equal(storage.ContentHash(data), out.Hash)

	got, err := s.store.Get(s.ctx, out.URI)
	s.Require().NoError(err)
	s.Equal(data, got.Data)
	s.Equal("image/jpeg", got.ContentType)

	s.Require().NoError(s.store.Delete(s.ctx, out.URI))
	_, err = s.store.Get(s.ctx, out.URI)
	s.True(errors.IsNotFound(err))

	s.Require().NoError(s.store.Delete(s.ctx, out.URI), "deleting twice is fine")
}

func (s *StoreTestSuite) TestPutIsContentAddressed() {
	first, err := s.store.Put(s.ctx, &storage.PutInput{Data: []byte("same"), ContentType: "text/plain"})
	s.Require().NoError(err)
	second, err := s.store.Put(s.ctx, &storage.PutInput{Data: []byte("same"), ContentType: "text/plain"})
	s.Require().NoError(err)
	other, err := s.store.Put(s.ctx, &storage.PutInput{Data: []byte("different"), ContentType: "text/plain"})
	s.Require().NoError(err)

	s.Equal(first.URI, second.URI)
	s.NotEqual(first.URI, other.URI)
}

func (s *StoreTestSuite) TestRejectsBadInput() {
	_, err := s.store.Put(s.ctx, &storage.PutInput{ContentType: "image/png"})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.store.Put(s.ctx, nil)
	s.True(errors.IsInvalidArgument(err))

	for _, uri := range []string{"", "cas://nothex", "s3://other-bucket/abc", "https://example.com/a.png"} {
		_, err = s.store.Get(s.ctx, uri)
		s.True(errors.IsInvalidArgument(err), uri)
		s.True(errors.IsInvalidArgument(s.store.Delete(s.ctx, uri)), uri)
	}
}

func TestFSStore(t *testing.T) {
	suite.Run(t, &StoreTestSuite{
		scheme: storage.FSScheme,
		newStore: func(t *testing.T) storage.Client {
			store, err := storage.NewFSStore(t.TempDir())
			require.NoError(t, err)
			return store
		},
	})
}

func TestS3Store(t *testing.T) {
	suite.Run(t, &StoreTestSuite{
		scheme: "s3://forge-artifacts/punks/",
		newStore: func(t *testing.T) storage.Client {
			store, err := storage.NewS3StoreWithClient(newFakeS3(), &storage.S3Config{
				Bucket: "forge-artifacts",
				Prefix: "punks/",
			})
			require.NoError(t, err)
			return store
		},
	})
}

func TestS3StoreSkipsExistingObjects(t *testing.T) {
	fake := newFakeS3()
	store, err := storage.NewS3StoreWithClient(fake, &storage.S3Config{Bucket: "b"})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := store.Put(context.Background(), &storage.PutInput{Data: []byte("x"), ContentType: "text/plain"})
		require.NoError(t, err)
	}
	assert.Equal(t, 1, fake.puts)
}

func TestNewS3StoreValidation(t *testing.T) {
	_, err := storage.NewS3StoreWithClient(newFakeS3(), &storage.S3Config{})
	assert.True(t, errors.IsInvalidArgument(err))

	_, err = storage.NewS3StoreWithClient(nil, &storage.S3Config{Bucket: "b"})
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestCanonicalJSON(t *testing.T) {
	a, err := storage.CanonicalJSON(map[string]any{"name": "Punk #1", "attributes": []any{}, "image": "cas://x"})
	require.NoError(t, err)
	b, err := storage.CanonicalJSON(struct {
		Image      string `json:"image"`
		Name       string `json:"name"`
		Attributes []any  `json:"attributes"`
	}{Image: "cas://x", Name: "Punk #1", Attributes: []any{}})
	require.NoError(t, err)

	assert.Equal(t, string(a), string(b))
	assert.Equal(t, `{"attributes":[],"image":"cas://x","name":"Punk #1"}`, string(a))
}

func TestPutJSON(t *testing.T) {
	store, err := storage.NewFSStore(t.TempDir())
	require.NoError(t, err)

	meta := traits.Metadata{
		Name:       "Punk #1",
		Image:      "cas://abc",
		Attributes: []traits.Attribute{{TraitType: "Body", Value: "Robot.png"}},
	}
	out, err := storage.PutJSON(context.Background(), store, meta)
	require.NoError(t, err)

	got, err := store.Get(context.Background(), out.URI)
	require.NoError(t, err)
	assert.Equal(t, "application/json", got.ContentType)
	assert.Equal(t,
		`{"attributes":[{"trait_type":"Body","value":"Robot.png"}],"description":"","image":"cas://abc","name":"Punk #1"}`,
		string(got.Data))
}
