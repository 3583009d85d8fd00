package selectionsession_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/cryptea/internal/entities/traits"
	"github.com/KirkDiggler/cryptea/internal/errors"
	"github.com/KirkDiggler/cryptea/internal/pkg/clock"
	selectionsession "github.com/KirkDiggler/cryptea/internal/repositories/selection_session"
	"github.com/KirkDiggler/cryptea/internal/testutils"
)

var testStart = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

type RepositoryTestSuite struct {
	suite.Suite
	newRepo func(c clock.Clock) selectionsession.Repository
	repo    selectionsession.Repository
	clock   *clock.Manual
	ctx     context.Context
}

func (s *RepositoryTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = clock.NewManual(testStart)
	s.repo = s.newRepo(s.clock)
}

func (s *RepositoryTestSuite) create(id string) *selectionsession.Session {
	out, err := s.repo.Create(s.ctx, selectionsession.CreateInput{
		ID:         id,
		Collection: testutils.TestCollectionName,
		Selection:  traits.Selection{"Body": "", "Eyes": ""},
		TTL:        time.Minute,
	})
	s.Require().NoError(err)
	return out.Session
}

func (s *RepositoryTestSuite) TestCreate() {
	session := s.create("sess_1")

	s.Equal("sess_1", session.ID)
	s.Equal(selectionsession.StateEmpty, session.State)
	s.Equal(int64(1), session.Revision)
	s.Equal(testStart, session.CreatedAt)
	s.Equal(testStart.Add(time.Minute), session.ExpiresAt)

	s.Run("duplicate id", func() {
		_, err := s.repo.Create(s.ctx, selectionsession.CreateInput{ID: "sess_1", Collection: "c"})
		s.True(errors.IsAlreadyExists(err))
	})

	s.Run("starts editing with a preset selection", func() {
		out, err := s.repo.Create(s.ctx, selectionsession.CreateInput{
			ID:         "sess_2",
			Collection: "c",
			Selection:  traits.Selection{"Body": "Robot.png"},
		})
		s.Require().NoError(err)
		s.Equal(selectionsession.StateEditing, out.Session.State)
		s.Equal(testStart.Add(selectionsession.DefaultTTL), out.Session.ExpiresAt)
	})

	s.Run("validates input", func() {
		_, err := s.repo.Create(s.ctx, selectionsession.CreateInput{Collection: "c"})
		s.True(errors.IsInvalidArgument(err))
		_, err = s.repo.Create(s.ctx, selectionsession.CreateInput{ID: "x"})
		s.True(errors.IsInvalidArgument(err))
	})
}

func (s *RepositoryTestSuite) TestGet() {
	created := s.create("sess_1")

	out, err := s.repo.Get(s.ctx, selectionsession.GetInput{ID: "sess_1"})
	s.Require().NoError(err)
	s.Equal(created.Selection, out.Session.Selection)
	s.Equal(created.Collection, out.Session.Collection)

	_, err = s.repo.Get(s.ctx, selectionsession.GetInput{ID: "missing"})
	s.True(errors.IsNotFound(err))

	_, err = s.repo.Get(s.ctx, selectionsession.GetInput{})
	s.True(errors.IsInvalidArgument(err))
}

func (s *RepositoryTestSuite) TestGet_Expired() {
	s.create("sess_1")
	s.clock.Advance(2 * time.Minute)

	_, err := s.repo.Get(s.ctx, selectionsession.GetInput{ID: "sess_1"})
	s.True(errors.IsNotFound(err))
}

func (s *RepositoryTestSuite) TestUpdate() {
	created := s.create("sess_1")
	s.clock.Advance(10 * time.Second)

	created.Selection["Body"] = "Robot.png"
	created.State = selectionsession.StateEditing
	created.Pending = []selectionsession.PendingArtifact{{Kind: selectionsession.ArtifactImage, URI: "cas://abc"}}

	out, err := s.repo.Update(s.ctx, selectionsession.UpdateInput{Session: created})
	s.Require().NoError(err)
	s.Equal(int64(2), out.Session.Revision)
	s.Equal(testStart.Add(10*time.Second), out.Session.UpdatedAt)
	s.Equal(testStart.Add(10*time.Second+time.Minute), out.Session.ExpiresAt)

	got, err := s.repo.Get(s.ctx, selectionsession.GetInput{ID: "sess_1"})
	s.Require().NoError(err)
	s.Equal(traits.Asset("Robot.png"), got.Session.Selection["Body"])
	s.Equal(selectionsession.StateEditing, got.Session.State)
	s.Len(got.Session.Pending, 1)
	s.Equal(int64(2), got.Session.Revision)
}

func (s *RepositoryTestSuite) TestUpdate_SlidesExpiry() {
	session := s.create("sess_1")

	// Touched every 50s, the one minute session outlives its first deadline
	for i := 0; i < 3; i++ {
		s.clock.Advance(50 * time.Second)
		out, err := s.repo.Update(s.ctx, selectionsession.UpdateInput{Session: session})
		s.Require().NoError(err)
		session = out.Session
	}

	got, err := s.repo.Get(s.ctx, selectionsession.GetInput{ID: "sess_1"})
	s.Require().NoError(err)
	s.Equal(testStart.Add(150*time.Second+time.Minute), got.Session.ExpiresAt)

	s.Run("expires once idle for a full TTL", func() {
		s.clock.Advance(time.Minute + time.Second)
		_, err := s.repo.Get(s.ctx, selectionsession.GetInput{ID: "sess_1"})
		s.True(errors.IsNotFound(err))
	})
}

func (s *RepositoryTestSuite) TestUpdate_Conflict() {
	s.create("sess_1")

	first, err := s.repo.Get(s.ctx, selectionsession.GetInput{ID: "sess_1"})
	s.Require().NoError(err)
	second, err := s.repo.Get(s.ctx, selectionsession.GetInput{ID: "sess_1"})
	s.Require().NoError(err)

	first.Session.State = selectionsession.StateComposing
	_, err = s.repo.Update(s.ctx, selectionsession.UpdateInput{Session: first.Session})
	s.Require().NoError(err)

	second.Session.State = selectionsession.StateComposing
	_, err = s.repo.Update(s.ctx, selectionsession.UpdateInput{Session: second.Session})
	s.True(errors.IsAborted(err))
}

func (s *RepositoryTestSuite) TestUpdate_Errors() {
	_, err := s.repo.Update(s.ctx, selectionsession.UpdateInput{})
	s.True(errors.IsInvalidArgument(err))

	ghost := &selectionsession.Session{ID: "ghost", Revision: 1, ExpiresAt: testStart.Add(time.Hour)}
	_, err = s.repo.Update(s.ctx, selectionsession.UpdateInput{Session: ghost})
	s.True(errors.IsNotFound(err))

	created := s.create("sess_1")
	s.clock.Advance(time.Hour)
	_, err = s.repo.Update(s.ctx, selectionsession.UpdateInput{Session: created})
	s.True(errors.IsInvalidArgument(err))
}

func (s *RepositoryTestSuite) TestDelete() {
	created := s.create("sess_1")
	created.Pending = []selectionsession.PendingArtifact{{Kind: selectionsession.ArtifactMetadata, URI: "cas://def"}}
	_, err := s.repo.Update(s.ctx, selectionsession.UpdateInput{Session: created})
	s.Require().NoError(err)

	out, err := s.repo.Delete(s.ctx, selectionsession.DeleteInput{ID: "sess_1"})
	s.Require().NoError(err)
	s.Require().NotNil(out.Session)
	s.Equal("cas://def", out.Session.Pending[0].URI)

	_, err = s.repo.Get(s.ctx, selectionsession.GetInput{ID: "sess_1"})
	s.True(errors.IsNotFound(err))

	again, err := s.repo.Delete(s.ctx, selectionsession.DeleteInput{ID: "sess_1"})
	s.Require().NoError(err)
	s.Nil(again.Session)
}

func (s *RepositoryTestSuite) TestReturnedSessionsAreCopies() {
	created := s.create("sess_1")
	created.Selection["Body"] = "Mutated.png"

	got, err := s.repo.Get(s.ctx, selectionsession.GetInput{ID: "sess_1"})
	s.Require().NoError(err)
	s.Equal(traits.Asset(""), got.Session.Selection["Body"])
}

func TestInMemoryRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newRepo: func(c clock.Clock) selectionsession.Repository {
			return selectionsession.NewInMemory(c)
		},
	})
}

func TestRedisRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newRepo: func(c clock.Clock) selectionsession.Repository {
			client, _ := testutils.CreateTestRedisClient(t)
			repo, err := selectionsession.NewRedisRepository(&selectionsession.Config{
				Client: client,
				Clock:  c,
			})
			if err != nil {
				t.Fatalf("failed to create repository: %v", err)
			}
			return repo
		},
	})
}

func TestRedisRepository_StoresWithTTL(t *testing.T) {
	client, mr := testutils.CreateTestRedisClient(t)
	repo, err := selectionsession.NewRedisRepository(&selectionsession.Config{
		Client: client,
		Clock:  clock.NewManual(testStart),
	})
	if err != nil {
		t.Fatal(err)
	}

	_, err = repo.Create(context.Background(), selectionsession.CreateInput{
		ID:         "sess_1",
		Collection: "c",
		TTL:        90 * time.Second,
	})
	if err != nil {
		t.Fatal(err)
	}

	if ttl := mr.TTL("selection_session:sess_1"); ttl != 90*time.Second {
		t.Fatalf("expected 90s TTL, got %s", ttl)
	}

	mr.FastForward(91 * time.Second)
	if mr.Exists("selection_session:sess_1") {
		t.Fatal("expected key to expire")
	}
}

func TestNewRedisRepositoryValidation(t *testing.T) {
	_, err := selectionsession.NewRedisRepository(&selectionsession.Config{})
	if !errors.IsInvalidArgument(err) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}
