package artifactledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/cryptea/internal/errors"
	"github.com/KirkDiggler/cryptea/internal/pkg/clock"
	artifactledger "github.com/KirkDiggler/cryptea/internal/repositories/artifact_ledger"
	"github.com/KirkDiggler/cryptea/internal/testutils"
)

const (
	hashA = "sha256:aaaa"
	hashB = "sha256:bbbb"
)

type LedgerTestSuite struct {
	suite.Suite
	newRepo func(t *testing.T) (artifactledger.Repository, func(time.Duration))
	repo    artifactledger.Repository
	advance func(time.Duration)
	ctx     context.Context
}

func (s *LedgerTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo, s.advance = s.newRepo(s.T())
}

func (s *LedgerTestSuite) retain(session string, hashes ...string) error {
	_, err := s.repo.Retain(s.ctx, artifactledger.RetainInput{SessionID: session, Hashes: hashes})
	return err
}

func (s *LedgerTestSuite) release(session string, hashes ...string) []string {
	out, err := s.repo.Release(s.ctx, artifactledger.ReleaseInput{SessionID: session, Hashes: hashes})
	s.Require().NoError(err)
	return out.Deletable
}

func (s *LedgerTestSuite) TestRelease_LastHolderGetsDeletable() {
	s.Require().NoError(s.retain("sess_a", hashA, hashB))
	s.Require().NoError(s.retain("sess_b", hashA))

	s.ElementsMatch([]string{hashB}, s.release("sess_a", hashA, hashB))
	s.Equal([]string{hashA}, s.release("sess_b", hashA))
}

func (s *LedgerTestSuite) TestRelease_MintedIsNeverDeletable() {
	s.Require().NoError(s.retain("sess_a", hashA))
	s.Require().NoError(s.retain("sess_b", hashA))

	_, err := s.repo.MarkMinted(s.ctx, artifactledger.MarkMintedInput{Hashes: []string{hashA}})
	s.Require().NoError(err)

	s.Empty(s.release("sess_a", hashA))
	s.Empty(s.release("sess_b", hashA))
}

func (s *LedgerTestSuite) TestRelease_OnlyOneCleanerWins() {
	s.Require().NoError(s.retain("sess_a", hashA))

	s.Equal([]string{hashA}, s.release("sess_a", hashA))
	s.Empty(s.release("sess_a", hashA))
}

func (s *LedgerTestSuite) TestRelease_UnknownHash() {
	s.Equal([]string{hashA}, s.release("sess_a", hashA))

	s.Run("reserves it so a late upload waits", func() {
		s.True(errors.IsAborted(s.retain("sess_b", hashA)))
	})
}

func (s *LedgerTestSuite) TestRetain_BlockedWhileDeleting() {
	s.Require().NoError(s.retain("sess_a", hashA))
	s.Require().Equal([]string{hashA}, s.release("sess_a", hashA))

	err := s.retain("sess_b", hashB, hashA)
	s.True(errors.IsAborted(err))

	s.Run("holds nothing after a refusal", func() {
		s.Require().NoError(s.retain("sess_c", hashB))
		s.Equal([]string{hashB}, s.release("sess_c", hashB), "sess_b must not still hold hashB")
	})

	s.Run("allowed once the cleaner forgets", func() {
		_, err := s.repo.Forget(s.ctx, artifactledger.ForgetInput{Hashes: []string{hashA}})
		s.Require().NoError(err)
		s.NoError(s.retain("sess_b", hashA))
	})
}

func (s *LedgerTestSuite) TestRetain_AllowedAfterLeaseLapses() {
	s.Require().NoError(s.retain("sess_a", hashA))
	s.Require().Equal([]string{hashA}, s.release("sess_a", hashA))

	s.advance(artifactledger.DefaultDeleteLease + time.Second)
	s.NoError(s.retain("sess_b", hashA))
}

func (s *LedgerTestSuite) TestValidation() {
	s.True(errors.IsInvalidArgument(s.retain("", hashA)))
	s.True(errors.IsInvalidArgument(s.retain("sess_a", "")))

	_, err := s.repo.Release(s.ctx, artifactledger.ReleaseInput{Hashes: []string{hashA}})
	s.True(errors.IsInvalidArgument(err))
	_, err = s.repo.MarkMinted(s.ctx, artifactledger.MarkMintedInput{Hashes: []string{""}})
	s.True(errors.IsInvalidArgument(err))
	_, err = s.repo.Forget(s.ctx, artifactledger.ForgetInput{Hashes: []string{""}})
	s.True(errors.IsInvalidArgument(err))
}

func TestInMemoryLedger(t *testing.T) {
	suite.Run(t, &LedgerTestSuite{
		newRepo: func(_ *testing.T) (artifactledger.Repository, func(time.Duration)) {
			c := clock.NewManual(time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC))
			return artifactledger.NewInMemory(c), c.Advance
		},
	})
}

func TestRedisLedger(t *testing.T) {
	suite.Run(t, &LedgerTestSuite{
		newRepo: func(t *testing.T) (artifactledger.Repository, func(time.Duration)) {
			client, mr := testutils.CreateTestRedisClient(t)
			repo, err := artifactledger.NewRedisRepository(&artifactledger.Config{Client: client})
			if err != nil {
				t.Fatalf("failed to create ledger: %v", err)
			}
			return repo, mr.FastForward
		},
	})
}

func TestNewRedisRepositoryValidation(t *testing.T) {
	_, err := artifactledger.NewRedisRepository(&artifactledger.Config{})
	if !errors.IsInvalidArgument(err) {
		t.Fatalf("expected invalid argument, got %v", err)
	}

	_, err = artifactledger.NewRedisRepository(nil)
	if !errors.IsInvalidArgument(err) {
		t.Fatalf("expected invalid argument for nil config, got %v", err)
	}
}
