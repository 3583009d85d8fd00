package artifactledger

import (
	"context"
	"sync"
	"time"

	"github.com/KirkDiggler/cryptea/internal/errors"
	"github.com/KirkDiggler/cryptea/internal/pkg/clock"
)

type entry struct {
	holders  map[string]struct{}
	minted   bool
	deleting time.Time // lease end, zero when not reserved
}

// InMemoryRepository implements Repository for a single process
type InMemoryRepository struct {
	mu      sync.Mutex
	clock   clock.Clock
	lease   time.Duration
	entries map[string]*entry
}

// NewInMemory creates a new in-memory ledger
func NewInMemory(c clock.Clock) *InMemoryRepository {
	if c == nil {
		c = clock.New()
	}
	return &InMemoryRepository{
		clock:   c,
		lease:   DefaultDeleteLease,
		entries: make(map[string]*entry),
	}
}

var _ Repository = (*InMemoryRepository)(nil)

// Retain adds the session to every hash's holders
func (r *InMemoryRepository) Retain(_ context.Context, input RetainInput) (*RetainOutput, error) {
	if err := validateHolder(input.SessionID, input.Hashes); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, h := range input.Hashes {
		if e, ok := r.entries[h]; ok && r.reserved(e) {
			return nil, errors.Aborted(errBeingDeleted).WithMeta("hash", h)
		}
	}
	for _, h := range input.Hashes {
		e := r.get(h)
		e.holders[input.SessionID] = struct{}{}
	}
	return &RetainOutput{}, nil
}

// Release drops the session's holds and reserves orphaned hashes
func (r *InMemoryRepository) Release(_ context.Context, input ReleaseInput) (*ReleaseOutput, error) {
	if err := validateHolder(input.SessionID, input.Hashes); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	out := &ReleaseOutput{}
	for _, h := range input.Hashes {
		e := r.get(h)
		delete(e.holders, input.SessionID)
		if len(e.holders) > 0 || e.minted || r.reserved(e) {
			continue
		}
		e.deleting = r.clock.Now().Add(r.lease)
		out.Deletable = append(out.Deletable, h)
	}
	return out, nil
}

// MarkMinted flags hashes as consumed by a mint
func (r *InMemoryRepository) MarkMinted(_ context.Context, input MarkMintedInput) (*MarkMintedOutput, error) {
	if err := validateHashes(input.Hashes); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, h := range input.Hashes {
		r.get(h).minted = true
	}
	return &MarkMintedOutput{}, nil
}

// Forget drops finished reservations along with entries nobody references
func (r *InMemoryRepository) Forget(_ context.Context, input ForgetInput) (*ForgetOutput, error) {
	if err := validateHashes(input.Hashes); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, h := range input.Hashes {
		e, ok := r.entries[h]
		if !ok {
			continue
		}
		e.deleting = time.Time{}
		if len(e.holders) == 0 && !e.minted {
			delete(r.entries, h)
		}
	}
	return &ForgetOutput{}, nil
}

// get returns the entry for h, creating it. Callers hold mu.
func (r *InMemoryRepository) get(h string) *entry {
	e, ok := r.entries[h]
	if !ok {
		e = &entry{holders: make(map[string]struct{})}
		r.entries[h] = e
	}
	return e
}

func (r *InMemoryRepository) reserved(e *entry) bool {
	return !e.deleting.IsZero() && r.clock.Now().Before(e.deleting)
}
