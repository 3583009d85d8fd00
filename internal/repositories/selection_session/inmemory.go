package selectionsession

import (
	"context"
	"sync"

	"github.com/KirkDiggler/cryptea/internal/errors"
	"github.com/KirkDiggler/cryptea/internal/pkg/clock"
)

// InMemoryRepository implements Repository for a single process
type InMemoryRepository struct {
	mu    sync.Mutex
	clock clock.Clock
	store map[string]*Session
}

// NewInMemory creates a new in-memory repository
func NewInMemory(c clock.Clock) *InMemoryRepository {
	if c == nil {
		c = clock.New()
	}
	return &InMemoryRepository{
		clock: c,
		store: make(map[string]*Session),
	}
}

var _ Repository = (*InMemoryRepository)(nil)

// Create stores a new session
func (r *InMemoryRepository) Create(_ context.Context, input CreateInput) (*CreateOutput, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	if existing, ok := r.store[input.ID]; ok && !now.After(existing.ExpiresAt) {
		return nil, errors.AlreadyExists("selection session already exists")
	}

	session := newSession(input, now)
	r.store[input.ID] = session.Clone()

	return &CreateOutput{Session: session}, nil
}

// Get retrieves a live session
func (r *InMemoryRepository) Get(_ context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errIDEmpty)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	session, err := r.live(input.ID)
	if err != nil {
		return nil, err
	}
	return &GetOutput{Session: session.Clone()}, nil
}

// Update replaces a session when its revision still matches
func (r *InMemoryRepository) Update(_ context.Context, input UpdateInput) (*UpdateOutput, error) {
	if err := validateUpdate(input); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	if now.After(input.Session.ExpiresAt) {
		return nil, errors.InvalidArgument(errSessionExpired)
	}

	stored, err := r.live(input.Session.ID)
	if err != nil {
		return nil, err
	}
	if stored.Revision != input.Session.Revision {
		return nil, errors.Aborted("selection session was modified concurrently")
	}

	next := input.Session.Clone()
	next.touch(now)
	r.store[next.ID] = next.Clone()

	return &UpdateOutput{Session: next}, nil
}

// Delete removes a session and returns it
func (r *InMemoryRepository) Delete(_ context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errIDEmpty)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.store[input.ID]
	if !ok {
		return &DeleteOutput{}, nil
	}
	delete(r.store, input.ID)

	return &DeleteOutput{Session: session}, nil
}

// live returns the stored session, evicting it if expired. Callers hold mu.
func (r *InMemoryRepository) live(id string) (*Session, error) {
	session, ok := r.store[id]
	if !ok {
		return nil, errors.NotFound("selection session not found")
	}
	if r.clock.Now().After(session.ExpiresAt) {
		delete(r.store, id)
		return nil, errors.NotFound("selection session has expired")
	}
	return session, nil
}
