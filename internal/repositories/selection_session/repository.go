// Package selectionsession provides repository interface and types for forge
// selection sessions: the scratch state behind one editor page.
package selectionsession

import (
	"context"
	"time"

	"github.com/KirkDiggler/cryptea/internal/entities/traits"
	"github.com/KirkDiggler/cryptea/internal/errors"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=selectionsessionmock github.com/KirkDiggler/cryptea/internal/repositories/selection_session Repository

// State is the selection-and-composition lifecycle state
type State string

// Lifecycle states. Composing is transient; Failed returns to Editing on the
// next edit.
const (
	StateEmpty     State = "empty"
	StateEditing   State = "editing"
	StateComposing State = "composing"
	StateComposed  State = "composed"
	StateFailed    State = "failed"
)

// ArtifactKind tells uploaded artifacts apart
type ArtifactKind string

// Artifact kinds
const (
	ArtifactImage    ArtifactKind = "image"
	ArtifactMetadata ArtifactKind = "metadata"
)

// PendingArtifact is an upload that has not been consumed by a mint yet.
type PendingArtifact struct {
	Kind        ArtifactKind `json:"kind"`
	URI         string       `json:"uri"`
	Hash        string       `json:"hash"`
	ContentType string       `json:"content_type"`
	UploadedAt  time.Time    `json:"uploaded_at"`
}

// Session is the server-held selection for one editor
type Session struct {
	ID             string           `json:"id"`
	Collection     string           `json:"collection"`
	State          State            `json:"state"`
	Selection      traits.Selection `json:"selection"`
	ActiveCategory traits.Category  `json:"active_category,omitempty"`

	// Attributes of the last successful compose
	Attributes []traits.Attribute `json:"attributes,omitempty"`
	LastError  string             `json:"last_error,omitempty"`

	Pending []PendingArtifact `json:"pending,omitempty"`

	// Set while State is composing so a crashed compose can be recovered
	ComposeStartedAt time.Time `json:"compose_started_at,omitempty"`

	// Revision increases on every successful update
	Revision  int64     `json:"revision"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Every update pushes ExpiresAt to UpdatedAt + TTL
	TTL       time.Duration `json:"ttl,omitempty"`
	ExpiresAt time.Time     `json:"expires_at"`
}

// touch stamps a successful write and slides the expiry
func (s *Session) touch(now time.Time) {
	s.Revision++
	s.UpdatedAt = now
	if s.TTL > 0 {
		s.ExpiresAt = now.Add(s.TTL)
	}
}

// Clone returns a deep copy
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.Selection = s.Selection.Clone()
	if s.Attributes != nil {
		out.Attributes = append([]traits.Attribute(nil), s.Attributes...)
	}
	if s.Pending != nil {
		out.Pending = append([]PendingArtifact(nil), s.Pending...)
	}
	return &out
}

// CreateInput contains parameters for creating a session
type CreateInput struct {
	ID         string
	Collection string
	Selection  traits.Selection
	TTL        time.Duration // How long the session should live
}

// CreateOutput contains the created session
type CreateOutput struct {
	Session *Session
}

// GetInput contains parameters for retrieving a session
type GetInput struct {
	ID string
}

// GetOutput contains the retrieved session
type GetOutput struct {
	Session *Session
}

// UpdateInput carries the modified session. Its Revision must match the
// stored one.
type UpdateInput struct {
	Session *Session
}

// UpdateOutput contains the stored session with its new revision
type UpdateOutput struct {
	Session *Session
}

// DeleteInput contains parameters for deleting a session
type DeleteInput struct {
	ID string
}

// DeleteOutput contains the removed session, nil when there was none
type DeleteOutput struct {
	Session *Session
}

// Repository defines the interface for selection session storage operations
type Repository interface {
	// Create stores a new session in the empty state
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a live session
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Update replaces a session if nobody else changed it since it was read
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)

	// Delete removes a session and returns what was stored
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)
}

const (
	// DefaultTTL bounds how long an idle editor keeps its session. Each
	// update restarts the countdown.
	DefaultTTL = 30 * time.Minute

	errIDEmpty         = "session ID cannot be empty"
	errCollectionEmpty = "collection cannot be empty"
	errSessionNil      = "session cannot be nil"
	errSessionExpired  = "session has already expired"
)

func validateCreate(input CreateInput) error {
	if input.ID == "" {
		return errors.InvalidArgument(errIDEmpty)
	}
	if input.Collection == "" {
		return errors.InvalidArgument(errCollectionEmpty)
	}
	return nil
}

func validateUpdate(input UpdateInput) error {
	if input.Session == nil {
		return errors.InvalidArgument(errSessionNil)
	}
	if input.Session.ID == "" {
		return errors.InvalidArgument(errIDEmpty)
	}
	return nil
}

func newSession(input CreateInput, now time.Time) *Session {
	ttl := input.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	sel := input.Selection.Clone()
	state := StateEmpty
	if !sel.IsEmpty() {
		state = StateEditing
	}
	return &Session{
		ID:         input.ID,
		Collection: input.Collection,
		State:      state,
		Selection:  sel,
		Revision:   1,
		CreatedAt:  now,
		UpdatedAt:  now,
		TTL:        ttl,
		ExpiresAt:  now.Add(ttl),
	}
}
