// Package builders provides test data builders for creating test fixtures
package builders

import (
	"time"

	"github.com/KirkDiggler/cryptea/internal/entities/traits"
	selectionsession "github.com/KirkDiggler/cryptea/internal/repositories/selection_session"
)

// SessionBuilder provides a fluent interface for building test Session instances
type SessionBuilder struct {
	session *selectionsession.Session
}

// NewSessionBuilder creates a new builder with an empty selection
func NewSessionBuilder() *SessionBuilder {
	now := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	return &SessionBuilder{
		session: &selectionsession.Session{
			ID:         "session-test-123",
			Collection: "cryptea-punks",
			State:      selectionsession.StateEmpty,
			Selection:  traits.Selection{},
			Revision:   1,
			CreatedAt:  now,
			UpdatedAt:  now,
			ExpiresAt:  now.Add(selectionsession.DefaultTTL),
		},
	}
}

// WithID sets the session ID
func (b *SessionBuilder) WithID(id string) *SessionBuilder {
	b.session.ID = id
	return b
}

// WithCollection sets the collection name
func (b *SessionBuilder) WithCollection(name string) *SessionBuilder {
	b.session.Collection = name
	return b
}

// WithSelection sets the selection and moves the session to editing when
// anything is picked
func (b *SessionBuilder) WithSelection(sel traits.Selection) *SessionBuilder {
	b.session.Selection = sel.Clone()
	if sel.IsEmpty() {
		b.session.State = selectionsession.StateEmpty
	} else {
		b.session.State = selectionsession.StateEditing
	}
	return b
}

// WithActiveCategory sets the category being edited
func (b *SessionBuilder) WithActiveCategory(category traits.Category) *SessionBuilder {
	b.session.ActiveCategory = category
	return b
}

// WithState forces the lifecycle state
func (b *SessionBuilder) WithState(state selectionsession.State) *SessionBuilder {
	b.session.State = state
	return b
}

// Composing marks the session as rendering since startedAt
func (b *SessionBuilder) Composing(startedAt time.Time) *SessionBuilder {
	b.session.State = selectionsession.StateComposing
	b.session.ComposeStartedAt = startedAt
	return b
}

// WithPending adds uploads awaiting a mint
func (b *SessionBuilder) WithPending(artifacts ...selectionsession.PendingArtifact) *SessionBuilder {
	b.session.Pending = append(b.session.Pending, artifacts...)
	return b
}

// WithRevision sets the optimistic concurrency revision
func (b *SessionBuilder) WithRevision(rev int64) *SessionBuilder {
	b.session.Revision = rev
	return b
}

// Build returns a copy of the built session
func (b *SessionBuilder) Build() *selectionsession.Session {
	return b.session.Clone()
}
