package v1alpha1

import (
	"github.com/KirkDiggler/cryptea/internal/entities/traits"
	selectionsession "github.com/KirkDiggler/cryptea/internal/repositories/selection_session"
)

// Session is the wire form of an editor session
type Session struct {
	ID             string             `json:"id"`
	Collection     string             `json:"collection"`
	State          string             `json:"state"`
	Selection      map[string]string  `json:"selection"`
	ActiveCategory string             `json:"active_category,omitempty"`
	Attributes     []traits.Attribute `json:"attributes,omitempty"`
	LastError      string             `json:"last_error,omitempty"`
	Pending        []PendingArtifact  `json:"pending,omitempty"`
	Revision       int64              `json:"revision"`
	ExpiresAt      int64              `json:"expires_at"`
}

// PendingArtifact is an upload waiting for a mint
type PendingArtifact struct {
	Kind        string `json:"kind"`
	URI         string `json:"uri"`
	Hash        string `json:"hash"`
	ContentType string `json:"content_type"`
}

// GetCatalogRequest asks for the loaded catalog
type GetCatalogRequest struct{}

// GetCatalogResponse carries the catalog in scan order
type GetCatalogResponse struct {
	Collection  string          `json:"collection"`
	Description string          `json:"description,omitempty"`
	Catalog     *traits.Catalog `json:"catalog"`
	LayerOrder  []string        `json:"layer_order"`
	CanvasSize  int             `json:"canvas_size"`
}

// StartSessionRequest opens an editor session
type StartSessionRequest struct{}

// GetSessionRequest reads a session
type GetSessionRequest struct {
	SessionID string `json:"session_id"`
}

// SetActiveCategoryRequest chooses the category being edited
type SetActiveCategoryRequest struct {
	SessionID string `json:"session_id"`
	Category  string `json:"category"`
}

// ToggleTraitRequest picks or clears an asset. An empty category means the
// active one.
type ToggleTraitRequest struct {
	SessionID string `json:"session_id"`
	Category  string `json:"category,omitempty"`
	Asset     string `json:"asset"`
}

// RandomizeRequest draws a fresh random selection
type RandomizeRequest struct {
	SessionID string `json:"session_id"`
}

// ResetSelectionRequest clears the selection
type ResetSelectionRequest struct {
	SessionID string `json:"session_id"`
}

// SessionResponse is returned by every call that only changes the session
type SessionResponse struct {
	Session *Session `json:"session"`
}

// ComposeRequest renders the session's selection
type ComposeRequest struct {
	SessionID string `json:"session_id"`
	Format    string `json:"format,omitempty"`
}

// ComposeResponse carries the encoded artifact
type ComposeResponse struct {
	Session     *Session           `json:"session"`
	Image       []byte             `json:"image"`
	ContentType string             `json:"content_type"`
	Attributes  []traits.Attribute `json:"attributes"`
}

// PreviewRequest renders a selection without a session
type PreviewRequest struct {
	Selection map[string]string `json:"selection"`
	Format    string            `json:"format,omitempty"`
}

// PreviewResponse carries the encoded artifact
type PreviewResponse struct {
	Image       []byte             `json:"image"`
	ContentType string             `json:"content_type"`
	Attributes  []traits.Attribute `json:"attributes"`
}

// PublishRequest prepares a mint
type PublishRequest struct {
	SessionID   string `json:"session_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Format      string `json:"format,omitempty"`
}

// PublishResponse carries the uploaded URIs. TokenURI goes to the contract.
type PublishResponse struct {
	Session  *Session         `json:"session"`
	ImageURI string           `json:"image_uri"`
	TokenURI string           `json:"token_uri"`
	Metadata *traits.Metadata `json:"metadata"`
}

// ConfirmMintRequest marks pending uploads as minted
type ConfirmMintRequest struct {
	SessionID string `json:"session_id"`
	TokenURI  string `json:"token_uri,omitempty"`
}

// ConfirmMintResponse reports how many uploads were confirmed
type ConfirmMintResponse struct {
	Session   *Session `json:"session"`
	Confirmed int      `json:"confirmed"`
}

// EndSessionRequest tears a session down
type EndSessionRequest struct {
	SessionID string `json:"session_id"`
}

// EndSessionResponse reports how many uploads were queued for deletion
type EndSessionResponse struct {
	CleanupScheduled int `json:"cleanup_scheduled"`
}

func sessionToWire(s *selectionsession.Session) *Session {
	if s == nil {
		return nil
	}

	out := &Session{
		ID:             s.ID,
		Collection:     s.Collection,
		State:          string(s.State),
		Selection:      selectionToWire(s.Selection),
		ActiveCategory: string(s.ActiveCategory),
		Attributes:     s.Attributes,
		LastError:      s.LastError,
		Revision:       s.Revision,
		ExpiresAt:      s.ExpiresAt.Unix(),
	}
	for _, p := range s.Pending {
		out.Pending = append(out.Pending, PendingArtifact{
			Kind:        string(p.Kind),
			URI:         p.URI,
			Hash:        p.Hash,
			ContentType: p.ContentType,
		})
	}
	return out
}

func selectionToWire(sel traits.Selection) map[string]string {
	out := make(map[string]string, len(sel))
	for category, asset := range sel {
		out[string(category)] = string(asset)
	}
	return out
}

func selectionFromWire(sel map[string]string) traits.Selection {
	out := make(traits.Selection, len(sel))
	for category, asset := range sel {
		out[traits.Category(category)] = traits.Asset(asset)
	}
	return out
}
