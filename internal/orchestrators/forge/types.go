package forge

import (
	"github.com/KirkDiggler/cryptea/internal/compositor"
	"github.com/KirkDiggler/cryptea/internal/entities/traits"
	selectionsession "github.com/KirkDiggler/cryptea/internal/repositories/selection_session"
)

// Collection describes the collection the forge serves
type Collection struct {
	Name        string
	Description string
}

// GetCatalogInput defines the request for the trait catalog
type GetCatalogInput struct{}

// GetCatalogOutput defines the response for the trait catalog
type GetCatalogOutput struct {
	Collection Collection
	Catalog    *traits.Catalog
	LayerOrder traits.LayerOrder
	CanvasSize int
}

// StartSessionInput defines the request for opening an editor session
type StartSessionInput struct{}

// StartSessionOutput defines the response for opening an editor session
type StartSessionOutput struct {
	Session *selectionsession.Session
}

// GetSessionInput defines the request for reading a session
type GetSessionInput struct {
	SessionID string
}

// GetSessionOutput defines the response for reading a session
type GetSessionOutput struct {
	Session *selectionsession.Session
}

// SetActiveCategoryInput defines the request for choosing the edited category
type SetActiveCategoryInput struct {
	SessionID string
	Category  traits.Category
}

// SetActiveCategoryOutput defines the response for choosing the edited category
type SetActiveCategoryOutput struct {
	Session *selectionsession.Session
}

// ToggleTraitInput defines the request for picking or clearing an asset.
// An empty Category means the session's active category.
type ToggleTraitInput struct {
	SessionID string
	Category  traits.Category
	Asset     traits.Asset
}

// ToggleTraitOutput defines the response for picking or clearing an asset
type ToggleTraitOutput struct {
	Session *selectionsession.Session
}

// RandomizeInput defines the request for a random selection
type RandomizeInput struct {
	SessionID string
}

// RandomizeOutput defines the response for a random selection
type RandomizeOutput struct {
	Session *selectionsession.Session
}

// ResetSelectionInput defines the request for clearing the selection
type ResetSelectionInput struct {
	SessionID string
}

// ResetSelectionOutput defines the response for clearing the selection
type ResetSelectionOutput struct {
	Session *selectionsession.Session
}

// ComposeInput defines the request for rendering the session's selection
type ComposeInput struct {
	SessionID string
	Format    compositor.Format
}

// ComposeOutput defines the response for rendering the session's selection
type ComposeOutput struct {
	Session     *selectionsession.Session
	Image       []byte
	ContentType string
	Attributes  []traits.Attribute
}

// PreviewInput defines the request for rendering a selection without a session
type PreviewInput struct {
	Selection traits.Selection
	Format    compositor.Format
}

// PreviewOutput defines the response for a stateless render
type PreviewOutput struct {
	Image       []byte
	ContentType string
	Attributes  []traits.Attribute
}

// PublishInput defines the request for preparing a mint
type PublishInput struct {
	SessionID   string
	Name        string
	Description string // Defaults to the collection description
	Format      compositor.Format
}

// PublishOutput defines the response for preparing a mint. TokenURI is what
// the contract call takes.
type PublishOutput struct {
	Session  *selectionsession.Session
	ImageURI string
	TokenURI string
	Metadata *traits.Metadata
}

// ConfirmMintInput defines the request for marking uploads as minted.
// An empty TokenURI confirms whatever is pending.
type ConfirmMintInput struct {
	SessionID string
	TokenURI  string
}

// ConfirmMintOutput defines the response for marking uploads as minted
type ConfirmMintOutput struct {
	Session   *selectionsession.Session
	Confirmed int
}

// EndSessionInput defines the request for tearing down a session
type EndSessionInput struct {
	SessionID string
}

// EndSessionOutput defines the response for tearing down a session.
// CleanupScheduled counts uploads handed to background deletion.
type EndSessionOutput struct {
	CleanupScheduled int
}
