// Package v1alpha1 handles the forge gRPC service interface
package v1alpha1

import (
	"context"

	"github.com/KirkDiggler/cryptea/internal/compositor"
	"github.com/KirkDiggler/cryptea/internal/entities/traits"
	"github.com/KirkDiggler/cryptea/internal/errors"
	"github.com/KirkDiggler/cryptea/internal/orchestrators/forge"
)

// HandlerConfig holds dependencies for the forge handler
type HandlerConfig struct {
	ForgeService forge.Service
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	if c.ForgeService == nil {
		return errors.InvalidArgument("forge service is required")
	}
	return nil
}

// Handler implements the forge gRPC service
type Handler struct {
	forgeService forge.Service
}

var _ ForgeServiceServer = (*Handler)(nil)

// NewHandler creates a new forge handler with the given configuration
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Handler{
		forgeService: cfg.ForgeService,
	}, nil
}

// GetCatalog returns the collection's trait catalog
func (h *Handler) GetCatalog(ctx context.Context, _ *GetCatalogRequest) (*GetCatalogResponse, error) {
	out, err := h.forgeService.GetCatalog(ctx, &forge.GetCatalogInput{})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	layers := make([]string, 0, len(out.LayerOrder))
	for _, category := range out.LayerOrder {
		layers = append(layers, string(category))
	}

	return &GetCatalogResponse{
		Collection:  out.Collection.Name,
		Description: out.Collection.Description,
		Catalog:     out.Catalog,
		LayerOrder:  layers,
		CanvasSize:  out.CanvasSize,
	}, nil
}

// StartSession opens a new editor session
func (h *Handler) StartSession(ctx context.Context, _ *StartSessionRequest) (*SessionResponse, error) {
	out, err := h.forgeService.StartSession(ctx, &forge.StartSessionInput{})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return &SessionResponse{Session: sessionToWire(out.Session)}, nil
}

// GetSession reads an editor session
func (h *Handler) GetSession(ctx context.Context, req *GetSessionRequest) (*SessionResponse, error) {
	if req.SessionID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("session_id is required"))
	}

	out, err := h.forgeService.GetSession(ctx, &forge.GetSessionInput{SessionID: req.SessionID})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return &SessionResponse{Session: sessionToWire(out.Session)}, nil
}

// SetActiveCategory chooses the category being edited
func (h *Handler) SetActiveCategory(ctx context.Context, req *SetActiveCategoryRequest) (*SessionResponse, error) {
	if req.SessionID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("session_id is required"))
	}
	if req.Category == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("category is required"))
	}

	out, err := h.forgeService.SetActiveCategory(ctx, &forge.SetActiveCategoryInput{
		SessionID: req.SessionID,
		Category:  traits.Category(req.Category),
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return &SessionResponse{Session: sessionToWire(out.Session)}, nil
}

// ToggleTrait picks or clears an asset
func (h *Handler) ToggleTrait(ctx context.Context, req *ToggleTraitRequest) (*SessionResponse, error) {
	if req.SessionID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("session_id is required"))
	}
	if req.Asset == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("asset is required"))
	}

	out, err := h.forgeService.ToggleTrait(ctx, &forge.ToggleTraitInput{
		SessionID: req.SessionID,
		Category:  traits.Category(req.Category),
		Asset:     traits.Asset(req.Asset),
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return &SessionResponse{Session: sessionToWire(out.Session)}, nil
}

// Randomize draws a fresh selection
func (h *Handler) Randomize(ctx context.Context, req *RandomizeRequest) (*SessionResponse, error) {
	if req.SessionID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("session_id is required"))
	}

	out, err := h.forgeService.Randomize(ctx, &forge.RandomizeInput{SessionID: req.SessionID})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return &SessionResponse{Session: sessionToWire(out.Session)}, nil
}

// ResetSelection clears the selection
func (h *Handler) ResetSelection(ctx context.Context, req *ResetSelectionRequest) (*SessionResponse, error) {
	if req.SessionID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("session_id is required"))
	}

	out, err := h.forgeService.ResetSelection(ctx, &forge.ResetSelectionInput{SessionID: req.SessionID})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return &SessionResponse{Session: sessionToWire(out.Session)}, nil
}

// Compose renders the session's selection
func (h *Handler) Compose(ctx context.Context, req *ComposeRequest) (*ComposeResponse, error) {
	if req.SessionID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("session_id is required"))
	}
	format, err := compositor.ParseRequestedFormat(req.Format)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.forgeService.Compose(ctx, &forge.ComposeInput{
		SessionID: req.SessionID,
		Format:    format,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &ComposeResponse{
		Session:     sessionToWire(out.Session),
		Image:       out.Image,
		ContentType: out.ContentType,
		Attributes:  out.Attributes,
	}, nil
}

// Preview renders a selection without a session
func (h *Handler) Preview(ctx context.Context, req *PreviewRequest) (*PreviewResponse, error) {
	format, err := compositor.ParseRequestedFormat(req.Format)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.forgeService.Preview(ctx, &forge.PreviewInput{
		Selection: selectionFromWire(req.Selection),
		Format:    format,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &PreviewResponse{
		Image:       out.Image,
		ContentType: out.ContentType,
		Attributes:  out.Attributes,
	}, nil
}

// Publish uploads the composed artifact and its metadata
func (h *Handler) Publish(ctx context.Context, req *PublishRequest) (*PublishResponse, error) {
	if req.SessionID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("session_id is required"))
	}
	if req.Name == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("name is required"))
	}
	format, err := compositor.ParseRequestedFormat(req.Format)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.forgeService.Publish(ctx, &forge.PublishInput{
		SessionID:   req.SessionID,
		Name:        req.Name,
		Description: req.Description,
		Format:      format,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &PublishResponse{
		Session:  sessionToWire(out.Session),
		ImageURI: out.ImageURI,
		TokenURI: out.TokenURI,
		Metadata: out.Metadata,
	}, nil
}

// ConfirmMint marks pending uploads as minted
func (h *Handler) ConfirmMint(ctx context.Context, req *ConfirmMintRequest) (*ConfirmMintResponse, error) {
	if req.SessionID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("session_id is required"))
	}

	out, err := h.forgeService.ConfirmMint(ctx, &forge.ConfirmMintInput{
		SessionID: req.SessionID,
		TokenURI:  req.TokenURI,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &ConfirmMintResponse{
		Session:   sessionToWire(out.Session),
		Confirmed: out.Confirmed,
	}, nil
}

// EndSession tears a session down
func (h *Handler) EndSession(ctx context.Context, req *EndSessionRequest) (*EndSessionResponse, error) {
	if req.SessionID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("session_id is required"))
	}

	out, err := h.forgeService.EndSession(ctx, &forge.EndSessionInput{SessionID: req.SessionID})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return &EndSessionResponse{CleanupScheduled: out.CleanupScheduled}, nil
}
