// Package gateway serves the browser-facing HTTP surface: the catalog, raw
// asset files and stateless previews.
package gateway

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/KirkDiggler/cryptea/internal/compositor"
	"github.com/KirkDiggler/cryptea/internal/entities/traits"
	"github.com/KirkDiggler/cryptea/internal/errors"
	"github.com/KirkDiggler/cryptea/internal/orchestrators/forge"
)

const (
	// AttributesHeader carries the preview's attribute list as JSON
	AttributesHeader = "X-Attributes"

	maxPreviewBody = 64 << 10
)

// Config holds the dependencies for the gateway
type Config struct {
	ForgeService forge.Service
	Assets       *compositor.FSLoader
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.ForgeService == nil {
		vb.RequiredField("ForgeService")
	}
	if c.Assets == nil {
		vb.RequiredField("Assets")
	}
	return vb.Build()
}

// Gateway is the HTTP front of the forge
type Gateway struct {
	forgeService forge.Service
	assets       *compositor.FSLoader
}

// New creates a gateway
func New(cfg *Config) (*Gateway, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &Gateway{
		forgeService: cfg.ForgeService,
		assets:       cfg.Assets,
	}, nil
}

// Router returns the chi router with every route mounted
func (g *Gateway) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	g.RegisterHTTP(r)
	return r
}

// RegisterHTTP mounts the gateway endpoints on r
func (g *Gateway) RegisterHTTP(r chi.Router) {
	r.Get("/healthz", g.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/catalog", g.handleCatalog)
		r.Get("/assets/{category}/{asset}", g.handleAsset)
		r.Post("/preview", g.handlePreview)
	})
}

func (g *Gateway) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type catalogResponse struct {
	Collection  string          `json:"collection"`
	Description string          `json:"description,omitempty"`
	Catalog     *traits.Catalog `json:"catalog"`
	LayerOrder  []string        `json:"layer_order"`
	CanvasSize  int             `json:"canvas_size"`
}

// GET /v1/catalog
func (g *Gateway) handleCatalog(w http.ResponseWriter, r *http.Request) {
	out, err := g.forgeService.GetCatalog(r.Context(), &forge.GetCatalogInput{})
	if err != nil {
		writeError(w, err)
		return
	}

	layers := make([]string, 0, len(out.LayerOrder))
	for _, category := range out.LayerOrder {
		layers = append(layers, string(category))
	}

	writeJSON(w, http.StatusOK, catalogResponse{
		Collection:  out.Collection.Name,
		Description: out.Collection.Description,
		Catalog:     out.Catalog,
		LayerOrder:  layers,
		CanvasSize:  out.CanvasSize,
	})
}

// GET /v1/assets/{category}/{asset}
// Only files listed in the catalog are served.
func (g *Gateway) handleAsset(w http.ResponseWriter, r *http.Request) {
	category := traits.Category(chi.URLParam(r, "category"))
	asset := traits.Asset(chi.URLParam(r, "asset"))

	out, err := g.forgeService.GetCatalog(r.Context(), &forge.GetCatalogInput{})
	if err != nil {
		writeError(w, err)
		return
	}
	if !out.Catalog.Contains(category, asset) {
		writeError(w, errors.NotFoundf("asset %s/%s is not in the catalog", category, asset))
		return
	}

	path, err := g.assets.Path(category, asset)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=3600")
	http.ServeFile(w, r, path)
}

type previewRequest struct {
	Selection map[string]string `json:"selection"`
	Format    string            `json:"format,omitempty"`
}

// POST /v1/preview
func (g *Gateway) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPreviewBody)).Decode(&req); err != nil {
		writeError(w, errors.InvalidArgument("invalid request body"))
		return
	}

	format, err := compositor.ParseRequestedFormat(req.Format)
	if err != nil {
		writeError(w, err)
		return
	}

	sel := make(traits.Selection, len(req.Selection))
	for category, asset := range req.Selection {
		sel[traits.Category(category)] = traits.Asset(asset)
	}

	out, err := g.forgeService.Preview(r.Context(), &forge.PreviewInput{
		Selection: sel,
		Format:    format,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	attrs, err := json.Marshal(out.Attributes)
	if err != nil {
		writeError(w, errors.Wrap(err, "failed to encode attributes"))
		return
	}

	w.Header().Set("Content-Type", out.ContentType)
	w.Header().Set(AttributesHeader, string(attrs))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out.Image); err != nil {
		slog.Warn("Failed to write preview", "error", err)
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code.HTTPStatus() >= http.StatusInternalServerError {
		slog.Error("Request failed", "code", code, "error", err)
	}
	writeJSON(w, code.HTTPStatus(), errorResponse{
		Code:    code.String(),
		Message: errors.GetMessage(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("Failed to write response", "error", err)
	}
}
