// Package forge implements the selection lifecycle: editor sessions, trait
// picking, composition and mint preparation.
package forge

//go:generate mockgen -destination=mock/mock_service.go -package=forgemock github.com/KirkDiggler/cryptea/internal/orchestrators/forge Service,Composer

import (
	"context"
	"log/slog"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"golang.org/x/sync/semaphore"

	"github.com/KirkDiggler/cryptea/internal/clients/storage"
	"github.com/KirkDiggler/cryptea/internal/compositor"
	"github.com/KirkDiggler/cryptea/internal/entities/traits"
	"github.com/KirkDiggler/cryptea/internal/errors"
	"github.com/KirkDiggler/cryptea/internal/pkg/clock"
	"github.com/KirkDiggler/cryptea/internal/pkg/idgen"
	artifactledger "github.com/KirkDiggler/cryptea/internal/repositories/artifact_ledger"
	selectionsession "github.com/KirkDiggler/cryptea/internal/repositories/selection_session"
)

const (
	// DefaultComposeTimeout is how long a composing state is honored before
	// it is treated as abandoned
	DefaultComposeTimeout = 2 * time.Minute

	// DefaultCleanupTimeout bounds one background artifact cleanup
	DefaultCleanupTimeout = 30 * time.Second
)

// Service defines the interface for forge operations
type Service interface {
	GetCatalog(ctx context.Context, input *GetCatalogInput) (*GetCatalogOutput, error)

	// Session lifecycle
	StartSession(ctx context.Context, input *StartSessionInput) (*StartSessionOutput, error)
	GetSession(ctx context.Context, input *GetSessionInput) (*GetSessionOutput, error)
	EndSession(ctx context.Context, input *EndSessionInput) (*EndSessionOutput, error)

	// Selection edits
	SetActiveCategory(ctx context.Context, input *SetActiveCategoryInput) (*SetActiveCategoryOutput, error)
	ToggleTrait(ctx context.Context, input *ToggleTraitInput) (*ToggleTraitOutput, error)
	Randomize(ctx context.Context, input *RandomizeInput) (*RandomizeOutput, error)
	ResetSelection(ctx context.Context, input *ResetSelectionInput) (*ResetSelectionOutput, error)

	// Rendering and mint preparation
	Compose(ctx context.Context, input *ComposeInput) (*ComposeOutput, error)
	Preview(ctx context.Context, input *PreviewInput) (*PreviewOutput, error)
	Publish(ctx context.Context, input *PublishInput) (*PublishOutput, error)
	ConfirmMint(ctx context.Context, input *ConfirmMintInput) (*ConfirmMintOutput, error)

	// Drain waits for background cleanups started by EndSession
	Drain(ctx context.Context) error
}

// Composer renders a selection
type Composer interface {
	Compose(ctx context.Context, input *compositor.ComposeInput) (*compositor.ComposeOutput, error)
}

// Config holds the dependencies for the forge orchestrator
type Config struct {
	Collection  Collection
	Catalog     *traits.Catalog
	LayerOrder  traits.LayerOrder // Defaults to the catalog's category order
	CanvasSize  int
	SessionRepo selectionsession.Repository
	Composer    Composer
	Storage     storage.Client
	Ledger      artifactledger.Repository
	Roller      dice.Roller
	IDGenerator idgen.Generator
	Clock       clock.Clock

	SessionTTL            time.Duration
	ComposeTimeout        time.Duration
	CleanupTimeout        time.Duration
	MaxConcurrentComposes int64
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateRequired("Collection.Name", c.Collection.Name, vb)
	if c.Catalog == nil {
		vb.RequiredField("Catalog")
	}
	if c.SessionRepo == nil {
		vb.RequiredField("SessionRepo")
	}
	if c.Composer == nil {
		vb.RequiredField("Composer")
	}
	if c.Storage == nil {
		vb.RequiredField("Storage")
	}
	if c.Ledger == nil {
		vb.RequiredField("Ledger")
	}
	if c.Roller == nil {
		vb.RequiredField("Roller")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	if err := c.LayerOrder.Validate(); err != nil {
		vb.Field("LayerOrder", errors.GetMessage(err))
	}
	if c.MaxConcurrentComposes < 0 {
		vb.Field("MaxConcurrentComposes", "must not be negative")
	}

	return vb.Build()
}

type orchestrator struct {
	collection  Collection
	catalog     *traits.Catalog
	layers      traits.LayerOrder
	canvasSize  int
	sessionRepo selectionsession.Repository
	composer    Composer
	storage     storage.Client
	ledger      artifactledger.Repository
	roller      dice.Roller
	idGen       idgen.Generator
	clock       clock.Clock

	sessionTTL     time.Duration
	composeTimeout time.Duration
	cleanupTimeout time.Duration

	// composeSlots bounds concurrent renders across all sessions
	composeSlots *semaphore.Weighted

	mu        sync.Mutex
	composing map[string]struct{}

	cleanups sync.WaitGroup
}

// NewOrchestrator creates a new forge orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	layers := cfg.LayerOrder
	if len(layers) == 0 {
		layers = traits.LayerOrder(cfg.Catalog.Categories())
	}
	slots := cfg.MaxConcurrentComposes
	if slots == 0 {
		slots = int64(runtime.GOMAXPROCS(0))
	}

	o := &orchestrator{
		collection:     cfg.Collection,
		catalog:        cfg.Catalog,
		layers:         layers,
		canvasSize:     cfg.CanvasSize,
		sessionRepo:    cfg.SessionRepo,
		composer:       cfg.Composer,
		storage:        cfg.Storage,
		ledger:         cfg.Ledger,
		roller:         cfg.Roller,
		idGen:          cfg.IDGenerator,
		clock:          cfg.Clock,
		sessionTTL:     cfg.SessionTTL,
		composeTimeout: cfg.ComposeTimeout,
		cleanupTimeout: cfg.CleanupTimeout,
		composeSlots:   semaphore.NewWeighted(slots),
		composing:      make(map[string]struct{}),
	}
	if o.sessionTTL == 0 {
		o.sessionTTL = selectionsession.DefaultTTL
	}
	if o.composeTimeout == 0 {
		o.composeTimeout = DefaultComposeTimeout
	}
	if o.cleanupTimeout == 0 {
		o.cleanupTimeout = DefaultCleanupTimeout
	}

	if missing := len(layers) - len(layers.Renderable(cfg.Catalog)); missing > 0 {
		slog.Warn("Layer order names categories missing from the catalog",
			"collection", cfg.Collection.Name,
			"missing", missing,
		)
	}

	return o, nil
}

// GetCatalog returns the loaded catalog and the effective layer order
func (o *orchestrator) GetCatalog(_ context.Context, _ *GetCatalogInput) (*GetCatalogOutput, error) {
	return &GetCatalogOutput{
		Collection: o.collection,
		Catalog:    o.catalog,
		LayerOrder: append(traits.LayerOrder(nil), o.layers...),
		CanvasSize: o.canvasSize,
	}, nil
}

// StartSession opens an editor with every category unset
func (o *orchestrator) StartSession(ctx context.Context, _ *StartSessionInput) (*StartSessionOutput, error) {
	out, err := o.sessionRepo.Create(ctx, selectionsession.CreateInput{
		ID:         o.idGen.Generate(),
		Collection: o.collection.Name,
		Selection:  traits.NewSelection(o.catalog),
		TTL:        o.sessionTTL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create session")
	}

	slog.Info("Session started",
		"session_id", out.Session.ID,
		"collection", o.collection.Name,
	)

	return &StartSessionOutput{Session: out.Session}, nil
}

// GetSession returns the current session state
func (o *orchestrator) GetSession(ctx context.Context, input *GetSessionInput) (*GetSessionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	session, err := o.getSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}
	return &GetSessionOutput{Session: session}, nil
}

// SetActiveCategory records which category the editor is working on
func (o *orchestrator) SetActiveCategory(ctx context.Context, input *SetActiveCategoryInput) (*SetActiveCategoryOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if !o.catalog.Has(input.Category) {
		return nil, errors.Preconditionf("category %q is not in the catalog", input.Category)
	}

	session, err := o.edit(ctx, input.SessionID, func(s *selectionsession.Session) error {
		s.ActiveCategory = input.Category
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &SetActiveCategoryOutput{Session: session}, nil
}

// ToggleTrait picks an asset for a category, or clears it if already picked
func (o *orchestrator) ToggleTrait(ctx context.Context, input *ToggleTraitInput) (*ToggleTraitOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Asset == "" {
		return nil, errors.InvalidArgument("asset is required")
	}

	session, err := o.edit(ctx, input.SessionID, func(s *selectionsession.Session) error {
		category := input.Category
		if category == "" {
			category = s.ActiveCategory
		}
		if category == "" {
			return errors.Precondition("no active category")
		}

		sel, err := compositor.ToggleSelect(o.catalog, s.Selection, category, input.Asset)
		if err != nil {
			return err
		}
		s.Selection = sel
		s.ActiveCategory = category
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ToggleTraitOutput{Session: session}, nil
}

// Randomize replaces the whole selection with a fresh random draw
func (o *orchestrator) Randomize(ctx context.Context, input *RandomizeInput) (*RandomizeOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	session, err := o.edit(ctx, input.SessionID, func(s *selectionsession.Session) error {
		drawn, err := compositor.Randomize(o.roller, o.catalog, o.layers)
		if err != nil {
			return err
		}
		sel := traits.NewSelection(o.catalog)
		for category, asset := range drawn {
			sel[category] = asset
		}
		s.Selection = sel
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &RandomizeOutput{Session: session}, nil
}

// ResetSelection clears every category
func (o *orchestrator) ResetSelection(ctx context.Context, input *ResetSelectionInput) (*ResetSelectionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	session, err := o.edit(ctx, input.SessionID, func(s *selectionsession.Session) error {
		s.Selection = traits.NewSelection(o.catalog)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ResetSelectionOutput{Session: session}, nil
}

// Compose renders the session's current selection. Every call renders
// again; nothing is cached.
func (o *orchestrator) Compose(ctx context.Context, input *ComposeInput) (*ComposeOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	session, rendered, err := o.compose(ctx, input.SessionID, input.Format)
	if err != nil {
		return nil, err
	}

	return &ComposeOutput{
		Session:     session,
		Image:       rendered.Image,
		ContentType: rendered.ContentType,
		Attributes:  rendered.Attributes,
	}, nil
}

// Preview renders an arbitrary selection without touching any session
func (o *orchestrator) Preview(ctx context.Context, input *PreviewInput) (*PreviewOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	for category, asset := range input.Selection {
		if asset != "" && !o.catalog.Contains(category, asset) {
			return nil, errors.Preconditionf("asset %q does not belong to category %q", asset, category)
		}
	}

	if err := o.composeSlots.Acquire(ctx, 1); err != nil {
		return nil, errors.Canceled("preview canceled while waiting to render")
	}
	defer o.composeSlots.Release(1)

	rendered, err := o.composer.Compose(ctx, &compositor.ComposeInput{
		Selection:  input.Selection,
		LayerOrder: o.layers,
		CanvasSize: o.canvasSize,
		Format:     input.Format,
	})
	if err != nil {
		return nil, err
	}

	return &PreviewOutput{
		Image:       rendered.Image,
		ContentType: rendered.ContentType,
		Attributes:  rendered.Attributes,
	}, nil
}

// Publish composes the selection, uploads the image and its metadata and
// records both as pending until a mint confirms them. The returned TokenURI
// is handed to the contract call.
func (o *orchestrator) Publish(ctx context.Context, input *PublishInput) (*PublishOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("SessionID", input.SessionID, vb)
	errors.ValidateRequired("Name", input.Name, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	session, rendered, err := o.compose(ctx, input.SessionID, input.Format)
	if err != nil {
		return nil, err
	}

	// Uploads this publish added to the session, released again on failure
	var fresh []selectionsession.PendingArtifact

	image, err := o.upload(ctx, session, selectionsession.ArtifactImage, rendered.Image, rendered.ContentType, &fresh)
	if err != nil {
		o.scheduleCleanup(session.ID, fresh)
		return nil, errors.Wrap(err, "failed to upload image")
	}

	description := input.Description
	if description == "" {
		description = o.collection.Description
	}
	metadata := &traits.Metadata{
		Name:        input.Name,
		Description: description,
		Image:       image.URI,
		Attributes:  rendered.Attributes,
	}

	doc, err := storage.CanonicalJSON(metadata)
	if err != nil {
		o.scheduleCleanup(session.ID, fresh)
		return nil, err
	}
	meta, err := o.upload(ctx, session, selectionsession.ArtifactMetadata, doc, "application/json", &fresh)
	if err != nil {
		o.scheduleCleanup(session.ID, fresh)
		return nil, errors.Wrap(err, "failed to upload metadata")
	}

	session.Pending = mergePending(session.Pending, []selectionsession.PendingArtifact{*image, *meta})

	updated, err := o.sessionRepo.Update(ctx, selectionsession.UpdateInput{Session: session})
	if err != nil {
		o.scheduleCleanup(session.ID, fresh)
		return nil, errors.Wrap(err, "failed to record uploads")
	}

	slog.Info("Published artifact",
		"session_id", session.ID,
		"image_uri", image.URI,
		"token_uri", meta.URI,
	)

	return &PublishOutput{
		Session:  updated.Session,
		ImageURI: image.URI,
		TokenURI: meta.URI,
		Metadata: metadata,
	}, nil
}

// ConfirmMint marks pending uploads as consumed so teardown keeps them
func (o *orchestrator) ConfirmMint(ctx context.Context, input *ConfirmMintInput) (*ConfirmMintOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	var (
		minted    []string
		confirmed int
	)
	session, err := o.update(ctx, input.SessionID, func(s *selectionsession.Session) error {
		if s.State == selectionsession.StateComposing && !o.composeAbandoned(s) {
			return errors.Aborted("a compose is in progress for this session")
		}
		if len(s.Pending) == 0 {
			return errors.Precondition("nothing is pending a mint")
		}
		if input.TokenURI != "" && !hasPending(s.Pending, input.TokenURI) {
			return errors.Preconditionf("token URI %s is not pending", input.TokenURI)
		}
		minted = pendingHashes(s.Pending)
		confirmed = len(s.Pending)
		s.Pending = nil
		return nil
	})
	if err != nil {
		return nil, err
	}

	o.markMinted(ctx, session.ID, minted)

	slog.Info("Mint confirmed", "session_id", session.ID, "artifacts", confirmed)

	return &ConfirmMintOutput{Session: session, Confirmed: confirmed}, nil
}

// EndSession discards the session. Uploads that no mint consumed and no
// other session still holds are deleted in the background; the caller does
// not wait and failures are only logged.
func (o *orchestrator) EndSession(ctx context.Context, input *EndSessionInput) (*EndSessionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.SessionID == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}

	out, err := o.sessionRepo.Delete(ctx, selectionsession.DeleteInput{ID: input.SessionID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to delete session")
	}
	if out.Session == nil {
		return &EndSessionOutput{}, nil
	}

	o.scheduleCleanup(input.SessionID, out.Session.Pending)

	slog.Info("Session ended",
		"session_id", input.SessionID,
		"pending_cleanup", len(out.Session.Pending),
	)

	return &EndSessionOutput{CleanupScheduled: len(out.Session.Pending)}, nil
}

// Drain waits for background cleanups or for ctx to end
func (o *orchestrator) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		o.cleanups.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return errors.Canceled("gave up waiting for artifact cleanup")
	}
}

// upload retains data's hash for the session and stores it. An artifact the
// session did not already hold is appended to fresh before the store is
// called, so the caller can release it whatever happens next.
func (o *orchestrator) upload(
	ctx context.Context, session *selectionsession.Session,
	kind selectionsession.ArtifactKind, data []byte, contentType string,
	fresh *[]selectionsession.PendingArtifact,
) (*selectionsession.PendingArtifact, error) {
	artifact := selectionsession.PendingArtifact{
		Kind:        kind,
		Hash:        storage.ContentHash(data),
		ContentType: contentType,
		UploadedAt:  o.clock.Now(),
	}
	if _, err := o.ledger.Retain(ctx, artifactledger.RetainInput{
		SessionID: session.ID,
		Hashes:    []string{artifact.Hash},
	}); err != nil {
		return nil, err
	}

	held := hasPendingHash(session.Pending, artifact.Hash)
	if !held {
		*fresh = append(*fresh, artifact)
	}

	put, err := o.storage.Put(ctx, &storage.PutInput{Data: data, ContentType: contentType})
	if err != nil {
		return nil, err
	}
	artifact.URI = put.URI
	if !held {
		(*fresh)[len(*fresh)-1].URI = put.URI
	}
	return &artifact, nil
}

// markMinted keeps minted content for good, then drops the session's holds.
// A failure leaves the holds in place, which also keeps the content.
func (o *orchestrator) markMinted(ctx context.Context, sessionID string, hashes []string) {
	if len(hashes) == 0 {
		return
	}
	if _, err := o.ledger.MarkMinted(ctx, artifactledger.MarkMintedInput{Hashes: hashes}); err != nil {
		slog.Warn("Failed to mark artifacts minted", "session_id", sessionID, "error", err)
		return
	}
	if _, err := o.ledger.Release(ctx, artifactledger.ReleaseInput{SessionID: sessionID, Hashes: hashes}); err != nil {
		slog.Warn("Failed to release minted artifacts", "session_id", sessionID, "error", err)
	}
}

// scheduleCleanup releases the session's holds in the background and deletes
// whatever nobody else holds and no mint consumed.
func (o *orchestrator) scheduleCleanup(sessionID string, artifacts []selectionsession.PendingArtifact) {
	hashes := pendingHashes(artifacts)
	if len(hashes) == 0 {
		return
	}
	uris := make(map[string]string, len(artifacts))
	for _, a := range artifacts {
		if a.Hash != "" && a.URI != "" {
			uris[a.Hash] = a.URI
		}
	}

	o.cleanups.Add(1)
	go func() {
		defer o.cleanups.Done()

		ctx, cancel := context.WithTimeout(context.Background(), o.cleanupTimeout)
		defer cancel()

		o.cleanup(ctx, sessionID, hashes, uris)
	}()
}

func (o *orchestrator) cleanup(ctx context.Context, sessionID string, hashes []string, uris map[string]string) {
	out, err := o.ledger.Release(ctx, artifactledger.ReleaseInput{SessionID: sessionID, Hashes: hashes})
	if err != nil {
		slog.Warn("Failed to release artifacts", "session_id", sessionID, "error", err)
		return
	}
	if len(out.Deletable) == 0 {
		return
	}

	for _, hash := range out.Deletable {
		uri, ok := uris[hash]
		if !ok {
			continue
		}
		if err := o.storage.Delete(ctx, uri); err != nil {
			slog.Warn("Failed to delete unminted artifact",
				"session_id", sessionID,
				"uri", uri,
				"error", err,
			)
		}
	}

	if _, err := o.ledger.Forget(ctx, artifactledger.ForgetInput{Hashes: out.Deletable}); err != nil {
		slog.Warn("Failed to clear artifact reservations", "session_id", sessionID, "error", err)
	}
}

func (o *orchestrator) getSession(ctx context.Context, id string) (*selectionsession.Session, error) {
	if id == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}
	out, err := o.sessionRepo.Get(ctx, selectionsession.GetInput{ID: id})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get session")
	}
	return out.Session, nil
}

// update reads the session, applies fn and writes it back.
func (o *orchestrator) update(ctx context.Context, id string, fn func(*selectionsession.Session) error) (*selectionsession.Session, error) {
	session, err := o.getSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(session); err != nil {
		return nil, err
	}

	out, err := o.sessionRepo.Update(ctx, selectionsession.UpdateInput{Session: session})
	if err != nil {
		return nil, errors.Wrap(err, "failed to update session")
	}
	return out.Session, nil
}

// edit is update for selection changes: refused while a compose is running,
// and it moves the session to empty or editing afterwards.
func (o *orchestrator) edit(ctx context.Context, id string, fn func(*selectionsession.Session) error) (*selectionsession.Session, error) {
	return o.update(ctx, id, func(s *selectionsession.Session) error {
		if s.State == selectionsession.StateComposing && !o.composeAbandoned(s) {
			return errors.Aborted("a compose is in progress for this session")
		}
		if err := fn(s); err != nil {
			return err
		}

		if s.Selection.IsEmpty() {
			s.State = selectionsession.StateEmpty
		} else {
			s.State = selectionsession.StateEditing
		}
		s.Attributes = nil
		s.LastError = ""
		s.ComposeStartedAt = time.Time{}
		return nil
	})
}

func (o *orchestrator) composeAbandoned(s *selectionsession.Session) bool {
	return o.clock.Now().Sub(s.ComposeStartedAt) > o.composeTimeout
}

// compose runs Editing|Composed|Failed -> Composing -> Composed|Failed and
// returns the stored session alongside the render.
func (o *orchestrator) compose(ctx context.Context, id string, format compositor.Format) (*selectionsession.Session, *compositor.ComposeOutput, error) {
	if id == "" {
		return nil, nil, errors.InvalidArgument("session ID is required")
	}
	if !o.claim(id) {
		return nil, nil, errors.Aborted("a compose is already in progress for this session")
	}
	defer o.release(id)

	session, err := o.update(ctx, id, func(s *selectionsession.Session) error {
		switch s.State {
		case selectionsession.StateEmpty:
			return errors.Precondition("nothing is selected")
		case selectionsession.StateComposing:
			if !o.composeAbandoned(s) {
				return errors.Aborted("a compose is already in progress for this session")
			}
			slog.Warn("Recovering abandoned compose", "session_id", s.ID, "started_at", s.ComposeStartedAt)
		}
		s.State = selectionsession.StateComposing
		s.ComposeStartedAt = o.clock.Now()
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	rendered, renderErr := o.render(ctx, session.Selection, format)

	// The outcome is recorded even if the caller went away mid-render
	finishCtx := context.WithoutCancel(ctx)

	startedAt := session.ComposeStartedAt
	applyOutcome(session, rendered, renderErr)

	updated, err := o.recordOutcome(finishCtx, session, startedAt, rendered, renderErr)
	if err != nil {
		slog.Error("Failed to record compose outcome", "session_id", id, "error", err)
		if renderErr != nil {
			return nil, nil, renderErr
		}
		return nil, nil, errors.Wrap(err, "failed to record compose outcome")
	}

	if renderErr != nil {
		slog.Warn("Compose failed",
			"session_id", id,
			"code", errors.GetCode(renderErr),
			"error", renderErr,
		)
		return nil, nil, renderErr
	}

	slog.Info("Compose finished",
		"session_id", id,
		"bytes", len(rendered.Image),
	)
	return updated, rendered, nil
}

func applyOutcome(s *selectionsession.Session, rendered *compositor.ComposeOutput, renderErr error) {
	s.ComposeStartedAt = time.Time{}
	if renderErr != nil {
		s.State = selectionsession.StateFailed
		s.LastError = renderErr.Error()
		s.Attributes = nil
		return
	}
	s.State = selectionsession.StateComposed
	s.LastError = ""
	s.Attributes = rendered.Attributes
}

// recordOutcome writes the finished compose. When another writer bumped the
// revision meanwhile, the outcome is applied once more to the stored copy,
// provided that copy still belongs to this compose.
func (o *orchestrator) recordOutcome(
	ctx context.Context, session *selectionsession.Session, startedAt time.Time,
	rendered *compositor.ComposeOutput, renderErr error,
) (*selectionsession.Session, error) {
	out, err := o.sessionRepo.Update(ctx, selectionsession.UpdateInput{Session: session})
	if err == nil {
		return out.Session, nil
	}
	if !errors.IsAborted(err) {
		return nil, err
	}

	current, getErr := o.getSession(ctx, session.ID)
	if getErr != nil {
		return nil, err
	}
	if current.State != selectionsession.StateComposing || !current.ComposeStartedAt.Equal(startedAt) {
		return nil, err
	}

	slog.Info("Reapplying compose outcome after a concurrent write",
		"session_id", session.ID,
		"revision", current.Revision,
	)
	applyOutcome(current, rendered, renderErr)
	out, err = o.sessionRepo.Update(ctx, selectionsession.UpdateInput{Session: current})
	if err != nil {
		return nil, err
	}
	return out.Session, nil
}

func (o *orchestrator) render(ctx context.Context, sel traits.Selection, format compositor.Format) (*compositor.ComposeOutput, error) {
	if err := o.composeSlots.Acquire(ctx, 1); err != nil {
		return nil, errors.Canceled("compose canceled while waiting to render")
	}
	defer o.composeSlots.Release(1)

	return o.composer.Compose(ctx, &compositor.ComposeInput{
		Selection:  sel,
		LayerOrder: o.layers,
		CanvasSize: o.canvasSize,
		Format:     format,
	})
}

func (o *orchestrator) claim(id string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, busy := o.composing[id]; busy {
		return false
	}
	o.composing[id] = struct{}{}
	return true
}

func (o *orchestrator) release(id string) {
	o.mu.Lock()
	delete(o.composing, id)
	o.mu.Unlock()
}

func hasPending(pending []selectionsession.PendingArtifact, uri string) bool {
	for _, p := range pending {
		if p.URI == uri {
			return true
		}
	}
	return false
}

func hasPendingHash(pending []selectionsession.PendingArtifact, hash string) bool {
	for _, p := range pending {
		if p.Hash == hash {
			return true
		}
	}
	return false
}

// pendingHashes returns the distinct non-empty hashes of artifacts
func pendingHashes(artifacts []selectionsession.PendingArtifact) []string {
	out := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		if a.Hash == "" || slices.Contains(out, a.Hash) {
			continue
		}
		out = append(out, a.Hash)
	}
	return out
}

// mergePending appends uploads not already pending. Uploads are content
// addressed, so re-publishing the same selection yields the same URIs.
func mergePending(pending, uploaded []selectionsession.PendingArtifact) []selectionsession.PendingArtifact {
	out := append([]selectionsession.PendingArtifact(nil), pending...)
	for _, u := range uploaded {
		if !hasPending(out, u.URI) {
			out = append(out, u)
		}
	}
	return out
}
