// Package artifactledger tracks who still needs an uploaded artifact.
//
// Uploads are content addressed, so two sessions that publish the same
// selection share one stored object. A session retains a hash before it
// uploads and releases it at teardown; content is only deleted once nobody
// holds it and no mint has consumed it.
package artifactledger

import (
	"context"
	"time"

	"github.com/KirkDiggler/cryptea/internal/errors"
)

// DefaultDeleteLease bounds how long a hash stays reserved for deletion if
// the cleaner never reports back
const DefaultDeleteLease = 5 * time.Minute

// RetainInput registers a session as a holder of hashes
type RetainInput struct {
	SessionID string
	Hashes    []string
}

// RetainOutput is empty; Retain either holds every hash or none
type RetainOutput struct{}

// ReleaseInput drops a session's hold on hashes
type ReleaseInput struct {
	SessionID string
	Hashes    []string
}

// ReleaseOutput lists the released hashes that are now reserved for the
// caller to delete. The caller reports back with Forget.
type ReleaseOutput struct {
	Deletable []string
}

// MarkMintedInput records hashes consumed by a mint
type MarkMintedInput struct {
	Hashes []string
}

// MarkMintedOutput is empty
type MarkMintedOutput struct{}

// ForgetInput ends the deletion reservation of hashes
type ForgetInput struct {
	Hashes []string
}

// ForgetOutput is empty
type ForgetOutput struct{}

// Repository defines the interface for artifact reference tracking
type Repository interface {
	// Retain fails with Aborted when any hash is reserved for deletion
	Retain(ctx context.Context, input RetainInput) (*RetainOutput, error)

	// Release reserves every hash left without holders and never minted
	Release(ctx context.Context, input ReleaseInput) (*ReleaseOutput, error)

	// MarkMinted keeps hashes forever
	MarkMinted(ctx context.Context, input MarkMintedInput) (*MarkMintedOutput, error)

	// Forget clears deletion reservations once the content is gone
	Forget(ctx context.Context, input ForgetInput) (*ForgetOutput, error)
}

const (
	errSessionEmpty = "session ID cannot be empty"
	errHashEmpty    = "hash cannot be empty"
	errBeingDeleted = "artifact is being cleaned up, retry shortly"
)

func validateHolder(sessionID string, hashes []string) error {
	if sessionID == "" {
		return errors.InvalidArgument(errSessionEmpty)
	}
	return validateHashes(hashes)
}

func validateHashes(hashes []string) error {
	for _, h := range hashes {
		if h == "" {
			return errors.InvalidArgument(errHashEmpty)
		}
	}
	return nil
}
