package artifactledger

import (
	"context"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/cryptea/internal/errors"
	redisclient "github.com/KirkDiggler/cryptea/internal/redis"
)

const (
	// Key pattern: artifact_ledger:{hash}:<field>. The braces keep one
	// hash's keys in the same cluster slot so the scripts stay atomic.
	keyPrefix = "artifact_ledger:"
)

// KEYS: holders, deleting. ARGV: session.
var retainScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[2]) == 1 then
	return 0
end
redis.call('SADD', KEYS[1], ARGV[1])
return 1
`)

// KEYS: holders, minted, deleting. ARGV: session, lease in milliseconds.
var releaseScript = redis.NewScript(`
redis.call('SREM', KEYS[1], ARGV[1])
if redis.call('SCARD', KEYS[1]) > 0 then
	return 0
end
if redis.call('EXISTS', KEYS[2]) == 1 then
	return 0
end
if redis.call('SET', KEYS[3], ARGV[1], 'PX', ARGV[2], 'NX') then
	return 1
end
return 0
`)

// Config holds the configuration for the Redis ledger
type Config struct {
	Client      redisclient.Client
	DeleteLease time.Duration
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Client == nil {
		vb.RequiredField("Client")
	}
	if c.DeleteLease < 0 {
		vb.Field("DeleteLease", "must not be negative")
	}
	return vb.Build()
}

type redisRepository struct {
	client redisclient.Client
	lease  time.Duration
}

// NewRedisRepository creates a ledger shared by every server process
func NewRedisRepository(cfg *Config) (Repository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	lease := cfg.DeleteLease
	if lease == 0 {
		lease = DefaultDeleteLease
	}
	return &redisRepository{client: cfg.Client, lease: lease}, nil
}

var _ Repository = (*redisRepository)(nil)

// Retain holds every hash or, when one is reserved for deletion, none
func (r *redisRepository) Retain(ctx context.Context, input RetainInput) (*RetainOutput, error) {
	if err := validateHolder(input.SessionID, input.Hashes); err != nil {
		return nil, err
	}

	held := make([]string, 0, len(input.Hashes))
	for _, h := range input.Hashes {
		ok, err := retainScript.Run(ctx, r.client,
			[]string{holdersKey(h), deletingKey(h)},
			input.SessionID,
		).Int()
		if err == nil && ok == 1 {
			held = append(held, h)
			continue
		}

		r.undoRetain(ctx, input.SessionID, held)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to retain artifact in Redis")
		}
		return nil, errors.Aborted(errBeingDeleted).WithMeta("hash", h)
	}
	return &RetainOutput{}, nil
}

func (r *redisRepository) undoRetain(ctx context.Context, sessionID string, hashes []string) {
	for _, h := range hashes {
		_ = r.client.SRem(ctx, holdersKey(h), sessionID).Err()
	}
}

// Release drops the session's holds and reserves orphaned hashes
func (r *redisRepository) Release(ctx context.Context, input ReleaseInput) (*ReleaseOutput, error) {
	if err := validateHolder(input.SessionID, input.Hashes); err != nil {
		return nil, err
	}

	out := &ReleaseOutput{}
	for _, h := range input.Hashes {
		reserved, err := releaseScript.Run(ctx, r.client,
			[]string{holdersKey(h), mintedKey(h), deletingKey(h)},
			input.SessionID, r.lease.Milliseconds(),
		).Int()
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to release artifact in Redis")
		}
		if reserved == 1 {
			out.Deletable = append(out.Deletable, h)
		}
	}
	return out, nil
}

// MarkMinted flags hashes as consumed by a mint. The flag never expires.
func (r *redisRepository) MarkMinted(ctx context.Context, input MarkMintedInput) (*MarkMintedOutput, error) {
	if err := validateHashes(input.Hashes); err != nil {
		return nil, err
	}

	_, err := r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, h := range input.Hashes {
			pipe.Set(ctx, mintedKey(h), "1", 0)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to mark artifacts minted in Redis")
	}
	return &MarkMintedOutput{}, nil
}

// Forget clears deletion reservations
func (r *redisRepository) Forget(ctx context.Context, input ForgetInput) (*ForgetOutput, error) {
	if err := validateHashes(input.Hashes); err != nil {
		return nil, err
	}

	_, err := r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, h := range input.Hashes {
			pipe.Del(ctx, deletingKey(h))
		}
		return nil
	})
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to clear artifact reservations in Redis")
	}
	return &ForgetOutput{}, nil
}

func holdersKey(hash string) string  { return keyPrefix + "{" + hash + "}:holders" }
func mintedKey(hash string) string   { return keyPrefix + "{" + hash + "}:minted" }
func deletingKey(hash string) string { return keyPrefix + "{" + hash + "}:deleting" }
