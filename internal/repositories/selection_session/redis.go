package selectionsession

import (
	"context"
	"encoding/json"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/cryptea/internal/errors"
	"github.com/KirkDiggler/cryptea/internal/pkg/clock"
	redisclient "github.com/KirkDiggler/cryptea/internal/redis"
)

const (
	// Key pattern: selection_session:{id}
	sessionKeyPrefix = "selection_session:"
)

// Config holds the configuration for the Redis repository
type Config struct {
	Client redisclient.Client
	Clock  clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	if c.Clock == nil {
		return errors.InvalidArgument("clock is required")
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// NewRedisRepository creates a new Redis repository for selection sessions
func NewRedisRepository(cfg *Config) (Repository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  cfg.Clock,
	}, nil
}

// Ensure redisRepository implements Repository
var _ Repository = (*redisRepository)(nil)

// Create stores a new session with the specified TTL
func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	now := r.clock.Now()
	session := newSession(input, now)

	sessionJSON, err := json.Marshal(session)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal session")
	}

	created, err := r.client.SetNX(ctx, r.buildKey(input.ID), sessionJSON, session.ExpiresAt.Sub(now)).Result()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to store session in Redis")
	}
	if !created {
		return nil, errors.AlreadyExists("selection session already exists")
	}

	return &CreateOutput{
		Session: session,
	}, nil
}

// Get retrieves a selection session by ID
func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errIDEmpty)
	}

	key := r.buildKey(input.ID)
	sessionJSON, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFound("selection session not found")
		}
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to get session from Redis")
	}

	session, err := r.decode(sessionJSON)
	if err != nil {
		return nil, err
	}

	if r.clock.Now().After(session.ExpiresAt) {
		_ = r.client.Del(ctx, key)
		return nil, errors.NotFound("selection session has expired")
	}

	return &GetOutput{
		Session: session,
	}, nil
}

// Update writes the session back under WATCH so a concurrent writer makes
// this call fail with Aborted instead of being overwritten.
func (r *redisRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	if err := validateUpdate(input); err != nil {
		return nil, err
	}

	now := r.clock.Now()
	if now.After(input.Session.ExpiresAt) {
		return nil, errors.InvalidArgument(errSessionExpired)
	}

	next := input.Session.Clone()
	next.touch(now)

	sessionJSON, err := json.Marshal(next)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal session")
	}

	key := r.buildKey(next.ID)
	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		storedJSON, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if err == redis.Nil {
				return errors.NotFound("selection session not found")
			}
			return errors.WrapWithCode(err, errors.CodeUnavailable, "failed to read session from Redis")
		}

		stored, err := r.decode(storedJSON)
		if err != nil {
			return err
		}
		if stored.Revision != input.Session.Revision {
			return errors.Aborted("selection session was modified concurrently")
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, sessionJSON, next.ExpiresAt.Sub(now))
			return nil
		})
		return err
	}, key)

	if err != nil {
		var appErr *errors.Error
		switch {
		case err == redisclient.TxFailedErr:
			return nil, errors.Aborted("selection session was modified concurrently")
		case errors.As(err, &appErr):
			return nil, err
		default:
			return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to update session in Redis")
		}
	}

	return &UpdateOutput{
		Session: next,
	}, nil
}

// Delete removes a selection session
func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errIDEmpty)
	}

	sessionJSON, err := r.client.GetDel(ctx, r.buildKey(input.ID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return &DeleteOutput{}, nil
		}
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to delete session from Redis")
	}

	session, err := r.decode(sessionJSON)
	if err != nil {
		return nil, err
	}

	return &DeleteOutput{
		Session: session,
	}, nil
}

func (r *redisRepository) decode(data []byte) (*Session, error) {
	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeDataLoss, "failed to unmarshal session")
	}
	return &session, nil
}

// buildKey creates the Redis key for a selection session
func (r *redisRepository) buildKey(id string) string {
	return sessionKeyPrefix + id
}
