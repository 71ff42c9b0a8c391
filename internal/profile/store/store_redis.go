package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"studiogate/internal/profile"
	"studiogate/internal/sentinel"
)

const (
	profileKeyPrefix = "profile:"

	// defaultProfileTTL keeps serving copies fresh without growing unbounded;
	// the durable copy lives in the document store.
	defaultProfileTTL = 30 * 24 * time.Hour
)

// profileJSON is the JSON-serializable representation of a Profile.
// We use explicit JSON tags to control serialization format.
type profileJSON struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	Role        string `json:"role"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	CreatedAt   int64  `json:"created_at"` // Unix nano
	UpdatedAt   int64  `json:"updated_at"` // Unix nano
}

func profileToJSON(p *profile.Profile) *profileJSON {
	return &profileJSON{
		ID:          p.ID.String(),
		Status:      string(p.Status),
		Role:        string(p.Role),
		DisplayName: p.DisplayName,
		Email:       p.Email,
		CreatedAt:   p.CreatedAt.UnixNano(),
		UpdatedAt:   p.UpdatedAt.UnixNano(),
	}
}

func profileFromJSON(j *profileJSON) (*profile.Profile, error) {
	id, err := uuid.Parse(j.ID)
	if err != nil {
		return nil, fmt.Errorf("parse profile id: %w", err)
	}
	return &profile.Profile{
		ID:          id,
		Status:      profile.Status(j.Status),
		Role:        profile.Role(j.Role),
		DisplayName: j.DisplayName,
		Email:       j.Email,
		CreatedAt:   time.Unix(0, j.CreatedAt),
		UpdatedAt:   time.Unix(0, j.UpdatedAt),
	}, nil
}

// RedisStore persists profiles in Redis.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis constructs a Redis-backed profile store.
func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, ttl: defaultProfileTTL}
}

func profileKey(id uuid.UUID) string {
	return profileKeyPrefix + id.String()
}

func (s *RedisStore) Create(ctx context.Context, p *profile.Profile) error {
	if p == nil {
		return fmt.Errorf("profile is required: %w", sentinel.ErrInvalidInput)
	}
	if err := p.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(profileToJSON(p))
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	ok, err := s.client.SetNX(ctx, profileKey(p.ID), data, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("set profile: %v: %w", err, sentinel.ErrUnavailable)
	}
	if !ok {
		return alreadyExists(p.ID)
	}
	return nil
}

func (s *RedisStore) FindByID(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
	data, err := s.client.Get(ctx, profileKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %v: %w", err, sentinel.ErrUnavailable)
	}
	var j profileJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("unmarshal profile: %w", err)
	}
	return profileFromJSON(&j)
}

func (s *RedisStore) Update(ctx context.Context, p *profile.Profile) error {
	if p == nil {
		return fmt.Errorf("profile is required: %w", sentinel.ErrInvalidInput)
	}
	if err := p.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(profileToJSON(p))
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	ok, err := s.client.SetXX(ctx, profileKey(p.ID), data, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("set profile: %v: %w", err, sentinel.ErrUnavailable)
	}
	if !ok {
		return notFound(p.ID)
	}
	return nil
}
