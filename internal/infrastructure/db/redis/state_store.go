package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/strivezine/blog-system/internal/core/domain"
	"github.com/strivezine/blog-system/internal/core/ports"
)

// StateStore keeps OAuth state values between the redirect to the provider
// and the callback. Key format: oauth:state:<state>
type StateStore struct {
	client redis.UniversalClient
}

// NewStateStore creates a StateStore wrapping the given Redis client.
func NewStateStore(client redis.UniversalClient) *StateStore {
	return &StateStore{client: client}
}

// Save stores data under state; it fails if the state already exists.
func (s *StateStore) Save(ctx context.Context, state string, data ports.OAuthState, ttl time.Duration) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode oauth state: %w", err)
	}
	ok, err := s.client.SetNX(ctx, s.key(state), payload, ttl).Result()
	if err != nil {
		return fmt.Errorf("save oauth state: %w", err)
	}
	if !ok {
		return fmt.Errorf("save oauth state: %w", domain.ErrOAuthState)
	}
	return nil
}

// Consume reads and deletes the state in one round trip so a state value
// can complete at most one callback.
func (s *StateStore) Consume(ctx context.Context, state string) (*ports.OAuthState, error) {
	if state == "" {
		return nil, domain.ErrOAuthState
	}
	payload, err := s.client.GetDel(ctx, s.key(state)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrOAuthState
		}
		return nil, fmt.Errorf("consume oauth state: %w", err)
	}

	var data ports.OAuthState
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("decode oauth state: %w", err)
	}
	return &data, nil
}

func (s *StateStore) key(state string) string {
	return "oauth:state:" + state
}

var _ ports.OAuthStateStore = (*StateStore)(nil)
