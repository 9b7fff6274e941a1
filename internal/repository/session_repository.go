package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/sis-enrollment-api/internal/wizard"
)

// DeleteConfirmation stages a pending enrollment deletion.
type DeleteConfirmation struct {
	Token    string    `json:"token"`
	IssuedAt time.Time `json:"issued_at"`
}

// SessionRepository stores wizard sessions and related guards in Redis.
type SessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionRepository constructs the repository.
func NewSessionRepository(client *redis.Client, ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionRepository{client: client, ttl: ttl}
}

func sessionKey(userID string) string {
	return "wizard:session:" + userID
}

func submitLockKey(userID string) string {
	return "wizard:submit-lock:" + userID
}

func deleteConfirmKey(userID string) string {
	return "enrollment:delete-confirm:" + userID
}

// Get loads the user's wizard session. Found is false when no session exists.
func (r *SessionRepository) Get(ctx context.Context, userID string) (wizard.State, bool, error) {
	raw, err := r.client.Get(ctx, sessionKey(userID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return wizard.State{}, false, nil
		}
		return wizard.State{}, false, fmt.Errorf("get session %s: %w", userID, err)
	}
	var state wizard.State
	if err := json.Unmarshal(raw, &state); err != nil {
		return wizard.State{}, false, fmt.Errorf("decode session %s: %w", userID, err)
	}
	return state, true, nil
}

// Save stores the user's wizard session, refreshing its TTL.
func (r *SessionRepository) Save(ctx context.Context, userID string, state wizard.State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", userID, err)
	}
	if err := r.client.Set(ctx, sessionKey(userID), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("save session %s: %w", userID, err)
	}
	return nil
}

// Delete removes the user's wizard session.
func (r *SessionRepository) Delete(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("delete session %s: %w", userID, err)
	}
	return nil
}

// AcquireSubmitLock takes the single-flight submission lock. It returns
// false when another submission is already in flight.
func (r *SessionRepository) AcquireSubmitLock(ctx context.Context, userID string, ttl time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, submitLockKey(userID), time.Now().UTC().Format(time.RFC3339), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire submit lock %s: %w", userID, err)
	}
	return ok, nil
}

// ReleaseSubmitLock frees the submission lock.
func (r *SessionRepository) ReleaseSubmitLock(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, submitLockKey(userID)).Err(); err != nil {
		return fmt.Errorf("release submit lock %s: %w", userID, err)
	}
	return nil
}

// StageDeleteConfirmation stores a pending deletion confirmation.
func (r *SessionRepository) StageDeleteConfirmation(ctx context.Context, userID string, confirmation DeleteConfirmation, ttl time.Duration) error {
	raw, err := json.Marshal(confirmation)
	if err != nil {
		return fmt.Errorf("encode delete confirmation %s: %w", userID, err)
	}
	if err := r.client.Set(ctx, deleteConfirmKey(userID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("stage delete confirmation %s: %w", userID, err)
	}
	return nil
}

// GetDeleteConfirmation loads a pending deletion confirmation. Found is false
// when none was staged or it expired.
func (r *SessionRepository) GetDeleteConfirmation(ctx context.Context, userID string) (DeleteConfirmation, bool, error) {
	raw, err := r.client.Get(ctx, deleteConfirmKey(userID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return DeleteConfirmation{}, false, nil
		}
		return DeleteConfirmation{}, false, fmt.Errorf("get delete confirmation %s: %w", userID, err)
	}
	var confirmation DeleteConfirmation
	if err := json.Unmarshal(raw, &confirmation); err != nil {
		return DeleteConfirmation{}, false, fmt.Errorf("decode delete confirmation %s: %w", userID, err)
	}
	return confirmation, true, nil
}

// ClearDeleteConfirmation removes a staged deletion confirmation.
func (r *SessionRepository) ClearDeleteConfirmation(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, deleteConfirmKey(userID)).Err(); err != nil {
		return fmt.Errorf("clear delete confirmation %s: %w", userID, err)
	}
	return nil
}
