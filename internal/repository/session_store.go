package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/set-night/codegen/internal/session"
)

// SessionStore keeps one user id per chat in Postgres. It implements
// session.Store.
type SessionStore struct {
	pool *pgxpool.Pool
}

func NewSessionStore(pool *pgxpool.Pool) *SessionStore {
	return &SessionStore{pool: pool}
}

func (s *SessionStore) Load(ctx context.Context, key string) (string, error) {
	var userID string
	err := s.pool.QueryRow(ctx,
		`SELECT user_id FROM chat_sessions WHERE key = $1`, key,
	).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", session.ErrNoSession
	}
	if err != nil {
		return "", fmt.Errorf("load session %s: %w", key, err)
	}
	return userID, nil
}

func (s *SessionStore) Save(ctx context.Context, key, userID string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO chat_sessions (key, user_id)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE
		SET user_id = EXCLUDED.user_id, updated_at = NOW()`,
		key, userID,
	)
	if err != nil {
		return fmt.Errorf("save session %s: %w", key, err)
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, key string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM chat_sessions WHERE key = $1`, key); err != nil {
		return fmt.Errorf("delete session %s: %w", key, err)
	}
	return nil
}

// Count returns the number of chats with a signed-in user.
func (s *SessionStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM chat_sessions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return n, nil
}
