package server

import (
	"context"
	"errors"
	"time"

	"github.com/playperu/apihunt/internal/hunt"
)

var ErrNotFound = errors.New("not found")

// Session is one player's hunt. It is owned by whoever holds its token.
type Session struct {
	ID        string
	Progress  hunt.Progress
	CreatedAt time.Time
}

// Store keeps hunt sessions keyed by the digest of their bearer token.
type Store interface {
	CreateSession(ctx context.Context, tokenHash string, s Session) error
	SessionByToken(ctx context.Context, tokenHash string) (Session, error)
	SessionByID(ctx context.Context, id string) (Session, error)
	SaveSession(ctx context.Context, s Session) error
	DeleteSession(ctx context.Context, id string) error
	CountSessions(ctx context.Context) (SessionCounts, error)
}

type SessionCounts struct {
	Active    int `json:"active"`
	Completed int `json:"completed"`
}
