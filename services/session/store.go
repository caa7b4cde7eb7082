package session

import (
	"context"
	"errors"

	"jobbot/models"
)

var ErrNotFound = errors.New("session not found")

// Store hands out copies of sessions; changes become visible only through
// Save.
type Store interface {
	// GetOrCreate returns the session, creating a fresh GREETING one when
	// absent. created reports which happened.
	GetOrCreate(ctx context.Context, id string) (sess *models.Session, created bool, err error)
	// Get returns ErrNotFound when the session does not exist.
	Get(ctx context.Context, id string) (*models.Session, error)
	Save(ctx context.Context, sess *models.Session) error
	// Reset discards the session and reports whether it existed.
	Reset(ctx context.Context, id string) (bool, error)
}
