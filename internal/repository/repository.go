package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Terjeeld/lasviewer/internal/models"
)

// ErrNotFound is returned when a row does not exist or belongs to
// another owner.
var ErrNotFound = errors.New("not found")

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.User, error)
}

type Files interface {
	Save(ctx context.Context, f models.LogFile) error
	Get(ctx context.Context, ownerID int, id string) (models.LogFile, error)
	List(ctx context.Context, ownerID int) ([]models.LogFile, error)
	Delete(ctx context.Context, ownerID int, id string) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) ([]models.LogFile, error)
}

type Events interface {
	Append(ctx context.Context, e models.ActivityEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.ActivityEvent, error)
}

type Repository struct {
	Files  Files
	Events Events
	Auth   Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Files:  NewFileSQLite(db),
		Events: NewEventSQLite(db),
		Auth:   NewUserRepository(db),
	}
}
