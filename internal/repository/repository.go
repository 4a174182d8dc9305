package repository

import (
	"context"
	"errors"

	"github.com/markjakearzadon/announcements-gobackend/internal/models"
)

var (
	// ErrNotFound is returned when no announcement matches the given id.
	ErrNotFound = errors.New("announcement not found")
	// ErrStoreUnavailable wraps any failure to reach or use the backing store.
	ErrStoreUnavailable = errors.New("announcement store unavailable")
)

// AnnouncementRepository owns the durable announcement records. It makes no
// ordering guarantees.
type AnnouncementRepository interface {
	ListAll(ctx context.Context) ([]*models.Announcement, error)
	GetByID(ctx context.Context, id string) (*models.Announcement, error)
	Insert(ctx context.Context, announcement *models.Announcement) error
	Update(ctx context.Context, announcement *models.Announcement) error
	Delete(ctx context.Context, id string) (bool, error)
}
