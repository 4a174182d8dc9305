// Package memory keeps announcements in process memory. It backs the
// "memory" store driver and the service tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/markjakearzadon/announcements-gobackend/internal/models"
	"github.com/markjakearzadon/announcements-gobackend/internal/repository"
)

type AnnouncementRepository struct {
	mu    sync.RWMutex
	items map[string]models.Announcement
}

func NewAnnouncementRepository() *AnnouncementRepository {
	return &AnnouncementRepository{items: make(map[string]models.Announcement)}
}

func (r *AnnouncementRepository) ListAll(ctx context.Context) ([]*models.Announcement, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrStoreUnavailable, err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Announcement, 0, len(r.items))
	for _, a := range r.items {
		a := a
		out = append(out, &a)
	}
	return out, nil
}

func (r *AnnouncementRepository) GetByID(ctx context.Context, id string) (*models.Announcement, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrStoreUnavailable, err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (r *AnnouncementRepository) Insert(ctx context.Context, announcement *models.Announcement) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", repository.ErrStoreUnavailable, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[announcement.ID]; exists {
		return fmt.Errorf("announcement %s already exists", announcement.ID)
	}
	r.items[announcement.ID] = *announcement
	return nil
}

// Update replaces title and description only.
func (r *AnnouncementRepository) Update(ctx context.Context, announcement *models.Announcement) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", repository.ErrStoreUnavailable, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[announcement.ID]
	if !ok {
		return repository.ErrNotFound
	}
	current.Title = announcement.Title
	current.Description = announcement.Description
	r.items[announcement.ID] = current
	return nil
}

func (r *AnnouncementRepository) Delete(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("%w: %v", repository.ErrStoreUnavailable, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return false, nil
	}
	delete(r.items, id)
	return true, nil
}
