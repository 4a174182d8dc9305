// Package sqlstore stores announcements in a relational table through gorm.
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/markjakearzadon/announcements-gobackend/internal/models"
	"github.com/markjakearzadon/announcements-gobackend/internal/repository"
	"gorm.io/gorm"
)

// announcementRow maps the announcements table.
type announcementRow struct {
	ID          string    `gorm:"type:char(36);primaryKey"`
	Title       string    `gorm:"size:200;not null"`
	Description string    `gorm:"size:2000;not null"`
	CreatedAt   time.Time `gorm:"not null;index:idx_announcements_created_at;autoCreateTime:false"`
}

func (announcementRow) TableName() string { return "announcements" }

func toRow(a *models.Announcement) *announcementRow {
	return &announcementRow{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		CreatedAt:   a.CreatedAt,
	}
}

func (r *announcementRow) toModel() *models.Announcement {
	return &models.Announcement{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		CreatedAt:   r.CreatedAt.UTC(),
	}
}

type AnnouncementRepository struct {
	db *gorm.DB
}

func NewAnnouncementRepository(db *gorm.DB) *AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

// Migrate creates or updates the announcements table and its index.
func (r *AnnouncementRepository) Migrate() error {
	if err := r.db.AutoMigrate(&announcementRow{}); err != nil {
		return fmt.Errorf("%w: migrate announcements: %v", repository.ErrStoreUnavailable, err)
	}
	return nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", repository.ErrStoreUnavailable, op, err)
}

func (r *AnnouncementRepository) ListAll(ctx context.Context) ([]*models.Announcement, error) {
	var rows []announcementRow
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&rows).Error; err != nil {
		return nil, unavailable("list announcements", err)
	}

	announcements := make([]*models.Announcement, 0, len(rows))
	for i := range rows {
		announcements = append(announcements, rows[i].toModel())
	}
	return announcements, nil
}

func (r *AnnouncementRepository) GetByID(ctx context.Context, id string) (*models.Announcement, error) {
	var row announcementRow
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, unavailable("get announcement", err)
	}
	return row.toModel(), nil
}

func (r *AnnouncementRepository) Insert(ctx context.Context, announcement *models.Announcement) error {
	if err := r.db.WithContext(ctx).Create(toRow(announcement)).Error; err != nil {
		return unavailable("insert announcement", err)
	}
	return nil
}

// Update writes title and description only. MySQL reports changed rows, not
// matched rows, unless the DSN sets clientFoundRows=true; the default DSN does.
func (r *AnnouncementRepository) Update(ctx context.Context, announcement *models.Announcement) error {
	res := r.db.WithContext(ctx).
		Model(&announcementRow{}).
		Where("id = ?", announcement.ID).
		Updates(map[string]interface{}{
			"title":       announcement.Title,
			"description": announcement.Description,
		})
	if res.Error != nil {
		return unavailable("update announcement", res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *AnnouncementRepository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&announcementRow{})
	if res.Error != nil {
		return false, unavailable("delete announcement", res.Error)
	}
	return res.RowsAffected > 0, nil
}
