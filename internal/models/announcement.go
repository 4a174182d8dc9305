package models

import (
	"time"
)

const (
	TitleMaxLength       = 200
	DescriptionMaxLength = 2000
)

// Announcement is the stored record. Storage adapters map it to their own
// document or row types.
type Announcement struct {
	ID          string
	Title       string
	Description string
	CreatedAt   time.Time
}

// AnnouncementSummary is the public form used in lists and similar results.
type AnnouncementSummary struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// AnnouncementDetails is returned for a single announcement together with
// the announcements that share vocabulary with it.
type AnnouncementDetails struct {
	ID                   string                `json:"id"`
	Title                string                `json:"title"`
	Description          string                `json:"description"`
	CreatedAt            time.Time             `json:"created_at"`
	SimilarAnnouncements []AnnouncementSummary `json:"similar_announcements"`
}

func (a *Announcement) Summary() AnnouncementSummary {
	return AnnouncementSummary{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		CreatedAt:   a.CreatedAt,
	}
}
