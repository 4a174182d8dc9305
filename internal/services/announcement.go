package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/markjakearzadon/announcements-gobackend/internal/models"
	"github.com/markjakearzadon/announcements-gobackend/internal/repository"
	"github.com/markjakearzadon/announcements-gobackend/internal/similarity"
	"go.uber.org/zap"
)

// ValidationError lists the request fields that must be fixed by the caller.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// EventPublisher is notified after successful writes.
type EventPublisher interface {
	PublishAnnouncementCreated(ctx context.Context, announcement *models.Announcement) error
	PublishAnnouncementUpdated(ctx context.Context, announcement *models.Announcement) error
	PublishAnnouncementDeleted(ctx context.Context, id string) error
}

type AnnouncementService struct {
	repo      repository.AnnouncementRepository
	finder    *similarity.Finder
	publisher EventPublisher
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string
}

// NewAnnouncementService wires the service. publisher may be nil.
func NewAnnouncementService(
	repo repository.AnnouncementRepository,
	finder *similarity.Finder,
	publisher EventPublisher,
	logger *zap.Logger,
) *AnnouncementService {
	if finder == nil {
		finder = similarity.NewFinder(similarity.DefaultLimit, similarity.OrderRecency)
	}
	return &AnnouncementService{
		repo:      repo,
		finder:    finder,
		publisher: publisher,
		logger:    logger.Named("AnnouncementService"),
		now:       time.Now,
		newID:     func() string { return uuid.NewString() },
	}
}

func validateFields(title, description string) error {
	fields := map[string]string{}
	if strings.TrimSpace(title) == "" {
		fields["title"] = "title is required"
	}
	if strings.TrimSpace(description) == "" {
		fields["description"] = "description is required"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// ListAll returns every announcement, newest first.
func (s *AnnouncementService) ListAll(ctx context.Context) ([]models.AnnouncementSummary, error) {
	announcements, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.Error("Failed to list announcements", zap.Error(err))
		return nil, fmt.Errorf("AnnouncementService.ListAll: failed to list announcements: %w", err)
	}

	slices.SortStableFunc(announcements, func(a, b *models.Announcement) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	summaries := make([]models.AnnouncementSummary, 0, len(announcements))
	for _, a := range announcements {
		summaries = append(summaries, a.Summary())
	}
	return summaries, nil
}

// GetByID returns the announcement and its similar announcements. found is
// false when no announcement has the given id.
func (s *AnnouncementService) GetByID(ctx context.Context, id string) (*models.AnnouncementDetails, bool, error) {
	announcement, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, false, nil
		}
		s.logger.Error("Failed to get announcement", zap.Error(err), zap.String("announcement_id", id))
		return nil, false, fmt.Errorf("AnnouncementService.GetByID: failed to get announcement: %w", err)
	}

	similar, err := s.findSimilar(ctx, announcement)
	if err != nil {
		return nil, false, err
	}

	return &models.AnnouncementDetails{
		ID:                   announcement.ID,
		Title:                announcement.Title,
		Description:          announcement.Description,
		CreatedAt:            announcement.CreatedAt,
		SimilarAnnouncements: similar,
	}, true, nil
}

func (s *AnnouncementService) findSimilar(ctx context.Context, target *models.Announcement) ([]models.AnnouncementSummary, error) {
	if len(similarity.Tokenize(target.Title, target.Description)) == 0 {
		return []models.AnnouncementSummary{}, nil
	}

	candidates, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.Error("Failed to load similarity candidates", zap.Error(err), zap.String("announcement_id", target.ID))
		return nil, fmt.Errorf("AnnouncementService.GetByID: failed to load candidates: %w", err)
	}

	similar := s.finder.Find(target, candidates)
	s.logger.Debug("Similar announcements computed",
		zap.String("announcement_id", target.ID),
		zap.Int("candidates", len(candidates)),
		zap.Int("similar", len(similar)),
	)
	return similar, nil
}

// Add creates an announcement with a fresh id and a UTC creation time. The
// time is kept to millisecond precision, the finest both stores persist.
func (s *AnnouncementService) Add(ctx context.Context, title, description string) (*models.AnnouncementSummary, error) {
	if err := validateFields(title, description); err != nil {
		return nil, err
	}

	announcement := &models.Announcement{
		ID:          s.newID(),
		Title:       title,
		Description: description,
		CreatedAt:   s.now().UTC().Truncate(time.Millisecond),
	}

	if err := s.repo.Insert(ctx, announcement); err != nil {
		s.logger.Error("Failed to insert announcement", zap.Error(err), zap.String("announcement_id", announcement.ID))
		return nil, fmt.Errorf("AnnouncementService.Add: failed to insert announcement: %w", err)
	}
	s.logger.Info("Announcement created", zap.String("announcement_id", announcement.ID))

	if s.publisher != nil {
		if errPub := s.publisher.PublishAnnouncementCreated(ctx, announcement); errPub != nil {
			s.logger.Warn("Failed to publish announcement created event",
				zap.Error(errPub),
				zap.String("announcement_id", announcement.ID),
			)
		}
	}

	summary := announcement.Summary()
	return &summary, nil
}

// Update overwrites title and description of an existing announcement. It
// reports false when the announcement does not exist and never creates one.
func (s *AnnouncementService) Update(ctx context.Context, id, title, description string) (bool, error) {
	if err := validateFields(title, description); err != nil {
		return false, err
	}

	announcement, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		s.logger.Error("Failed to get announcement for update", zap.Error(err), zap.String("announcement_id", id))
		return false, fmt.Errorf("AnnouncementService.Update: failed to get announcement: %w", err)
	}

	announcement.Title = title
	announcement.Description = description

	if err := s.repo.Update(ctx, announcement); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// deleted between read and write
			return false, nil
		}
		s.logger.Error("Failed to update announcement", zap.Error(err), zap.String("announcement_id", id))
		return false, fmt.Errorf("AnnouncementService.Update: failed to update announcement: %w", err)
	}
	s.logger.Info("Announcement updated", zap.String("announcement_id", id))

	if s.publisher != nil {
		if errPub := s.publisher.PublishAnnouncementUpdated(ctx, announcement); errPub != nil {
			s.logger.Warn("Failed to publish announcement updated event",
				zap.Error(errPub),
				zap.String("announcement_id", id),
			)
		}
	}
	return true, nil
}

// Delete removes an announcement. It reports false when nothing was removed.
func (s *AnnouncementService) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("Failed to delete announcement", zap.Error(err), zap.String("announcement_id", id))
		return false, fmt.Errorf("AnnouncementService.Delete: failed to delete announcement: %w", err)
	}
	if !deleted {
		return false, nil
	}
	s.logger.Info("Announcement deleted", zap.String("announcement_id", id))

	if s.publisher != nil {
		if errPub := s.publisher.PublishAnnouncementDeleted(ctx, id); errPub != nil {
			s.logger.Warn("Failed to publish announcement deleted event",
				zap.Error(errPub),
				zap.String("announcement_id", id),
			)
		}
	}
	return true, nil
}

