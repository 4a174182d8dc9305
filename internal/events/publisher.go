package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/markjakearzadon/announcements-gobackend/internal/config"
	"github.com/markjakearzadon/announcements-gobackend/internal/models"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const (
	AnnouncementCreatedSubject = "announcement.created"
	AnnouncementUpdatedSubject = "announcement.updated"
	AnnouncementDeletedSubject = "announcement.deleted"
)

// AnnouncementEvent is the payload of created and updated events.
type AnnouncementEvent struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type DeletedEventPayload struct {
	ID string `json:"id"`
}

// Conn is the part of *nats.Conn the publisher needs.
type Conn interface {
	Publish(subject string, data []byte) error
}

type Publisher struct {
	conn   Conn
	nc     *nats.Conn
	logger *zap.Logger
}

func NewPublisher(conn Conn, logger *zap.Logger) *Publisher {
	return &Publisher{conn: conn, logger: logger.Named("events")}
}

// Connect dials NATS and returns a publisher that owns the connection.
func Connect(cfg *config.NATSConfig, logger *zap.Logger) (*Publisher, error) {
	opts := []nats.Option{
		nats.Name("announcements"),
		nats.Timeout(cfg.ConnectTimeout),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			logger.Error("NATS error", zap.Error(err))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn("NATS disconnected", zap.Error(err))
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	logger.Info("Successfully connected to NATS", zap.String("url", nc.ConnectedUrl()))

	p := NewPublisher(nc, logger)
	p.nc = nc
	return p, nil
}

func (p *Publisher) publish(subject, id string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload for %s: %w", subject, err)
	}
	if err := p.conn.Publish(subject, data); err != nil {
		p.logger.Error("Failed to publish NATS message",
			zap.String("subject", subject),
			zap.String("announcement_id", id),
			zap.Error(err),
		)
		return fmt.Errorf("failed to publish NATS message for %s: %w", subject, err)
	}
	p.logger.Debug("Published NATS message",
		zap.String("subject", subject),
		zap.String("announcement_id", id),
	)
	return nil
}

func toEvent(a *models.Announcement) AnnouncementEvent {
	return AnnouncementEvent{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		CreatedAt:   a.CreatedAt,
	}
}

func (p *Publisher) PublishAnnouncementCreated(ctx context.Context, announcement *models.Announcement) error {
	return p.publish(AnnouncementCreatedSubject, announcement.ID, toEvent(announcement))
}

func (p *Publisher) PublishAnnouncementUpdated(ctx context.Context, announcement *models.Announcement) error {
	return p.publish(AnnouncementUpdatedSubject, announcement.ID, toEvent(announcement))
}

func (p *Publisher) PublishAnnouncementDeleted(ctx context.Context, id string) error {
	return p.publish(AnnouncementDeletedSubject, id, DeletedEventPayload{ID: id})
}

// Close drains the connection opened by Connect.
func (p *Publisher) Close() {
	if p.nc != nil && !p.nc.IsClosed() {
		if err := p.nc.Drain(); err != nil {
			p.logger.Error("Error draining NATS connection", zap.Error(err))
		}
		p.nc.Close()
	}
}
