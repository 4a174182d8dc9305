package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/markjakearzadon/announcements-gobackend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockConn struct{ mock.Mock }

func (m *MockConn) Publish(subject string, data []byte) error {
	args := m.Called(subject, data)
	return args.Error(0)
}

func TestPublisher(t *testing.T) {
	ctx := context.Background()
	a := &models.Announcement{
		ID:          "a1",
		Title:       "Sale",
		Description: "Today",
		CreatedAt:   time.Date(2025, 9, 29, 0, 0, 0, 0, time.UTC),
	}

	t.Run("created event carries the record", func(t *testing.T) {
		conn := new(MockConn)
		p := NewPublisher(conn, zap.NewNop())
		conn.On("Publish", AnnouncementCreatedSubject, mock.MatchedBy(func(data []byte) bool {
			var ev AnnouncementEvent
			return json.Unmarshal(data, &ev) == nil && ev.ID == "a1" && ev.Title == "Sale"
		})).Return(nil).Once()

		require.NoError(t, p.PublishAnnouncementCreated(ctx, a))
		conn.AssertExpectations(t)
	})

	t.Run("deleted event carries only the id", func(t *testing.T) {
		conn := new(MockConn)
		p := NewPublisher(conn, zap.NewNop())
		conn.On("Publish", AnnouncementDeletedSubject, []byte(`{"id":"a1"}`)).Return(nil).Once()

		require.NoError(t, p.PublishAnnouncementDeleted(ctx, "a1"))
		conn.AssertExpectations(t)
	})

	t.Run("publish failure is returned", func(t *testing.T) {
		conn := new(MockConn)
		p := NewPublisher(conn, zap.NewNop())
		conn.On("Publish", AnnouncementUpdatedSubject, mock.Anything).Return(errors.New("nats: connection closed")).Once()

		err := p.PublishAnnouncementUpdated(ctx, a)
		assert.ErrorContains(t, err, AnnouncementUpdatedSubject)
		conn.AssertExpectations(t)
	})
}
