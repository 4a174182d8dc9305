package sqlstore

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/markjakearzadon/announcements-gobackend/internal/models"
	"github.com/markjakearzadon/announcements-gobackend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var columns = []string{"id", "title", "description", "created_at"}

func setup(t *testing.T) (*AnnouncementRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	return NewAnnouncementRepository(gormdb), mock
}

func TestAnnouncementRepository_ListAll(t *testing.T) {
	repo, mock := setup(t)
	newer := time.Date(2025, 9, 29, 12, 0, 0, 0, time.UTC)
	older := newer.Add(-time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `announcements` ORDER BY created_at desc")).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("b", "Big sale tomorrow", "desc", newer).
			AddRow("a", "Sale today", "desc", older))

	got, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, "Sale today", got[1].Title)
	assert.True(t, older.Equal(got[1].CreatedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementRepository_GetByID(t *testing.T) {
	repo, mock := setup(t)

	t.Run("found", func(t *testing.T) {
		created := time.Date(2025, 9, 29, 12, 0, 0, 0, time.UTC)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `announcements` WHERE id = ?")).
			WillReturnRows(sqlmock.NewRows(columns).AddRow("a", "Sale", "Today", created))

		got, err := repo.GetByID(context.Background(), "a")
		require.NoError(t, err)
		assert.Equal(t, "Sale", got.Title)
		assert.Equal(t, "Today", got.Description)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `announcements` WHERE id = ?")).
			WillReturnRows(sqlmock.NewRows(columns))

		_, err := repo.GetByID(context.Background(), "missing")
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("store failure", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `announcements` WHERE id = ?")).
			WillReturnError(errors.New("connection refused"))

		_, err := repo.GetByID(context.Background(), "a")
		assert.ErrorIs(t, err, repository.ErrStoreUnavailable)
		assert.NotErrorIs(t, err, repository.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAnnouncementRepository_Insert(t *testing.T) {
	repo, mock := setup(t)
	a := &models.Announcement{ID: "a", Title: "Sale", Description: "Today", CreatedAt: time.Now().UTC()}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `announcements` (`id`,`title`,`description`,`created_at`) VALUES (?,?,?,?)")).
		WithArgs("a", "Sale", "Today", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Insert(context.Background(), a))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementRepository_Update(t *testing.T) {
	repo, mock := setup(t)
	a := &models.Announcement{ID: "a", Title: "New title", Description: "New description"}
	query := regexp.QuoteMeta("UPDATE `announcements` SET `description`=?,`title`=? WHERE id = ?")

	t.Run("matched", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs("New description", "New title", "a").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Update(context.Background(), a))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no row", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs("New description", "New title", "a").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Update(context.Background(), a), repository.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAnnouncementRepository_Delete(t *testing.T) {
	repo, mock := setup(t)
	query := regexp.QuoteMeta("DELETE FROM `announcements` WHERE id = ?")

	mock.ExpectExec(query).WithArgs("a").WillReturnResult(sqlmock.NewResult(0, 1))
	deleted, err := repo.Delete(context.Background(), "a")
	require.NoError(t, err)
	assert.True(t, deleted)

	mock.ExpectExec(query).WithArgs("a").WillReturnResult(sqlmock.NewResult(0, 0))
	deleted, err = repo.Delete(context.Background(), "a")
	require.NoError(t, err)
	assert.False(t, deleted)

	mock.ExpectExec(query).WithArgs("a").WillReturnError(errors.New("connection reset"))
	_, err = repo.Delete(context.Background(), "a")
	assert.ErrorIs(t, err, repository.ErrStoreUnavailable)

	assert.NoError(t, mock.ExpectationsWereMet())
}
