package usecase

import (
	"context"
	"testing"

	"saved-search-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedNotifications(repo *fakeNotificationRepo, userID int64, n int) []domain.Notification {
	out := make([]domain.Notification, 0, n)
	for i := 0; i < n; i++ {
		item := domain.Notification{UserID: userID, Title: "t", Message: "m", Kind: domain.KindMessage, CreatedAt: testNow}
		_ = repo.Create(context.Background(), &item)
		out = append(out, item)
	}
	return out
}

func TestListNotifications(t *testing.T) {
	repo := newFakeNotificationRepo()
	seedNotifications(repo, 7, 3)
	seedNotifications(repo, 8, 2)
	uc := NewListNotificationsUseCase(repo)

	page, err := uc.Execute(context.Background(), 7, 0, -5)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalCount)
	assert.Equal(t, int64(3), page.UnreadCount)
	assert.Equal(t, defaultPageSize, page.ItemsPerPage)
	assert.Equal(t, 1, page.CurrentPage)
	require.Len(t, page.Items, 3)
	assert.Greater(t, page.Items[0].ID, page.Items[2].ID, "новые первыми")

	page, err = uc.Execute(context.Background(), 7, 1000, 0)
	require.NoError(t, err)
	assert.Equal(t, maxPageSize, page.ItemsPerPage)
}

func TestMarkNotificationRead(t *testing.T) {
	ctx := context.Background()
	repo := newFakeNotificationRepo()
	own := seedNotifications(repo, 7, 1)[0]
	notifier := &fakeNotifier{}
	uc := NewMarkNotificationReadUseCase(repo, notifier)

	t.Run("missing", func(t *testing.T) {
		assert.ErrorIs(t, uc.Execute(ctx, 999, 7), domain.ErrNotificationNotFound)
	})

	t.Run("foreign", func(t *testing.T) {
		err := uc.Execute(ctx, own.ID, 8)
		assert.ErrorIs(t, err, domain.ErrForbidden)
		assert.False(t, repo.items[own.ID].IsRead)
	})

	t.Run("own", func(t *testing.T) {
		require.NoError(t, uc.Execute(ctx, own.ID, 7))
		assert.True(t, repo.items[own.ID].IsRead)
		require.Equal(t, 1, notifier.count())
		assert.Equal(t, domain.EventNotificationRead, notifier.events[0].Type)
		assert.True(t, notifier.events[0].Notification.IsRead)
	})

	t.Run("already read is a no-op", func(t *testing.T) {
		require.NoError(t, uc.Execute(ctx, own.ID, 7))
		assert.Equal(t, 1, notifier.count())
	})
}

func TestDeleteNotification(t *testing.T) {
	ctx := context.Background()
	repo := newFakeNotificationRepo()
	own := seedNotifications(repo, 7, 1)[0]
	uc := NewDeleteNotificationUseCase(repo)

	assert.ErrorIs(t, uc.Execute(ctx, own.ID, 8), domain.ErrForbidden)
	assert.Contains(t, repo.items, own.ID)

	require.NoError(t, uc.Execute(ctx, own.ID, 7))
	assert.NotContains(t, repo.items, own.ID)

	assert.ErrorIs(t, uc.Execute(ctx, own.ID, 7), domain.ErrNotificationNotFound)
}
