package domain_test

import (
	"testing"

	"saved-search-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModerationNotifications(t *testing.T) {
	post := &domain.Post{ID: 42, UserID: 7, Title: "Nhà phố Hoàn Kiếm"}

	approved := domain.NewPostApprovedNotification(post, now)
	assert.Equal(t, int64(7), approved.UserID)
	require.NotNil(t, approved.PostID)
	assert.Equal(t, int64(42), *approved.PostID)
	assert.Equal(t, domain.KindApproved, approved.Kind)
	assert.Equal(t, "Tin đăng đã được duyệt", approved.Title)
	assert.Equal(t, "Tin đăng 'Nhà phố Hoàn Kiếm' của bạn đã được admin duyệt thành công.", approved.Message)
	assert.False(t, approved.IsRead)

	rejected := domain.NewPostRejectedNotification(post, now)
	assert.Equal(t, domain.KindPostRejected, rejected.Kind)
	assert.Equal(t, "Tin đăng bị từ chối", rejected.Title)
	assert.Equal(t, "Tin đăng 'Nhà phố Hoàn Kiếm' của bạn đã bị từ chối bởi admin.", rejected.Message)
	assert.Nil(t, rejected.SavedSearchID)
}
