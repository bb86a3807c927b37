package usecase

import (
	"context"
	"testing"
	"time"

	"saved-search-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

// Центр Ханоя и точки вокруг него.
const (
	hanoiLat = 21.0285
	hanoiLon = 105.8542
)

func activePost(id int64, lat, lon, price float64) domain.Post {
	return domain.Post{
		ID:              id,
		UserID:          100 + id,
		Title:           "Căn hộ",
		Price:           price,
		TransactionType: domain.TransactionSale,
		Status:          domain.PostActive,
		Latitude:        f64(lat),
		Longitude:       f64(lon),
	}
}

func hanoiSearch(userID int64, radiusKm float64) domain.SavedSearch {
	return domain.SavedSearch{
		UserID:          userID,
		CenterLatitude:  hanoiLat,
		CenterLongitude: hanoiLon,
		RadiusKm:        radiusKm,
		TransactionType: domain.TransactionSale,
		NotifyEnabled:   true,
		Active:          true,
		CreatedAt:       testNow,
	}
}

func TestCreateSavedSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("valid search is stored with notifications enabled", func(t *testing.T) {
		repo := newFakeSavedSearchRepo()
		uc := NewCreateSavedSearchUseCase(repo)
		uc.now = fixedClock(testNow)

		s, err := uc.Execute(ctx, domain.NewSavedSearchParams{
			UserID:          7,
			CenterLatitude:  hanoiLat,
			CenterLongitude: hanoiLon,
			RadiusKm:        5,
			TransactionType: domain.TransactionRent,
		})
		require.NoError(t, err)
		assert.NotZero(t, s.ID)
		assert.True(t, s.Active)
		assert.True(t, s.NotifyEnabled)
		assert.Equal(t, testNow, s.CreatedAt)
		assert.Len(t, repo.items, 1)
	})

	t.Run("inverted price bounds are rejected and nothing is stored", func(t *testing.T) {
		repo := newFakeSavedSearchRepo()
		uc := NewCreateSavedSearchUseCase(repo)

		_, err := uc.Execute(ctx, domain.NewSavedSearchParams{
			UserID:          7,
			CenterLatitude:  hanoiLat,
			CenterLongitude: hanoiLon,
			RadiusKm:        5,
			TransactionType: domain.TransactionSale,
			MinPrice:        f64(20),
			MaxPrice:        f64(10),
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Empty(t, repo.items)
	})

	t.Run("repository failure is returned", func(t *testing.T) {
		repo := newFakeSavedSearchRepo()
		repo.failWith = errDBDown
		uc := NewCreateSavedSearchUseCase(repo)

		_, err := uc.Execute(ctx, domain.NewSavedSearchParams{
			UserID: 7, CenterLatitude: 1, CenterLongitude: 1, RadiusKm: 1, TransactionType: domain.TransactionSale,
		})
		assert.ErrorIs(t, err, errDBDown)
	})
}

func TestListAndDeleteSavedSearches(t *testing.T) {
	ctx := context.Background()
	repo := newFakeSavedSearchRepo()
	own := repo.add(hanoiSearch(7, 5))
	repo.add(hanoiSearch(8, 5))

	list := NewListSavedSearchesUseCase(repo)
	del := NewDeleteSavedSearchUseCase(repo)

	searches, err := list.Execute(ctx, 7)
	require.NoError(t, err)
	require.Len(t, searches, 1)
	assert.Equal(t, own.ID, searches[0].ID)

	deleted, err := del.Execute(ctx, own.ID, 8)
	require.NoError(t, err)
	assert.False(t, deleted, "чужой поиск не удаляется")

	deleted, err = del.Execute(ctx, own.ID, 7)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = del.Execute(ctx, own.ID, 7)
	require.NoError(t, err)
	assert.False(t, deleted)

	searches, err = list.Execute(ctx, 7)
	require.NoError(t, err)
	assert.NotNil(t, searches)
	assert.Empty(t, searches)
}

func TestFindMatchingPosts(t *testing.T) {
	ctx := context.Background()

	searches := newFakeSavedSearchRepo()
	s := hanoiSearch(7, 10)
	s.MinPrice = f64(1000)
	s.MaxPrice = f64(5000)
	s = searches.add(s)

	expired := activePost(5, hanoiLat, hanoiLon, 2000)
	expired.ExpiryDate = &time.Time{}
	rent := activePost(6, hanoiLat, hanoiLon, 2000)
	rent.TransactionType = domain.TransactionRent
	pending := activePost(7, hanoiLat, hanoiLon, 2000)
	pending.Status = domain.PostPending
	noCoords := activePost(8, 0, 0, 2000)
	noCoords.Latitude = nil

	posts := newFakePostRepo(
		activePost(1, hanoiLat+0.05, hanoiLon, 2000), // ~5.6 км
		activePost(2, hanoiLat+0.01, hanoiLon, 3000), // ~1.1 км
		activePost(3, hanoiLat+0.5, hanoiLon, 2000),  // за радиусом
		activePost(4, hanoiLat, hanoiLon, 9000),      // дороже максимума
		expired, rent, pending, noCoords,
	)

	uc := NewFindMatchingPostsUseCase(searches, posts)
	uc.now = fixedClock(testNow)

	matches, err := uc.Execute(ctx, s.ID, 7)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, int64(2), matches[0].Post.ID)
	assert.Equal(t, int64(1), matches[1].Post.ID)
	assert.Less(t, matches[0].DistanceKm, matches[1].DistanceKm)
	assert.InDelta(t, 1.11, matches[0].DistanceKm, 0.01)

	require.NotNil(t, posts.lastFilter)
	assert.Equal(t, domain.TransactionSale, posts.lastFilter.TransactionType)
	assert.Len(t, posts.lastFilter.GeohashCells, 9)
	assert.Equal(t, testNow, posts.lastFilter.Now)

	t.Run("search of another user is not found", func(t *testing.T) {
		_, err := uc.Execute(ctx, s.ID, 8)
		assert.ErrorIs(t, err, domain.ErrSavedSearchNotFound)
	})

	t.Run("deleted search is not found", func(t *testing.T) {
		inactive := hanoiSearch(7, 10)
		inactive.Active = false
		inactive = searches.add(inactive)

		_, err := uc.Execute(ctx, inactive.ID, 7)
		assert.ErrorIs(t, err, domain.ErrSavedSearchNotFound)
	})

	t.Run("repository failure is not reported as not found", func(t *testing.T) {
		broken := newFakeSavedSearchRepo()
		broken.failWith = errDBDown
		_, err := NewFindMatchingPostsUseCase(broken, posts).Execute(ctx, s.ID, 7)
		assert.ErrorIs(t, err, errDBDown)
		assert.NotErrorIs(t, err, domain.ErrSavedSearchNotFound)
	})

	t.Run("empty result is an empty slice", func(t *testing.T) {
		far := searches.add(domain.SavedSearch{
			UserID: 7, CenterLatitude: 10.7769, CenterLongitude: 106.7009, RadiusKm: 1,
			TransactionType: domain.TransactionSale, Active: true,
		})
		matches, err := uc.Execute(ctx, far.ID, 7)
		require.NoError(t, err)
		assert.NotNil(t, matches)
		assert.Empty(t, matches)
	})
}
