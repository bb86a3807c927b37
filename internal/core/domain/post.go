package domain

import (
	"sort"
	"time"
)

// PostStatus статус объявления.
type PostStatus string

const (
	PostPending  PostStatus = "Pending"
	PostActive   PostStatus = "Active"
	PostRejected PostStatus = "Rejected"
	PostExpired  PostStatus = "Expired"
)

// Post объявление. Сервис читает объявления и меняет только статус и срок при модерации.
type Post struct {
	ID              int64
	UserID          int64
	Title           string
	Description     string
	Price           float64
	TransactionType TransactionType
	Status          PostStatus
	ExpiryDate      *time.Time
	Latitude        *float64
	Longitude       *float64
	FullAddress     string
	CityName        string
	DistrictName    string
	WardName        string
	CreatedAt       time.Time
}

// HasCoordinates true, если заданы обе координаты.
func (p *Post) HasCoordinates() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// Matchable активное, не просроченное объявление с координатами.
func (p *Post) Matchable(now time.Time) bool {
	if p.Status != PostActive || !p.HasCoordinates() {
		return false
	}
	return p.ExpiryDate == nil || p.ExpiryDate.After(now)
}

// MatchedPost объявление с расстоянием до центра поиска.
type MatchedPost struct {
	Post       Post
	DistanceKm float64
}

// MatchPosts применяет предикат к кандидатам и сортирует результат по расстоянию.
// Равные расстояния сохраняют исходный порядок.
func MatchPosts(search *SavedSearch, candidates []Post, now time.Time) []MatchedPost {
	matches := make([]MatchedPost, 0, len(candidates))
	for i := range candidates {
		if d, ok := search.Match(&candidates[i], now); ok {
			matches = append(matches, MatchedPost{Post: candidates[i], DistanceKm: d})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].DistanceKm < matches[j].DistanceKm
	})
	return matches
}

// ExpiryForRole срок публикации после одобрения зависит от пакета владельца.
func ExpiryForRole(role string, approvedAt time.Time) time.Time {
	switch role {
	case "Pro_1":
		return approvedAt.AddDate(0, 0, 30)
	case "Pro_3":
		return approvedAt.AddDate(0, 0, 90)
	case "Pro_12":
		return approvedAt.AddDate(0, 0, 365)
	default:
		return approvedAt.AddDate(0, 0, 7)
	}
}
