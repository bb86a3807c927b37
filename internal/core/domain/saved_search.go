package domain

import (
	"fmt"
	"math"
	"time"

	"saved-search-service/pkg/geo"
)

// TransactionType тип сделки.
type TransactionType string

const (
	TransactionSale TransactionType = "Sale"
	TransactionRent TransactionType = "Rent"
)

func (t TransactionType) Valid() bool {
	return t == TransactionSale || t == TransactionRent
}

// SavedSearch сохраненная область поиска пользователя. Удаление мягкое: Active=false.
type SavedSearch struct {
	ID              int64
	UserID          int64
	CenterLatitude  float64
	CenterLongitude float64
	RadiusKm        float64
	TransactionType TransactionType
	MinPrice        *float64
	MaxPrice        *float64
	NotifyEnabled   bool
	Active          bool
	CreatedAt       time.Time
}

// NewSavedSearchParams входные данные для создания.
type NewSavedSearchParams struct {
	UserID          int64
	CenterLatitude  float64
	CenterLongitude float64
	RadiusKm        float64
	TransactionType TransactionType
	MinPrice        *float64
	MaxPrice        *float64
	NotifyEnabled   *bool // nil - уведомления включены
}

// NewSavedSearch проверяет параметры и собирает активную сущность.
func NewSavedSearch(p NewSavedSearchParams, now time.Time) (*SavedSearch, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	notify := true
	if p.NotifyEnabled != nil {
		notify = *p.NotifyEnabled
	}

	return &SavedSearch{
		UserID:          p.UserID,
		CenterLatitude:  p.CenterLatitude,
		CenterLongitude: p.CenterLongitude,
		RadiusKm:        p.RadiusKm,
		TransactionType: p.TransactionType,
		MinPrice:        p.MinPrice,
		MaxPrice:        p.MaxPrice,
		NotifyEnabled:   notify,
		Active:          true,
		CreatedAt:       now.UTC(),
	}, nil
}

func (p NewSavedSearchParams) validate() error {
	switch {
	case !finite(p.CenterLatitude) || p.CenterLatitude < -90 || p.CenterLatitude > 90:
		return fmt.Errorf("%w: center latitude must be within [-90, 90]", ErrValidation)
	case !finite(p.CenterLongitude) || p.CenterLongitude < -180 || p.CenterLongitude > 180:
		return fmt.Errorf("%w: center longitude must be within [-180, 180]", ErrValidation)
	case !finite(p.RadiusKm) || p.RadiusKm <= 0:
		return fmt.Errorf("%w: radius must be positive", ErrValidation)
	case !p.TransactionType.Valid():
		return fmt.Errorf("%w: unknown transaction type %q", ErrValidation, p.TransactionType)
	case p.MinPrice != nil && (!finite(*p.MinPrice) || *p.MinPrice < 0):
		return fmt.Errorf("%w: min price must be a non-negative number", ErrValidation)
	case p.MaxPrice != nil && (!finite(*p.MaxPrice) || *p.MaxPrice < 0):
		return fmt.Errorf("%w: max price must be a non-negative number", ErrValidation)
	case p.MinPrice != nil && p.MaxPrice != nil && *p.MinPrice > *p.MaxPrice:
		return fmt.Errorf("%w: min price must be less than or equal to max price", ErrValidation)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// PriceInRange проверяет границы цены, отсутствующая граница не ограничивает.
func (s *SavedSearch) PriceInRange(price float64) bool {
	if s.MinPrice != nil && price < *s.MinPrice {
		return false
	}
	if s.MaxPrice != nil && price > *s.MaxPrice {
		return false
	}
	return true
}

// Match общий предикат соответствия объявления сохраненному поиску: статус Active,
// срок не истек, есть координаты, совпадает тип сделки, цена в границах и
// расстояние до центра не больше радиуса. Возвращает расстояние в км.
func (s *SavedSearch) Match(p *Post, now time.Time) (float64, bool) {
	if p == nil || !p.Matchable(now) {
		return 0, false
	}
	if p.TransactionType != s.TransactionType || !s.PriceInRange(p.Price) {
		return 0, false
	}
	distance := geo.DistanceKm(s.CenterLatitude, s.CenterLongitude, *p.Latitude, *p.Longitude)
	if !(distance <= s.RadiusKm) {
		return 0, false
	}
	return distance, true
}
