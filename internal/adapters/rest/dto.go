package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"saved-search-service/internal/adapters/notifier"
	"saved-search-service/internal/core/domain"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// decodeAndValidate читает JSON-тело и проверяет теги validate.
func decodeAndValidate(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	if err := validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// --- сохраненные поиски ---

type CreateSavedSearchRequest struct {
	CenterLatitude  *float64 `json:"center_latitude" validate:"required,gte=-90,lte=90"`
	CenterLongitude *float64 `json:"center_longitude" validate:"required,gte=-180,lte=180"`
	RadiusKm        *float64 `json:"radius_km" validate:"required,gt=0"`
	TransactionType string   `json:"transaction_type" validate:"required,oneof=Sale Rent"`
	MinPrice        *float64 `json:"min_price" validate:"omitempty,gte=0"`
	MaxPrice        *float64 `json:"max_price" validate:"omitempty,gte=0"`
	NotifyEnabled   *bool    `json:"notify_enabled"`
}

type SavedSearchResponse struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	CenterLatitude  float64   `json:"center_latitude"`
	CenterLongitude float64   `json:"center_longitude"`
	RadiusKm        float64   `json:"radius_km"`
	TransactionType string    `json:"transaction_type"`
	MinPrice        *float64  `json:"min_price"`
	MaxPrice        *float64  `json:"max_price"`
	NotifyEnabled   bool      `json:"notify_enabled"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
}

func toSavedSearchResponse(s domain.SavedSearch) SavedSearchResponse {
	return SavedSearchResponse{
		ID:              s.ID,
		UserID:          s.UserID,
		CenterLatitude:  s.CenterLatitude,
		CenterLongitude: s.CenterLongitude,
		RadiusKm:        s.RadiusKm,
		TransactionType: string(s.TransactionType),
		MinPrice:        s.MinPrice,
		MaxPrice:        s.MaxPrice,
		NotifyEnabled:   s.NotifyEnabled,
		Active:          s.Active,
		CreatedAt:       s.CreatedAt,
	}
}

// MatchedPostResponse карточка объявления в результатах поиска.
type MatchedPostResponse struct {
	ID              int64      `json:"id"`
	UserID          int64      `json:"user_id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Price           float64    `json:"price"`
	TransactionType string     `json:"transaction_type"`
	Status          string     `json:"status"`
	ExpiryDate      *time.Time `json:"expiry_date"`
	Latitude        float64    `json:"latitude"`
	Longitude       float64    `json:"longitude"`
	FullAddress     string     `json:"full_address"`
	CityName        string     `json:"city_name,omitempty"`
	DistrictName    string     `json:"district_name,omitempty"`
	WardName        string     `json:"ward_name,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	DistanceKm      float64    `json:"distance_km"`
}

func toMatchedPostResponse(m domain.MatchedPost) MatchedPostResponse {
	p := m.Post
	resp := MatchedPostResponse{
		ID:              p.ID,
		UserID:          p.UserID,
		Title:           p.Title,
		Description:     p.Description,
		Price:           p.Price,
		TransactionType: string(p.TransactionType),
		Status:          string(p.Status),
		ExpiryDate:      p.ExpiryDate,
		FullAddress:     p.FullAddress,
		CityName:        p.CityName,
		DistrictName:    p.DistrictName,
		WardName:        p.WardName,
		CreatedAt:       p.CreatedAt,
		DistanceKm:      m.DistanceKm,
	}
	// у совпадений координаты всегда заданы
	if p.HasCoordinates() {
		resp.Latitude, resp.Longitude = *p.Latitude, *p.Longitude
	}
	return resp
}

// --- уведомления ---

type PaginatedNotificationsResponse struct {
	Data        []notifier.NotificationDTO `json:"data"`
	Total       int64                      `json:"total"`
	UnreadCount int64                      `json:"unread_count"`
	Page        int                        `json:"page"`
	PerPage     int                        `json:"per_page"`
}

// --- встречи ---

type CreateAppointmentRequest struct {
	Title           string    `json:"title" validate:"required,max=200"`
	Description     *string   `json:"description" validate:"omitempty,max=1000"`
	AppointmentTime time.Time `json:"appointment_time" validate:"required"`
	ReminderMinutes int       `json:"reminder_minutes" validate:"gte=0,lte=1440"`
}

type AppointmentResponse struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	Title           string    `json:"title"`
	Description     *string   `json:"description"`
	AppointmentTime time.Time `json:"appointment_time"`
	ReminderMinutes int       `json:"reminder_minutes"`
	IsNotified      bool      `json:"is_notified"`
	IsCanceled      bool      `json:"is_canceled"`
	CreatedAt       time.Time `json:"created_at"`
}

func toAppointmentResponse(a domain.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:              a.ID,
		UserID:          a.UserID,
		Title:           a.Title,
		Description:     a.Description,
		AppointmentTime: a.AppointmentTime,
		ReminderMinutes: a.ReminderMinutes,
		IsNotified:      a.IsNotified,
		IsCanceled:      a.IsCanceled,
		CreatedAt:       a.CreatedAt,
	}
}

// --- справочник локаций ---

// Тела PUT совпадают с POST: district и ward можно перенести к другому родителю.

type CreateCityRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type CreateDistrictRequest struct {
	CityID int64  `json:"city_id" validate:"required,gt=0"`
	Name   string `json:"name" validate:"required,max=100"`
}

type CreateWardRequest struct {
	DistrictID int64  `json:"district_id" validate:"required,gt=0"`
	Name       string `json:"name" validate:"required,max=100"`
}

type CityResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type DistrictResponse struct {
	ID     int64  `json:"id"`
	CityID int64  `json:"city_id"`
	Name   string `json:"name"`
}

type WardResponse struct {
	ID         int64  `json:"id"`
	DistrictID int64  `json:"district_id"`
	Name       string `json:"name"`
}

// --- модерация ---

type ModerationResponse struct {
	ID         int64      `json:"id"`
	Status     string     `json:"status"`
	ExpiryDate *time.Time `json:"expiry_date"`
}
