package domain

import "errors"

// Ошибки, которые use case'ы возвращают адаптерам.
var (
	ErrValidation = errors.New("validation failed")

	ErrSavedSearchNotFound  = errors.New("saved search not found")
	ErrPostNotFound         = errors.New("post not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrAppointmentNotFound  = errors.New("appointment not found")
	ErrLocationNotFound     = errors.New("location not found")

	ErrLocationAlreadyExists = errors.New("location already exists")
	ErrLocationInUse         = errors.New("location is referenced by posts")

	ErrForbidden    = errors.New("access denied")
	ErrTokenInvalid = errors.New("invalid jwt token")
	ErrTokenExpired = errors.New("jwt token expired")
)
