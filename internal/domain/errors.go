package domain

import "errors"

var (
	ErrValidation           = errors.New("validation failed")
	ErrUserNotFound         = errors.New("user not found")
	ErrCheckinNotFound      = errors.New("emotion checkin not found")
	ErrInterventionNotFound = errors.New("crisis intervention not found")
	ErrInterventionExists   = errors.New("crisis intervention already exists for checkin")
	ErrInvalidTransition    = errors.New("invalid user response transition")
)
