package entity

import "errors"

var (
	// Reminder errors
	ErrReminderNotFound = errors.New("reminder not found")
	ErrInvalidSchedule  = errors.New("reminder needs a date and time or a parsable phrase")

	// General errors
	ErrInvalidInput = errors.New("invalid input")
	ErrMissingUser  = errors.New("user identifier is required")
)
