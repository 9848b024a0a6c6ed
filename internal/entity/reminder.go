package entity

import (
	"time"
)

type ReminderType string

const (
	TypeMedicine    ReminderType = "medicine"
	TypeAppointment ReminderType = "appointment"
)

type Recurrence string

const (
	RecurrenceOnce    Recurrence = "once"
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
)

// Reminder is a persisted medicine or appointment alert. Date and Time keep
// the wall-clock form the user entered ("2006-01-02" and "15:04"); the
// checker interprets them in its evaluation location.
type Reminder struct {
	ID           string       `json:"id"`
	UserID       string       `json:"user_id"`
	Type         ReminderType `json:"type"`
	Title        string       `json:"title"`
	Dosage       string       `json:"dosage,omitempty"`
	Notes        string       `json:"notes,omitempty"`
	Date         string       `json:"date"`
	Time         string       `json:"time"`
	Recurrence   Recurrence   `json:"recurrence"`
	Enabled      bool         `json:"enabled"`
	Notified     bool         `json:"notified"`
	LastNotified *time.Time   `json:"last_notified,omitempty"`
	SnoozedUntil *time.Time   `json:"snoozed_until,omitempty"`
	TakenAt      *time.Time   `json:"taken_at,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

type ReminderRequest struct {
	Type       ReminderType `json:"type" binding:"required,oneof=medicine appointment"`
	Title      string       `json:"title" binding:"required"`
	Dosage     string       `json:"dosage"`
	Notes      string       `json:"notes"`
	Date       string       `json:"date"`
	Time       string       `json:"time"`
	When       string       `json:"when"`
	Recurrence Recurrence   `json:"recurrence" binding:"required,oneof=once daily weekly monthly"`
	Enabled    *bool        `json:"enabled"`
}

type SnoozeRequest struct {
	Minutes int `json:"minutes"`
}

func (t ReminderType) Valid() bool {
	return t == TypeMedicine || t == TypeAppointment
}

func (r Recurrence) Valid() bool {
	switch r {
	case RecurrenceOnce, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return true
	}
	return false
}
