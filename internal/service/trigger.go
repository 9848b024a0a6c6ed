package service

import (
	"fmt"
	"time"

	"github.com/sehat-saathi/reminder-service/internal/entity"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"

	// TriggerTolerance is the margin around an occurrence within which a
	// polled evaluation still counts the reminder as due. It must stay larger
	// than the checker interval or occurrences can fall between ticks.
	TriggerTolerance = time.Minute
)

// NextOccurrence computes the next wall-clock instant the reminder is due, in
// the location of now. Occurrences more than TriggerTolerance in the past are
// considered missed and advanced past; a once reminder that was missed never
// fires again (ok = false).
func NextOccurrence(r *entity.Reminder, now time.Time) (time.Time, bool) {
	hour, minute, err := parseClock(r.Time)
	if err != nil {
		return time.Time{}, false
	}
	anchor, err := time.ParseInLocation(dateLayout, r.Date, now.Location())
	if err != nil {
		return time.Time{}, false
	}

	next := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), hour, minute, 0, 0, now.Location())
	cutoff := now.Add(-TriggerTolerance)
	if next.After(cutoff) {
		return next, true
	}

	switch r.Recurrence {
	case entity.RecurrenceDaily:
		next = time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
		if !next.After(cutoff) {
			next = next.AddDate(0, 0, 1)
		}
	case entity.RecurrenceWeekly:
		for !next.After(cutoff) {
			next = next.AddDate(0, 0, 7)
		}
	case entity.RecurrenceMonthly:
		for !next.After(cutoff) {
			next = next.AddDate(0, 1, 0)
		}
	default:
		// once, already passed
		return time.Time{}, false
	}
	return next, true
}

// ShouldTrigger reports whether the reminder is due at now.
func ShouldTrigger(r *entity.Reminder, now time.Time) bool {
	if !r.Enabled {
		return false
	}
	if r.SnoozedUntil != nil && now.Before(*r.SnoozedUntil) {
		return false
	}
	if r.TakenAt != nil && r.Recurrence != entity.RecurrenceOnce && sameDay(*r.TakenAt, now) {
		return false
	}
	if r.Recurrence == entity.RecurrenceOnce && r.Notified {
		return false
	}

	next, ok := NextOccurrence(r, now)
	if !ok {
		return false
	}

	diff := now.Sub(next)
	if diff < 0 {
		diff = -diff
	}
	return diff < TriggerTolerance
}

func parseClock(value string) (int, int, error) {
	t, err := time.Parse(clockLayout, value)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time %q: %w", value, err)
	}
	return t.Hour(), t.Minute(), nil
}

func sameDay(a, b time.Time) bool {
	a = a.In(b.Location())
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
