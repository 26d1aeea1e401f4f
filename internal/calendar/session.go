package calendar

import (
	"time"
)

// Status is the derived display state of a scheduled session. It is
// computed on the fly from the session attributes, never stored.
type Status string

const (
	StatusCompletedDeload Status = "completed-deload"
	StatusPendingDeload   Status = "pending-deload"
	StatusCompleted       Status = "completed"
	StatusTodayPending    Status = "today-pending"
	StatusMissed          Status = "missed"
	StatusFuturePending   Status = "future-pending"
)

// Session is one scheduled training session on the calendar.
// Deload true implies DeloadPercentage set in [1,100], deload false
// implies it is null. The handler validates the percentage on the way
// in, the repo persists whatever it is given.
type Session struct {
	ID               int       `json:"id"`
	UserID           int       `json:"userId"`
	WorkoutID        int       `json:"workoutId"`
	StartsAt         time.Time `json:"startsAt"`
	Completed        bool      `json:"completed"`
	RPE              *int      `json:"rpe"`
	Deload           bool      `json:"deload"`
	DeloadPercentage *int      `json:"deloadPercentage"`
}

// StatusOf derives the display status of a session at the given moment.
// The precedence is fixed: deload masks everything, completed masks the
// date comparisons, then same-day, past, future.
func StatusOf(session Session, now time.Time) Status {
	if session.Deload {
		if session.Completed {
			return StatusCompletedDeload
		}
		return StatusPendingDeload
	}
	if session.Completed {
		return StatusCompleted
	}
	if sameDay(session.StartsAt, now) {
		return StatusTodayPending
	}
	if session.StartsAt.Before(now) {
		return StatusMissed
	}
	return StatusFuturePending
}

func sameDay(a, b time.Time) bool {
	aYear, aMonth, aDay := a.Date()
	bYear, bMonth, bDay := b.Date()
	return aYear == bYear && aMonth == bMonth && aDay == bDay
}
