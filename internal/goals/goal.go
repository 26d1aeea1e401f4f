package goals

import (
	"time"

	"github.com/cruxlog/cruxlog/internal/climbing"
	"github.com/cruxlog/cruxlog/pkg"
)

// QuarterlyGoal holds the per-grade send targets of one user for one
// quarter and climb type. Targets is sparse, grade ids without a target
// are simply absent.
type QuarterlyGoal struct {
	ID        int               `json:"id"`
	UserID    int               `json:"userId"`
	Year      int               `json:"year"`
	Quarter   int               `json:"quarter"`
	Type      climbing.ClimbType `json:"type"`
	Targets   map[int]int       `json:"targets"`
	CreatedAt time.Time         `json:"createdAt"`
}

// GoalProgress is the computed progress towards one grade target.
type GoalProgress struct {
	GradeID    int    `json:"gradeId"`
	GradeLabel string `json:"gradeLabel"`
	Target     int    `json:"target"`
	Actual     int    `json:"actual"`
	Remaining  int    `json:"remaining"`
	Percentage int    `json:"percentage"`
}

// QuarterWindow returns the fixed calendar window of a quarter,
// inclusive on both ends. Quarter boundaries are calendar-date
// literals, never derived from week arithmetics.
func QuarterWindow(year, quarter int) (from, to time.Time, ok bool) {
	var fromMonth, toMonth time.Month
	var toDay int
	switch quarter {
	case 1:
		fromMonth, toMonth, toDay = time.January, time.March, 31
	case 2:
		fromMonth, toMonth, toDay = time.April, time.June, 30
	case 3:
		fromMonth, toMonth, toDay = time.July, time.September, 30
	case 4:
		fromMonth, toMonth, toDay = time.October, time.December, 31
	default:
		return from, to, false
	}
	from = time.Date(year, fromMonth, 1, 0, 0, 0, 0, time.UTC)
	to = pkg.EndOfDay(time.Date(year, toMonth, toDay, 0, 0, 0, 0, time.UTC))
	return from, to, true
}
