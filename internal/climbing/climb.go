package climbing

import (
	"time"

	"github.com/cruxlog/cruxlog/internal/grades"
)

// ClimbType can be one of:
//   - boulder
//   - board
//   - lead
//
// Boulder and board climbs share the V-scale grade id space,
// lead climbs use the French scale. The types are still strictly
// separate everywhere: a board climb never counts as a boulder one.
type ClimbType string

const (
	TypeBoulder ClimbType = "boulder"
	TypeBoard   ClimbType = "board"
	TypeLead    ClimbType = "lead"
)

func (ct ClimbType) String() string {
	return string(ct)
}

func (ct ClimbType) IsValid() bool {
	switch ct {
	case TypeBoulder, TypeBoard, TypeLead:
		return true
	default:
		return false
	}
}

func (ct ClimbType) GradeFamily() grades.Family {
	if ct == TypeLead {
		return grades.FamilyFrench
	}
	return grades.FamilyVScale
}

type ClimbLog struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userId"`
	Type      ClimbType `json:"type"`
	GradeID   *int      `json:"gradeId"`
	Attempts  int       `json:"attempts"`
	Success   bool      `json:"success"`
	RouteName string    `json:"routeName,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// AttemptsOrOne returns the attempts count, treating missing
// values as a single attempt.
func (c ClimbLog) AttemptsOrOne() int {
	if c.Attempts < 1 {
		return 1
	}
	return c.Attempts
}
