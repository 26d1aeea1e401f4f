package goals

import (
	"context"
	"errors"
	"math"
	"sort"

	"github.com/cruxlog/cruxlog/internal/climbing"
	"github.com/cruxlog/cruxlog/internal/grades"
	"github.com/cruxlog/cruxlog/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// Calculator computes quarterly goal progress from the climb log.
// It degrades to an empty progress list on a missing goal row or a
// failing read, the HTTP layer never turns that into a 5xx.
type Calculator struct {
	goalsRepo goalsRepo
	climbs    climbsLister
}

func NewCalculator(goalsRepo goalsRepo, climbs climbsLister) *Calculator {
	return &Calculator{
		goalsRepo: goalsRepo,
		climbs:    climbs,
	}
}

func (c *Calculator) BoulderProgress(ctx context.Context, userID, year, quarter int) []GoalProgress {
	return c.progress(ctx, userID, year, quarter, climbing.TypeBoulder)
}

func (c *Calculator) BoardProgress(ctx context.Context, userID, year, quarter int) []GoalProgress {
	return c.progress(ctx, userID, year, quarter, climbing.TypeBoard)
}

func (c *Calculator) LeadProgress(ctx context.Context, userID, year, quarter int) []GoalProgress {
	return c.progress(ctx, userID, year, quarter, climbing.TypeLead)
}

func (c *Calculator) progress(ctx context.Context, userID, year, quarter int, climbType climbing.ClimbType) []GoalProgress {
	ctx, span := tracing.GlobalTracer.Start(ctx, "calculator.goals.progress")
	defer span.End()
	span.SetAttributes(attribute.Int("user_id", userID))
	span.SetAttributes(attribute.String("climb_type", climbType.String()))

	from, to, ok := QuarterWindow(year, quarter)
	if !ok {
		log.Errorf("goals progress: invalid quarter %d", quarter)
		return []GoalProgress{}
	}

	goal, err := c.goalsRepo.Get(ctx, userID, year, quarter, climbType)
	if err != nil {
		if errors.Is(err, ErrGoalNotFound) {
			log.Tracef("goals progress: no %s goal for user %d, %d Q%d", climbType, userID, year, quarter)
		} else {
			log.Errorf("goals progress: get %s goal for user %d: %s", climbType, userID, err)
		}
		return []GoalProgress{}
	}

	climbs, err := c.climbs.ListAll(ctx, climbing.ClimbParams{
		UserID: userID,
		Type:   &climbType,
		From:   &from,
		To:     &to,
	})
	if err != nil {
		log.Errorf("goals progress: list %s climbs for user %d: %s", climbType, userID, err)
		return []GoalProgress{}
	}

	// strict type isolation comes from the repo filter above, a board
	// send never counts towards a boulder goal
	grade2actual := make(map[int]int)
	for _, climb := range climbs {
		if climb.GradeID == nil || !climb.Success {
			continue
		}
		grade2actual[*climb.GradeID]++
	}

	family := climbType.GradeFamily()
	progress := make([]GoalProgress, 0, len(goal.Targets))
	for gradeID, target := range goal.Targets {
		if target <= 0 {
			continue
		}
		if climbType == climbing.TypeLead && gradeID < grades.LeadGoalGradeFloor {
			continue
		}
		actual := grade2actual[gradeID]
		remaining := target - actual
		if remaining < 0 {
			remaining = 0
		}
		progress = append(progress, GoalProgress{
			GradeID:    gradeID,
			GradeLabel: grades.LabelFor(family, gradeID),
			Target:     target,
			Actual:     actual,
			Remaining:  remaining,
			Percentage: int(math.Round(float64(actual) / float64(target) * 100)),
		})
	}

	// hardest grade first
	sort.Slice(progress, func(i, j int) bool {
		return progress[i].GradeID > progress[j].GradeID
	})

	return progress
}
