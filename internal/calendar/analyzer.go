package calendar

import (
	"context"
	"sort"
	"time"

	"github.com/cruxlog/cruxlog/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// WorkoutStats holds the aggregated numbers of one workout over a
// session range.
type WorkoutStats struct {
	WorkoutID         int      `json:"workoutId"`
	TotalSessions     int      `json:"totalSessions"`
	CompletedSessions int      `json:"completedSessions"`
	CompletionRate    float64  `json:"completionRate"`
	AverageRPE        *float64 `json:"averageRpe"`
	LastCompleted     *string  `json:"lastCompleted"`
}

// SessionStats is the per-workout breakdown plus an overall rollup
// computed from the flat session list.
type SessionStats struct {
	Workouts          []WorkoutStats `json:"workouts"`
	TotalSessions     int            `json:"totalSessions"`
	CompletedSessions int            `json:"completedSessions"`
	CompletionRate    float64        `json:"completionRate"`
	AverageRPE        *float64       `json:"averageRpe"`
}

type Analyzer struct {
	repo sessionsRepo
}

func NewAnalyzer(repo sessionsRepo) *Analyzer {
	return &Analyzer{
		repo: repo,
	}
}

// SessionStats aggregates the sessions of a user in the given range per
// workout: completion rate, average RPE over completed sessions that
// have one, and the most recent completed start time. Workouts with
// more sessions come first. A failing read degrades to zeroed stats, it
// is logged and never returned.
func (a *Analyzer) SessionStats(ctx context.Context, params SessionParams) *SessionStats {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.calendar.sessionStats")
	defer span.End()
	span.SetAttributes(attribute.Int("user_id", params.UserID))

	sessions, err := a.repo.ListAll(ctx, params)
	if err != nil {
		log.Errorf("session stats: list sessions for user %d: %s", params.UserID, err)
		span.RecordError(err)
		return &SessionStats{Workouts: []WorkoutStats{}}
	}

	workout2sessions := make(map[int][]Session)
	for _, s := range sessions {
		workout2sessions[s.WorkoutID] = append(workout2sessions[s.WorkoutID], s)
	}

	workoutStats := make([]WorkoutStats, 0, len(workout2sessions))
	for workoutID, workoutSessions := range workout2sessions {
		ws := WorkoutStats{
			WorkoutID:     workoutID,
			TotalSessions: len(workoutSessions),
		}
		rpeSum, rpeCount := 0, 0
		for _, s := range workoutSessions {
			if !s.Completed {
				continue
			}
			ws.CompletedSessions++
			if s.RPE != nil {
				rpeSum += *s.RPE
				rpeCount++
			}
			// deliberately a string comparison, timestamps are
			// RFC3339 formatted and compare fine within a century
			startsAt := s.StartsAt.Format(time.RFC3339)
			if ws.LastCompleted == nil || startsAt > *ws.LastCompleted {
				lastCompleted := startsAt
				ws.LastCompleted = &lastCompleted
			}
		}
		if ws.TotalSessions > 0 {
			ws.CompletionRate = float64(ws.CompletedSessions) / float64(ws.TotalSessions) * 100
		}
		if rpeCount > 0 {
			avgRPE := float64(rpeSum) / float64(rpeCount)
			ws.AverageRPE = &avgRPE
		}
		workoutStats = append(workoutStats, ws)
	}

	sort.Slice(workoutStats, func(i, j int) bool {
		if workoutStats[i].TotalSessions != workoutStats[j].TotalSessions {
			return workoutStats[i].TotalSessions > workoutStats[j].TotalSessions
		}
		return workoutStats[i].WorkoutID < workoutStats[j].WorkoutID
	})

	// overall rollup comes from the flat session list, not the
	// per-workout rows
	stats := &SessionStats{
		Workouts:      workoutStats,
		TotalSessions: len(sessions),
	}
	rpeSum, rpeCount := 0, 0
	for _, s := range sessions {
		if !s.Completed {
			continue
		}
		stats.CompletedSessions++
		if s.RPE != nil {
			rpeSum += *s.RPE
			rpeCount++
		}
	}
	if stats.TotalSessions > 0 {
		stats.CompletionRate = float64(stats.CompletedSessions) / float64(stats.TotalSessions) * 100
	}
	if rpeCount > 0 {
		avgRPE := float64(rpeSum) / float64(rpeCount)
		stats.AverageRPE = &avgRPE
	}

	return stats
}
