package climbing

import (
	"context"
	"sort"

	"github.com/cruxlog/cruxlog/internal/grades"
	"github.com/cruxlog/cruxlog/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// LeadHistogramBucket is a single column of the lead grade histogram.
type LeadHistogramBucket struct {
	GradeLabel string `json:"gradeLabel"`
	Count      int    `json:"count"`
}

// BoulderBoardHistogramBucket is a single column of the combined
// boulder/board histogram. The two types share the V-scale grade id
// space, so a bucket carries both counts side by side.
type BoulderBoardHistogramBucket struct {
	GradeLabel   string `json:"gradeLabel"`
	BoulderCount int    `json:"boulderCount"`
	BoardCount   int    `json:"boardCount"`
}

// GradeStats holds the per-grade performance numbers of one climb type.
type GradeStats struct {
	GradeID                int     `json:"gradeId"`
	GradeLabel             string  `json:"gradeLabel"`
	SuccessfulRoutes       int     `json:"successfulRoutes"`
	FailedRoutes           int     `json:"failedRoutes"`
	AttemptsWithSuccess    int     `json:"attemptsWithSuccess"`
	AttemptsWithoutSuccess int     `json:"attemptsWithoutSuccess"`
	SuccessRate            float64 `json:"successRate"`
	AvgAttemptsToSuccess   float64 `json:"avgAttemptsToSuccess"`
}

// TypeStats holds per-grade stats (hardest grade first) plus rollups
// computed from the flat per-type log list, so that rollups are not a
// second rounding pass over the per-grade table.
type TypeStats struct {
	Grades             []GradeStats `json:"grades"`
	TotalRoutes        int          `json:"totalRoutes"`
	TotalSuccesses     int          `json:"totalSuccesses"`
	TotalAttempts      int          `json:"totalAttempts"`
	OverallSuccessRate float64      `json:"overallSuccessRate"`
}

// PerformanceStats carries one entry per climb type. A type with no
// logs in the range is nil, not an empty struct - callers must handle
// the three-way nil.
type PerformanceStats struct {
	Boulder *TypeStats `json:"boulder"`
	Lead    *TypeStats `json:"lead"`
	Board   *TypeStats `json:"board"`
}

type Analyzer struct {
	repo climbsRepo
}

func NewAnalyzer(repo climbsRepo) *Analyzer {
	return &Analyzer{
		repo: repo,
	}
}

// LeadHistogram builds the per-grade ascent counts of lead climbs,
// sorted by natural grade label order. Climbs without a grade are
// skipped; grade ids without a definition get an empty label. A failing
// read degrades to an empty histogram, it is logged and never returned.
func (a *Analyzer) LeadHistogram(ctx context.Context, params ClimbParams) []LeadHistogramBucket {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.climbing.leadHistogram")
	defer span.End()

	leadType := TypeLead
	params.Type = &leadType
	climbs, err := a.repo.ListAll(ctx, params)
	if err != nil {
		log.Errorf("lead histogram: list climbs for user %d: %s", params.UserID, err)
		span.RecordError(err)
		return []LeadHistogramBucket{}
	}

	grade2count := make(map[int]int)
	for _, c := range climbs {
		if c.GradeID == nil {
			continue
		}
		grade2count[*c.GradeID]++
	}

	buckets := make([]LeadHistogramBucket, 0, len(grade2count))
	for gradeID, count := range grade2count {
		buckets = append(buckets, LeadHistogramBucket{
			GradeLabel: grades.LabelFor(grades.FamilyFrench, gradeID),
			Count:      count,
		})
	}

	sort.Slice(buckets, func(i, j int) bool {
		return grades.NaturalLess(buckets[i].GradeLabel, buckets[j].GradeLabel)
	})

	return buckets
}

// BoulderBoardHistogram builds the combined boulder/board histogram,
// keyed by the shared V-scale grade id, sorted by natural label order.
// A failing read degrades to an empty histogram.
func (a *Analyzer) BoulderBoardHistogram(ctx context.Context, params ClimbParams) []BoulderBoardHistogramBucket {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.climbing.boulderBoardHistogram")
	defer span.End()

	params.Type = nil
	climbs, err := a.repo.ListAll(ctx, params)
	if err != nil {
		log.Errorf("boulder/board histogram: list climbs for user %d: %s", params.UserID, err)
		span.RecordError(err)
		return []BoulderBoardHistogramBucket{}
	}

	type counts struct {
		boulder int
		board   int
	}
	grade2counts := make(map[int]*counts)
	for _, c := range climbs {
		if c.GradeID == nil {
			continue
		}
		if c.Type != TypeBoulder && c.Type != TypeBoard {
			continue
		}
		cnt, ok := grade2counts[*c.GradeID]
		if !ok {
			cnt = &counts{}
			grade2counts[*c.GradeID] = cnt
		}
		if c.Type == TypeBoulder {
			cnt.boulder++
		} else {
			cnt.board++
		}
	}

	buckets := make([]BoulderBoardHistogramBucket, 0, len(grade2counts))
	for gradeID, cnt := range grade2counts {
		buckets = append(buckets, BoulderBoardHistogramBucket{
			GradeLabel:   grades.LabelFor(grades.FamilyVScale, gradeID),
			BoulderCount: cnt.boulder,
			BoardCount:   cnt.board,
		})
	}

	sort.Slice(buckets, func(i, j int) bool {
		return grades.NaturalLess(buckets[i].GradeLabel, buckets[j].GradeLabel)
	})

	return buckets
}

// PerformanceStats computes per-type, per-grade success and attempt
// numbers for all climbs of a user matching the given params. A failing
// read degrades to a stats struct with all three types nil.
func (a *Analyzer) PerformanceStats(ctx context.Context, params ClimbParams) *PerformanceStats {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.climbing.performanceStats")
	defer span.End()
	span.SetAttributes(attribute.Int("user_id", params.UserID))

	params.Type = nil
	climbs, err := a.repo.ListAll(ctx, params)
	if err != nil {
		log.Errorf("performance stats: list climbs for user %d: %s", params.UserID, err)
		span.RecordError(err)
		return &PerformanceStats{}
	}

	type2climbs := make(map[ClimbType][]ClimbLog)
	for _, c := range climbs {
		type2climbs[c.Type] = append(type2climbs[c.Type], c)
	}

	return &PerformanceStats{
		Boulder: typeStats(type2climbs[TypeBoulder], grades.FamilyVScale),
		Lead:    typeStats(type2climbs[TypeLead], grades.FamilyFrench),
		Board:   typeStats(type2climbs[TypeBoard], grades.FamilyVScale),
	}
}

func typeStats(climbs []ClimbLog, family grades.Family) *TypeStats {
	if len(climbs) == 0 {
		return nil
	}

	grade2stats := make(map[int]*GradeStats)
	for _, c := range climbs {
		if c.GradeID == nil {
			continue
		}
		gs, ok := grade2stats[*c.GradeID]
		if !ok {
			gs = &GradeStats{
				GradeID:    *c.GradeID,
				GradeLabel: grades.LabelFor(family, *c.GradeID),
			}
			grade2stats[*c.GradeID] = gs
		}
		if c.Success {
			gs.SuccessfulRoutes++
			gs.AttemptsWithSuccess += c.AttemptsOrOne()
		} else {
			gs.FailedRoutes++
			gs.AttemptsWithoutSuccess += c.AttemptsOrOne()
		}
	}

	gradeStats := make([]GradeStats, 0, len(grade2stats))
	for _, gs := range grade2stats {
		if total := gs.SuccessfulRoutes + gs.FailedRoutes; total > 0 {
			gs.SuccessRate = float64(gs.SuccessfulRoutes) / float64(total) * 100
		}
		if gs.SuccessfulRoutes > 0 {
			gs.AvgAttemptsToSuccess = float64(gs.AttemptsWithSuccess) / float64(gs.SuccessfulRoutes)
		}
		gradeStats = append(gradeStats, *gs)
	}

	// hardest grade first
	sort.Slice(gradeStats, func(i, j int) bool {
		return gradeStats[i].GradeID > gradeStats[j].GradeID
	})

	// rollups come from the flat per-type list, not the per-grade table
	stats := &TypeStats{
		Grades:      gradeStats,
		TotalRoutes: len(climbs),
	}
	for _, c := range climbs {
		if c.Success {
			stats.TotalSuccesses++
		}
		stats.TotalAttempts += c.AttemptsOrOne()
	}
	if stats.TotalRoutes > 0 {
		stats.OverallSuccessRate = float64(stats.TotalSuccesses) / float64(stats.TotalRoutes) * 100
	}

	return stats
}
