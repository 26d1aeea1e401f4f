package climbing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cruxlog/cruxlog/internal/climbing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func intPtr(i int) *int {
	return &i
}

func randomClimb(climbType climbing.ClimbType, gradeID int, success bool, attempts int) climbing.ClimbLog {
	return climbing.ClimbLog{
		ID:        gofakeit.Number(1, 10000),
		UserID:    1,
		Type:      climbType,
		GradeID:   intPtr(gradeID),
		Attempts:  attempts,
		Success:   success,
		RouteName: gofakeit.Word(),
		CreatedAt: time.Now(),
	}
}

func TestAnalyzer_PerformanceStats(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	repoMock := NewMockclimbsRepo(ctrl)
	analyzer := climbing.NewAnalyzer(repoMock)

	// boulder V4 (grade id 5): one success in 3 attempts, one failure with 2
	climbs := []climbing.ClimbLog{
		randomClimb(climbing.TypeBoulder, 5, true, 3),
		randomClimb(climbing.TypeBoulder, 5, false, 2),
		randomClimb(climbing.TypeBoulder, 3, true, 1),
		randomClimb(climbing.TypeLead, 10, true, 2),
		randomClimb(climbing.TypeLead, 10, false, 1),
	}

	repoMock.
		EXPECT().
		ListAll(gomock.Any(), climbing.ClimbParams{UserID: 1}).
		Return(climbs, nil)

	stats := analyzer.PerformanceStats(ctx, climbing.ClimbParams{UserID: 1})
	require.NotNil(t, stats)

	require.NotNil(t, stats.Boulder)
	require.NotNil(t, stats.Lead)
	assert.Nil(t, stats.Board)

	require.Len(t, stats.Boulder.Grades, 2)
	// hardest grade first
	v4 := stats.Boulder.Grades[0]
	assert.Equal(t, 5, v4.GradeID)
	assert.Equal(t, "V4", v4.GradeLabel)
	assert.Equal(t, 1, v4.SuccessfulRoutes)
	assert.Equal(t, 1, v4.FailedRoutes)
	assert.Equal(t, 3, v4.AttemptsWithSuccess)
	assert.Equal(t, 2, v4.AttemptsWithoutSuccess)
	assert.InDelta(t, 50, v4.SuccessRate, 0.001)
	assert.InDelta(t, 3, v4.AvgAttemptsToSuccess, 0.001)

	v2 := stats.Boulder.Grades[1]
	assert.Equal(t, 3, v2.GradeID)
	assert.Equal(t, "V2", v2.GradeLabel)
	assert.InDelta(t, 100, v2.SuccessRate, 0.001)
	assert.InDelta(t, 1, v2.AvgAttemptsToSuccess, 0.001)

	assert.Equal(t, 3, stats.Boulder.TotalRoutes)
	assert.Equal(t, 2, stats.Boulder.TotalSuccesses)
	assert.Equal(t, 6, stats.Boulder.TotalAttempts)
	assert.InDelta(t, 66.666, stats.Boulder.OverallSuccessRate, 0.001)

	require.Len(t, stats.Lead.Grades, 1)
	assert.Equal(t, "6b+", stats.Lead.Grades[0].GradeLabel)
	assert.Equal(t, 2, stats.Lead.TotalRoutes)
	assert.InDelta(t, 50, stats.Lead.OverallSuccessRate, 0.001)
}

func TestAnalyzer_PerformanceStats_NoClimbs(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	repoMock := NewMockclimbsRepo(ctrl)
	analyzer := climbing.NewAnalyzer(repoMock)

	repoMock.
		EXPECT().
		ListAll(gomock.Any(), gomock.Any()).
		Return([]climbing.ClimbLog{}, nil)

	stats := analyzer.PerformanceStats(ctx, climbing.ClimbParams{UserID: 1})
	require.NotNil(t, stats)
	assert.Nil(t, stats.Boulder)
	assert.Nil(t, stats.Lead)
	assert.Nil(t, stats.Board)
}

func TestAnalyzer_PerformanceStats_GradeFailuresOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	repoMock := NewMockclimbsRepo(ctrl)
	analyzer := climbing.NewAnalyzer(repoMock)

	repoMock.
		EXPECT().
		ListAll(gomock.Any(), gomock.Any()).
		Return([]climbing.ClimbLog{
			randomClimb(climbing.TypeBoard, 7, false, 4),
			randomClimb(climbing.TypeBoard, 7, false, 2),
		}, nil)

	stats := analyzer.PerformanceStats(ctx, climbing.ClimbParams{UserID: 1})
	require.NotNil(t, stats.Board)
	require.Len(t, stats.Board.Grades, 1)

	v6 := stats.Board.Grades[0]
	assert.Equal(t, "V6", v6.GradeLabel)
	assert.Equal(t, 0, v6.SuccessfulRoutes)
	assert.Equal(t, 2, v6.FailedRoutes)
	assert.Equal(t, 6, v6.AttemptsWithoutSuccess)
	// no successes, both derived rates must stay zero
	assert.Zero(t, v6.SuccessRate)
	assert.Zero(t, v6.AvgAttemptsToSuccess)
	assert.Zero(t, stats.Board.OverallSuccessRate)
}

func TestAnalyzer_PerformanceStats_BoulderBoardIsolation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	repoMock := NewMockclimbsRepo(ctrl)
	analyzer := climbing.NewAnalyzer(repoMock)

	repoMock.
		EXPECT().
		ListAll(gomock.Any(), gomock.Any()).
		Return([]climbing.ClimbLog{
			randomClimb(climbing.TypeBoulder, 5, true, 1),
			randomClimb(climbing.TypeBoard, 5, true, 1),
		}, nil)

	stats := analyzer.PerformanceStats(ctx, climbing.ClimbParams{UserID: 1})
	require.NotNil(t, stats.Boulder)
	require.NotNil(t, stats.Board)
	assert.Equal(t, 1, stats.Boulder.TotalRoutes)
	assert.Equal(t, 1, stats.Board.TotalRoutes)
}

func TestAnalyzer_LeadHistogram(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	repoMock := NewMockclimbsRepo(ctrl)
	analyzer := climbing.NewAnalyzer(repoMock)

	leadType := climbing.TypeLead
	noGrade := randomClimb(climbing.TypeLead, 0, true, 1)
	noGrade.GradeID = nil

	repoMock.
		EXPECT().
		ListAll(gomock.Any(), climbing.ClimbParams{UserID: 1, Type: &leadType}).
		Return([]climbing.ClimbLog{
			randomClimb(climbing.TypeLead, 12, true, 1),
			randomClimb(climbing.TypeLead, 12, false, 2),
			randomClimb(climbing.TypeLead, 8, true, 1),
			noGrade,
		}, nil)

	histogram := analyzer.LeadHistogram(ctx, climbing.ClimbParams{UserID: 1})
	require.Len(t, histogram, 2)

	// natural label order, easiest first
	assert.Equal(t, "6a+", histogram[0].GradeLabel)
	assert.Equal(t, 1, histogram[0].Count)
	assert.Equal(t, "6c+", histogram[1].GradeLabel)
	assert.Equal(t, 2, histogram[1].Count)
}

func TestAnalyzer_BoulderBoardHistogram(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	repoMock := NewMockclimbsRepo(ctrl)
	analyzer := climbing.NewAnalyzer(repoMock)

	repoMock.
		EXPECT().
		ListAll(gomock.Any(), climbing.ClimbParams{UserID: 1}).
		Return([]climbing.ClimbLog{
			randomClimb(climbing.TypeBoulder, 5, true, 1),
			randomClimb(climbing.TypeBoulder, 5, false, 2),
			randomClimb(climbing.TypeBoard, 5, true, 1),
			randomClimb(climbing.TypeBoard, 11, true, 1),
			// lead climbs never leak into the boulder/board histogram
			randomClimb(climbing.TypeLead, 5, true, 1),
		}, nil)

	histogram := analyzer.BoulderBoardHistogram(ctx, climbing.ClimbParams{UserID: 1})
	require.Len(t, histogram, 2)

	assert.Equal(t, "V4", histogram[0].GradeLabel)
	assert.Equal(t, 2, histogram[0].BoulderCount)
	assert.Equal(t, 1, histogram[0].BoardCount)

	assert.Equal(t, "V10", histogram[1].GradeLabel)
	assert.Equal(t, 0, histogram[1].BoulderCount)
	assert.Equal(t, 1, histogram[1].BoardCount)
}

func TestAnalyzer_PerformanceStats_RepoFailureDegrades(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	repoMock := NewMockclimbsRepo(ctrl)
	analyzer := climbing.NewAnalyzer(repoMock)

	repoMock.
		EXPECT().
		ListAll(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("connection reset"))

	stats := analyzer.PerformanceStats(ctx, climbing.ClimbParams{UserID: 1})
	require.NotNil(t, stats)
	assert.Nil(t, stats.Boulder)
	assert.Nil(t, stats.Lead)
	assert.Nil(t, stats.Board)
}

func TestAnalyzer_Histograms_RepoFailureDegrade(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	repoMock := NewMockclimbsRepo(ctrl)
	analyzer := climbing.NewAnalyzer(repoMock)

	repoMock.
		EXPECT().
		ListAll(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("connection reset")).
		Times(2)

	leadHistogram := analyzer.LeadHistogram(ctx, climbing.ClimbParams{UserID: 1})
	require.NotNil(t, leadHistogram)
	assert.Empty(t, leadHistogram)

	boulderBoardHistogram := analyzer.BoulderBoardHistogram(ctx, climbing.ClimbParams{UserID: 1})
	require.NotNil(t, boulderBoardHistogram)
	assert.Empty(t, boulderBoardHistogram)
}
