package goals_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cruxlog/cruxlog/internal/climbing"
	"github.com/cruxlog/cruxlog/internal/goals"

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

func successfulClimb(climbType climbing.ClimbType, gradeID int, createdAt time.Time) climbing.ClimbLog {
	return climbing.ClimbLog{
		UserID:    1,
		Type:      climbType,
		GradeID:   intPtr(gradeID),
		Attempts:  1,
		Success:   true,
		CreatedAt: createdAt,
	}
}

func TestQuarterWindow(t *testing.T) {
	testCases := []struct {
		quarter  int
		fromDate string
		toDate   string
	}{
		{1, "2025-01-01", "2025-03-31"},
		{2, "2025-04-01", "2025-06-30"},
		{3, "2025-07-01", "2025-09-30"},
		{4, "2025-10-01", "2025-12-31"},
	}
	for _, tc := range testCases {
		from, to, ok := goals.QuarterWindow(2025, tc.quarter)
		require.True(t, ok)
		assert.Equal(t, tc.fromDate, from.Format("2006-01-02"))
		assert.Equal(t, tc.toDate, to.Format("2006-01-02"))
		assert.Equal(t, "23:59:59", to.Format("15:04:05"))
	}

	_, _, ok := goals.QuarterWindow(2025, 5)
	assert.False(t, ok)
	_, _, ok = goals.QuarterWindow(2025, 0)
	assert.False(t, ok)
}

func TestCalculator_BoulderProgress(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	goalsRepoMock := NewMockgoalsRepo(ctrl)
	climbsMock := NewMockclimbsLister(ctrl)
	calculator := goals.NewCalculator(goalsRepoMock, climbsMock)

	boulderType := climbing.TypeBoulder
	goalsRepoMock.
		EXPECT().
		Get(gomock.Any(), 1, 2025, 2, climbing.TypeBoulder).
		Return(&goals.QuarterlyGoal{
			UserID:  1,
			Year:    2025,
			Quarter: 2,
			Type:    climbing.TypeBoulder,
			Targets: map[int]int{
				6: 10, // V5
				4: 0,  // zero target, must be omitted
				2: 3,  // V1
			},
		}, nil)

	inQuarter := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)
	climbsMock.
		EXPECT().
		ListAll(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, params climbing.ClimbParams) ([]climbing.ClimbLog, error) {
			assert.Equal(t, &boulderType, params.Type)
			require.NotNil(t, params.From)
			require.NotNil(t, params.To)
			assert.Equal(t, "2025-04-01", params.From.Format("2006-01-02"))
			assert.Equal(t, "2025-06-30", params.To.Format("2006-01-02"))

			failedClimb := successfulClimb(climbing.TypeBoulder, 6, inQuarter)
			failedClimb.Success = false
			return []climbing.ClimbLog{
				successfulClimb(climbing.TypeBoulder, 6, inQuarter),
				successfulClimb(climbing.TypeBoulder, 6, inQuarter),
				successfulClimb(climbing.TypeBoulder, 6, inQuarter),
				successfulClimb(climbing.TypeBoulder, 6, inQuarter),
				failedClimb, // failures never count
				successfulClimb(climbing.TypeBoulder, 2, inQuarter),
			}, nil
		})

	progress := calculator.BoulderProgress(ctx, 1, 2025, 2)
	require.Len(t, progress, 2)

	// hardest grade first, zero-target V3 omitted
	v5 := progress[0]
	assert.Equal(t, 6, v5.GradeID)
	assert.Equal(t, "V5", v5.GradeLabel)
	assert.Equal(t, 10, v5.Target)
	assert.Equal(t, 4, v5.Actual)
	assert.Equal(t, 6, v5.Remaining)
	assert.Equal(t, 40, v5.Percentage)

	v1 := progress[1]
	assert.Equal(t, 2, v1.GradeID)
	assert.Equal(t, 1, v1.Actual)
	assert.Equal(t, 2, v1.Remaining)
	assert.Equal(t, 33, v1.Percentage)
}

func TestCalculator_Progress_OverAchieved(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	goalsRepoMock := NewMockgoalsRepo(ctrl)
	climbsMock := NewMockclimbsLister(ctrl)
	calculator := goals.NewCalculator(goalsRepoMock, climbsMock)

	goalsRepoMock.
		EXPECT().
		Get(gomock.Any(), 1, 2025, 1, climbing.TypeBoard).
		Return(&goals.QuarterlyGoal{
			UserID:  1,
			Type:    climbing.TypeBoard,
			Targets: map[int]int{5: 2},
		}, nil)

	inQuarter := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)
	climbsMock.
		EXPECT().
		ListAll(gomock.Any(), gomock.Any()).
		Return([]climbing.ClimbLog{
			successfulClimb(climbing.TypeBoard, 5, inQuarter),
			successfulClimb(climbing.TypeBoard, 5, inQuarter),
			successfulClimb(climbing.TypeBoard, 5, inQuarter),
		}, nil)

	progress := calculator.BoardProgress(ctx, 1, 2025, 1)
	require.Len(t, progress, 1)
	assert.Equal(t, 3, progress[0].Actual)
	// remaining is clamped at zero, percentage is not
	assert.Equal(t, 0, progress[0].Remaining)
	assert.Equal(t, 150, progress[0].Percentage)
}

func TestCalculator_LeadProgress_GradeFloor(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	goalsRepoMock := NewMockgoalsRepo(ctrl)
	climbsMock := NewMockclimbsLister(ctrl)
	calculator := goals.NewCalculator(goalsRepoMock, climbsMock)

	goalsRepoMock.
		EXPECT().
		Get(gomock.Any(), 1, 2025, 3, climbing.TypeLead).
		Return(&goals.QuarterlyGoal{
			UserID: 1,
			Type:   climbing.TypeLead,
			Targets: map[int]int{
				10: 5, // 6b+
				8:  2, // 6a+, the floor itself is included
				5:  4, // 5b, below the floor, must be dropped
			},
		}, nil)

	inQuarter := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	climbsMock.
		EXPECT().
		ListAll(gomock.Any(), gomock.Any()).
		Return([]climbing.ClimbLog{
			successfulClimb(climbing.TypeLead, 8, inQuarter),
			successfulClimb(climbing.TypeLead, 5, inQuarter),
		}, nil)

	progress := calculator.LeadProgress(ctx, 1, 2025, 3)
	require.Len(t, progress, 2)
	assert.Equal(t, 10, progress[0].GradeID)
	assert.Equal(t, "6b+", progress[0].GradeLabel)
	assert.Equal(t, 8, progress[1].GradeID)
	assert.Equal(t, "6a+", progress[1].GradeLabel)
	assert.Equal(t, 1, progress[1].Actual)
}

func TestCalculator_Progress_TypeIsolation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	goalsRepoMock := NewMockgoalsRepo(ctrl)
	climbsMock := NewMockclimbsLister(ctrl)
	calculator := goals.NewCalculator(goalsRepoMock, climbsMock)

	boulderType := climbing.TypeBoulder
	goalsRepoMock.
		EXPECT().
		Get(gomock.Any(), 1, 2025, 1, climbing.TypeBoulder).
		Return(&goals.QuarterlyGoal{
			UserID:  1,
			Type:    climbing.TypeBoulder,
			Targets: map[int]int{5: 3},
		}, nil)

	// the climbs read is already type-filtered, the calculator asks
	// for boulder climbs only
	climbsMock.
		EXPECT().
		ListAll(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, params climbing.ClimbParams) ([]climbing.ClimbLog, error) {
			require.NotNil(t, params.Type)
			assert.Equal(t, boulderType, *params.Type)
			return []climbing.ClimbLog{}, nil
		})

	progress := calculator.BoulderProgress(ctx, 1, 2025, 1)
	require.Len(t, progress, 1)
	assert.Equal(t, 0, progress[0].Actual)
	assert.Equal(t, 3, progress[0].Remaining)
	assert.Equal(t, 0, progress[0].Percentage)
}

func TestCalculator_Progress_Degradation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	goalsRepoMock := NewMockgoalsRepo(ctrl)
	climbsMock := NewMockclimbsLister(ctrl)
	calculator := goals.NewCalculator(goalsRepoMock, climbsMock)

	// no goal row
	goalsRepoMock.
		EXPECT().
		Get(gomock.Any(), 1, 2025, 1, climbing.TypeBoulder).
		Return(nil, goals.ErrGoalNotFound)
	progress := calculator.BoulderProgress(ctx, 1, 2025, 1)
	assert.Empty(t, progress)
	assert.NotNil(t, progress)

	// failing goal read
	goalsRepoMock.
		EXPECT().
		Get(gomock.Any(), 1, 2025, 1, climbing.TypeBoulder).
		Return(nil, errors.New("connection reset"))
	progress = calculator.BoulderProgress(ctx, 1, 2025, 1)
	assert.Empty(t, progress)

	// failing climbs read
	goalsRepoMock.
		EXPECT().
		Get(gomock.Any(), 1, 2025, 1, climbing.TypeBoulder).
		Return(&goals.QuarterlyGoal{UserID: 1, Targets: map[int]int{5: 3}}, nil)
	climbsMock.
		EXPECT().
		ListAll(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("connection reset"))
	progress = calculator.BoulderProgress(ctx, 1, 2025, 1)
	assert.Empty(t, progress)
}
