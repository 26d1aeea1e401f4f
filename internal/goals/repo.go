package goals

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cruxlog/cruxlog/internal/climbing"
	"github.com/cruxlog/cruxlog/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrGoalNotFound = errors.New("goal not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// Set creates or replaces the goal row of (user, year, quarter, type).
// Last write wins.
func (r *Repo) Set(ctx context.Context, goal QuarterlyGoal) (_ *QuarterlyGoal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.goals.set")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user_id", goal.UserID))
	span.SetAttributes(attribute.Int("year", goal.Year))
	span.SetAttributes(attribute.Int("quarter", goal.Quarter))

	targetsJson, err := json.Marshal(goal.Targets)
	if err != nil {
		return nil, fmt.Errorf("marshal targets: %w", err)
	}

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO quarterly_goal
				(user_id, year, quarter, climb_type, targets, created_at)
				VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (user_id, year, quarter, climb_type)
				DO UPDATE SET targets = EXCLUDED.targets
			RETURNING id;`,
		goal.UserID, goal.Year, goal.Quarter, goal.Type, targetsJson, goal.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !rows.Next() {
		return nil, errors.New("unexpected error [no rows next]")
	}

	var id int
	if err := rows.Scan(&id); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}

	goal.ID = id
	return &goal, nil
}

func (r *Repo) Get(ctx context.Context, userID, year, quarter int, climbType climbing.ClimbType) (_ *QuarterlyGoal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.goals.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user_id", userID))
	span.SetAttributes(attribute.Int("year", year))
	span.SetAttributes(attribute.Int("quarter", quarter))
	span.SetAttributes(attribute.String("climb_type", climbType.String()))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT id, user_id, year, quarter, climb_type, targets, created_at
			FROM quarterly_goal
			WHERE user_id = $1 AND year = $2 AND quarter = $3 AND climb_type = $4;`,
		userID, year, quarter, climbType,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !rows.Next() {
		return nil, ErrGoalNotFound
	}

	var goal QuarterlyGoal
	var targetsJson []byte
	err = rows.Scan(
		&goal.ID, &goal.UserID, &goal.Year, &goal.Quarter,
		&goal.Type, &targetsJson, &goal.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}
	if err := json.Unmarshal(targetsJson, &goal.Targets); err != nil {
		return nil, fmt.Errorf("unmarshal targets: %w", err)
	}

	return &goal, nil
}

func (r *Repo) Delete(ctx context.Context, userID, year, quarter int, climbType climbing.ClimbType) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.goals.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user_id", userID))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM quarterly_goal
			WHERE user_id = $1 AND year = $2 AND quarter = $3 AND climb_type = $4;`,
		userID, year, quarter, climbType,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrGoalNotFound
	}
	return nil
}
