package climbing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cruxlog/cruxlog/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrClimbNotFound = errors.New("climb not found")

type ClimbParams struct {
	UserID  int
	Type    *ClimbType
	GradeID *int
	From    *time.Time
	To      *time.Time
}

type ListParams struct {
	ClimbParams
	Page int
	Size int
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, climb ClimbLog) (_ *ClimbLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.climbing.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO climb_log
				(user_id, climb_type, grade_id, attempts, success, route_name, notes, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id;`,
		climb.UserID, climb.Type, climb.GradeID, climb.Attempts,
		climb.Success, climb.RouteName, climb.Notes, climb.CreatedAt,
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

	span.SetAttributes(attribute.Int("climb.id", id))

	climb.ID = id
	return &climb, nil
}

func (r *Repo) Update(ctx context.Context, climb *ClimbLog) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.climbing.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", climb.ID))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE climb_log
			SET climb_type = $1, grade_id = $2, attempts = $3, success = $4, route_name = $5, notes = $6, created_at = $7
			WHERE id = $8 AND user_id = $9;`,
		climb.Type, climb.GradeID, climb.Attempts, climb.Success,
		climb.RouteName, climb.Notes, climb.CreatedAt,
		climb.ID, climb.UserID,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrClimbNotFound
	}

	return nil
}

func (r *Repo) Delete(ctx context.Context, userID, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.climbing.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM climb_log WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrClimbNotFound
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, userID, id int) (_ *ClimbLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.climbing.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT id, user_id, climb_type, grade_id, attempts, success, route_name, notes, created_at
			FROM climb_log
			WHERE id = $1 AND user_id = $2;`,
		id, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	climbs, err := r.rows2climbs(rows)
	if err != nil {
		return nil, err
	}

	if len(climbs) != 1 {
		return nil, ErrClimbNotFound
	}

	return &climbs[0], nil
}

// ListAll returns all climb logs of a user matching the given filters,
// newest first.
func (r *Repo) ListAll(ctx context.Context, params ClimbParams) (_ []ClimbLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.climbing.listall")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user_id", params.UserID))
	if params.Type != nil {
		span.SetAttributes(attribute.String("climb_type", params.Type.String()))
	}
	if params.From != nil {
		span.SetAttributes(attribute.String("from", params.From.String()))
	}
	if params.To != nil {
		span.SetAttributes(attribute.String("to", params.To.String()))
	}

	rows, err := r.db.Query(
		ctx,
		`
			SELECT id, user_id, climb_type, grade_id, attempts, success, route_name, notes, created_at
			FROM climb_log
				WHERE user_id = $1
				AND ($2::text IS NULL OR climb_type = $2)
				AND ($3::int IS NULL OR grade_id = $3)
				AND ($4::timestamptz IS NULL OR created_at >= $4)
				AND ($5::timestamptz IS NULL OR created_at <= $5)
			ORDER BY created_at DESC;`,
		params.UserID, params.Type, params.GradeID,
		params.From, params.To,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	climbs, err := r.rows2climbs(rows)
	if err != nil {
		return nil, fmt.Errorf("rows2climbs: %w", err)
	}
	return climbs, nil
}

// List is like ListAll, but returns the specific PAGE of climb logs,
// i.e. is used for pagination.
func (r *Repo) List(ctx context.Context, params ListParams) (_ []ClimbLog, total int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.climbing.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("page", params.Page))
	span.SetAttributes(attribute.Int("size", params.Size))
	span.SetAttributes(attribute.Int("user_id", params.UserID))

	if params.Page < 1 {
		return nil, -1, errors.New("page must be greater than 0")
	}
	if params.Size < 1 {
		return nil, -1, errors.New("size must be greater than 0")
	}

	limit := params.Size
	offset := (params.Page - 1) * params.Size
	countAll, err := r.Count(ctx, params.ClimbParams)
	if err != nil {
		return nil, -1, err
	}

	if countAll <= limit {
		limit = countAll
		offset = 0
	}

	if countAll-offset < limit {
		offset = countAll - limit
	}

	span.SetAttributes(attribute.Int("count_all", countAll))
	span.SetAttributes(attribute.Int("limit", limit))
	span.SetAttributes(attribute.Int("offset", offset))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT id, user_id, climb_type, grade_id, attempts, success, route_name, notes, created_at
			FROM climb_log
				WHERE user_id = $1
				AND ($2::text IS NULL OR climb_type = $2)
				AND ($3::int IS NULL OR grade_id = $3)
				AND ($4::timestamptz IS NULL OR created_at >= $4)
				AND ($5::timestamptz IS NULL OR created_at <= $5)
			ORDER BY created_at DESC
			LIMIT $6
			OFFSET $7;`,
		params.UserID, params.Type, params.GradeID,
		params.From, params.To,
		limit, offset,
	)
	if err != nil {
		return nil, -1, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, -1, err
	}

	climbs, err := r.rows2climbs(rows)
	if err != nil {
		return nil, -1, err
	}
	return climbs, countAll, nil
}

func (r *Repo) Count(ctx context.Context, params ClimbParams) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.climbing.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `
		SELECT COUNT(*) FROM climb_log
			WHERE user_id = $1
			AND ($2::text IS NULL OR climb_type = $2)
			AND ($3::int IS NULL OR grade_id = $3)
			AND ($4::timestamptz IS NULL OR created_at >= $4)
			AND ($5::timestamptz IS NULL OR created_at <= $5);
	`,
		params.UserID, params.Type, params.GradeID,
		params.From, params.To,
	)
	if err != nil {
		return -1, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return -1, err
	}

	if rows.Next() {
		var count int
		if err := rows.Scan(&count); err == nil {
			return count, nil
		}
	}

	return -1, errors.New("unexpected error, failed to get climbs count")
}

func (r *Repo) rows2climbs(rows pgx.Rows) ([]ClimbLog, error) {
	var climbs []ClimbLog
	for rows.Next() {
		var c ClimbLog
		if err := rows.Scan(
			&c.ID, &c.UserID, &c.Type, &c.GradeID,
			&c.Attempts, &c.Success, &c.RouteName, &c.Notes, &c.CreatedAt,
		); err != nil {
			return nil, err
		}
		climbs = append(climbs, c)
	}

	if climbs == nil {
		climbs = make([]ClimbLog, 0)
	}

	return climbs, nil
}
