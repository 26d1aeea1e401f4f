package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cruxlog/cruxlog/internal/telemetry/tracing"
	"github.com/cruxlog/cruxlog/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrUnknownWorkout  = errors.New("unknown workout")
)

type SessionParams struct {
	UserID    int
	WorkoutID *int
	From      *time.Time
	To        *time.Time
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, session Session) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.calendar.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO calendar_session
				(user_id, workout_id, starts_at, completed, rpe, deload, deload_percentage)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id;`,
		session.UserID, session.WorkoutID, session.StartsAt,
		session.Completed, session.RPE, session.Deload, session.DeloadPercentage,
	)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return nil, ErrUnknownWorkout
		}
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

	span.SetAttributes(attribute.Int("session.id", id))

	session.ID = id
	return &session, nil
}

func (r *Repo) Update(ctx context.Context, session *Session) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.calendar.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", session.ID))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE calendar_session
			SET workout_id = $1, starts_at = $2, completed = $3, rpe = $4, deload = $5, deload_percentage = $6
			WHERE id = $7 AND user_id = $8;`,
		session.WorkoutID, session.StartsAt, session.Completed,
		session.RPE, session.Deload, session.DeloadPercentage,
		session.ID, session.UserID,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}

	return nil
}

func (r *Repo) Delete(ctx context.Context, userID, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.calendar.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM calendar_session WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, userID, id int) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.calendar.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT id, user_id, workout_id, starts_at, completed, rpe, deload, deload_percentage
			FROM calendar_session
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

	sessions, err := r.rows2sessions(rows)
	if err != nil {
		return nil, err
	}

	if len(sessions) != 1 {
		return nil, ErrSessionNotFound
	}

	return &sessions[0], nil
}

// ListAll returns all sessions of a user matching the given filters,
// soonest first.
func (r *Repo) ListAll(ctx context.Context, params SessionParams) (_ []Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.calendar.listall")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user_id", params.UserID))
	if params.From != nil {
		span.SetAttributes(attribute.String("from", params.From.String()))
	}
	if params.To != nil {
		span.SetAttributes(attribute.String("to", params.To.String()))
	}

	rows, err := r.db.Query(
		ctx,
		`
			SELECT id, user_id, workout_id, starts_at, completed, rpe, deload, deload_percentage
			FROM calendar_session
				WHERE user_id = $1
				AND ($2::int IS NULL OR workout_id = $2)
				AND ($3::timestamptz IS NULL OR starts_at >= $3)
				AND ($4::timestamptz IS NULL OR starts_at <= $4)
			ORDER BY starts_at ASC;`,
		params.UserID, params.WorkoutID, params.From, params.To,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	sessions, err := r.rows2sessions(rows)
	if err != nil {
		return nil, fmt.Errorf("rows2sessions: %w", err)
	}
	return sessions, nil
}

// ApplyDeload marks every session of a user whose start time falls in
// [startOfDay(from), endOfDay(to)] as a deload session with the given
// percentage. The percentage is persisted as given, the handler is the
// one validating the range. Last write wins on overlapping ranges.
func (r *Repo) ApplyDeload(ctx context.Context, userID int, from, to time.Time, percentage int) (updated int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.calendar.applyDeload")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user_id", userID))
	span.SetAttributes(attribute.Int("percentage", percentage))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE calendar_session
			SET deload = TRUE, deload_percentage = $1
			WHERE user_id = $2 AND starts_at >= $3 AND starts_at <= $4;`,
		percentage, userID, pkg.StartOfDay(from), pkg.EndOfDay(to),
	)
	if err != nil {
		return 0, err
	}

	span.SetAttributes(attribute.Int("updated", int(tag.RowsAffected())))
	return int(tag.RowsAffected()), nil
}

// ClearDeload resets the deload flag and percentage on every session of
// a user whose start time falls in [startOfDay(from), endOfDay(to)].
func (r *Repo) ClearDeload(ctx context.Context, userID int, from, to time.Time) (updated int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.calendar.clearDeload")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user_id", userID))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE calendar_session
			SET deload = FALSE, deload_percentage = NULL
			WHERE user_id = $1 AND starts_at >= $2 AND starts_at <= $3;`,
		userID, pkg.StartOfDay(from), pkg.EndOfDay(to),
	)
	if err != nil {
		return 0, err
	}

	span.SetAttributes(attribute.Int("updated", int(tag.RowsAffected())))
	return int(tag.RowsAffected()), nil
}

func (r *Repo) rows2sessions(rows pgx.Rows) ([]Session, error) {
	var sessions []Session
	for rows.Next() {
		var s Session
		var rpe *int
		var deloadPercentage *int
		err := rows.Scan(
			&s.ID, &s.UserID, &s.WorkoutID, &s.StartsAt,
			&s.Completed, &rpe, &s.Deload, &deloadPercentage,
		)
		if err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		s.RPE = rpe
		s.DeloadPercentage = deloadPercentage
		sessions = append(sessions, s)
	}
	return sessions, nil
}
