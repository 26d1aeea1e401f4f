package wellness

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cruxlog/cruxlog/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/codes"
)

var ErrReportNotFound = errors.New("report not found")

type ReportParams struct {
	UserID int
	Type   *ReportType
	From   *time.Time
	To     *time.Time
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, report Report) (_ *Report, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.wellness.add")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = tx.QueryRow(ctx, `
		INSERT INTO wellness_report (user_id, type, data, timestamp)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`,
		report.UserID,
		report.Type,
		report.Data,
		report.Timestamp,
	).Scan(&report.ID)
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *Repo) Get(ctx context.Context, userID, id int) (_ *Report, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.wellness.get")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var report Report
	err = r.db.QueryRow(ctx, `
		SELECT id, user_id, type, data, timestamp
		FROM wellness_report
		WHERE id = $1 AND user_id = $2
	`, id, userID).Scan(
		&report.ID, &report.UserID, &report.Type, &report.Data, &report.Timestamp,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return &report, nil
}

func (r *Repo) List(ctx context.Context, params ReportParams) (_ []Report, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.wellness.list")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, type, data, timestamp
		FROM wellness_report
			WHERE user_id = $1
			AND ($2::text IS NULL OR type = $2)
			AND ($3::timestamptz IS NULL OR timestamp >= $3)
			AND ($4::timestamptz IS NULL OR timestamp <= $4)
		ORDER BY timestamp DESC
	`, params.UserID, params.Type, params.From, params.To)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	var reports []Report
	for rows.Next() {
		var report Report
		err := rows.Scan(
			&report.ID, &report.UserID, &report.Type, &report.Data, &report.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		reports = append(reports, report)
	}

	return reports, nil
}

func (r *Repo) Delete(ctx context.Context, userID, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.wellness.delete")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM wellness_report WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrReportNotFound
	}
	return nil
}
