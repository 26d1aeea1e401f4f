package wellness

import (
	"context"
	"fmt"

	"github.com/cruxlog/cruxlog/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/codes"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=wellness_test

type reportsRepo interface {
	Add(ctx context.Context, report Report) (*Report, error)
	Get(ctx context.Context, userID, id int) (*Report, error)
	List(ctx context.Context, params ReportParams) ([]Report, error)
	Delete(ctx context.Context, userID, id int) error
}

type Service struct {
	repo reportsRepo
}

func NewService(repo reportsRepo) *Service {
	return &Service{
		repo: repo,
	}
}

func (s *Service) AddSleepReport(ctx context.Context, sr SleepReport) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.wellness.add.sleep")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	report, err := s.repo.Add(ctx, NewSleepReport(sr))
	if err != nil {
		return 0, fmt.Errorf("add sleep report: %w", err)
	}
	return report.ID, nil
}

func (s *Service) AddSorenessReport(ctx context.Context, sr SorenessReport) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.wellness.add.soreness")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	report, err := s.repo.Add(ctx, NewSorenessReport(sr))
	if err != nil {
		return 0, fmt.Errorf("add soreness report: %w", err)
	}
	return report.ID, nil
}

func (s *Service) AddWeightReport(ctx context.Context, wr WeightReport) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.wellness.add.weight")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	report, err := s.repo.Add(ctx, NewWeightReport(wr))
	if err != nil {
		return 0, fmt.Errorf("add weight report: %w", err)
	}
	return report.ID, nil
}

func (s *Service) List(ctx context.Context, params ReportParams) (_ []Report, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.wellness.list")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	reports, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}

func (s *Service) Delete(ctx context.Context, userID, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.wellness.delete")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	return nil
}
