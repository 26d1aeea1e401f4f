package wellness

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/cruxlog/cruxlog/internal/middleware"
	"github.com/cruxlog/cruxlog/internal/telemetry/metrics"
	"github.com/cruxlog/cruxlog/internal/telemetry/tracing"
	"github.com/cruxlog/cruxlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service        *Service
	metricsManager *metrics.Manager
}

func NewHandler(service *Service, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		service:        service,
		metricsManager: metricsManager,
	}
}

func (h *Handler) HandleAddSleepReport(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.wellness.new.sleep")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var sleepReport SleepReport
	if err := json.NewDecoder(r.Body).Decode(&sleepReport); err != nil {
		log.Errorf("new sleep report, unmarshal json params: %s", err)
		http.Error(w, "add sleep report failed", http.StatusBadRequest)
		return
	}

	if sleepReport.Hours <= 0 || sleepReport.Hours > 24 {
		http.Error(w, "error, hours must be in (0, 24]", http.StatusBadRequest)
		return
	}
	if sleepReport.Quality < 1 || sleepReport.Quality > 5 {
		http.Error(w, "error, quality must be in [1, 5]", http.StatusBadRequest)
		return
	}

	sleepReport.UserID = userID
	if sleepReport.Timestamp.IsZero() {
		sleepReport.Timestamp = time.Now()
	}

	id, err := h.service.AddSleepReport(ctx, sleepReport)
	if err != nil {
		log.Errorf("new sleep report: %s", err)
		http.Error(w, "add sleep report failed", http.StatusInternalServerError)
		return
	}
	sleepReport.ID = id

	if h.metricsManager != nil {
		h.metricsManager.CounterWellnessReports.Inc()
	}

	sleepReportJson, err := json.Marshal(sleepReport)
	if err != nil {
		log.Errorf("failed to marshal new sleep report: %s", err)
		http.Error(w, "error, failed to add new sleep report", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, sleepReportJson, http.StatusCreated)
}

func (h *Handler) HandleAddSorenessReport(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.wellness.new.soreness")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var sorenessReport SorenessReport
	if err := json.NewDecoder(r.Body).Decode(&sorenessReport); err != nil {
		log.Errorf("new soreness report, unmarshal json params: %s", err)
		http.Error(w, "add soreness report failed", http.StatusBadRequest)
		return
	}

	if sorenessReport.Level < 1 || sorenessReport.Level > 10 {
		http.Error(w, "error, level must be in [1, 10]", http.StatusBadRequest)
		return
	}
	if sorenessReport.Location == "" {
		http.Error(w, "error, location empty", http.StatusBadRequest)
		return
	}

	sorenessReport.UserID = userID
	if sorenessReport.Timestamp.IsZero() {
		sorenessReport.Timestamp = time.Now()
	}

	id, err := h.service.AddSorenessReport(ctx, sorenessReport)
	if err != nil {
		log.Errorf("new soreness report: %s", err)
		http.Error(w, "add soreness report failed", http.StatusInternalServerError)
		return
	}
	sorenessReport.ID = id

	if h.metricsManager != nil {
		h.metricsManager.CounterWellnessReports.Inc()
	}

	sorenessReportJson, err := json.Marshal(sorenessReport)
	if err != nil {
		log.Errorf("failed to marshal new soreness report: %s", err)
		http.Error(w, "error, failed to add new soreness report", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, sorenessReportJson, http.StatusCreated)
}

func (h *Handler) HandleAddWeightReport(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.wellness.new.weight")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var weightReport WeightReport
	if err := json.NewDecoder(r.Body).Decode(&weightReport); err != nil {
		log.Errorf("new weight report, unmarshal json params: %s", err)
		http.Error(w, "add weight report failed", http.StatusBadRequest)
		return
	}

	if weightReport.Weight <= 0 {
		http.Error(w, "error, weight must be positive", http.StatusBadRequest)
		return
	}

	weightReport.UserID = userID
	if weightReport.Timestamp.IsZero() {
		weightReport.Timestamp = time.Now()
	}

	id, err := h.service.AddWeightReport(ctx, weightReport)
	if err != nil {
		log.Errorf("new weight report: %s", err)
		http.Error(w, "add weight report failed", http.StatusInternalServerError)
		return
	}
	weightReport.ID = id

	if h.metricsManager != nil {
		h.metricsManager.CounterWellnessReports.Inc()
	}

	weightReportJson, err := json.Marshal(weightReport)
	if err != nil {
		log.Errorf("failed to marshal new weight report: %s", err)
		http.Error(w, "error, failed to add new weight report", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, weightReportJson, http.StatusCreated)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.wellness.list")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	params := ReportParams{UserID: userID}
	if typeStr := r.URL.Query().Get("type"); typeStr != "" {
		reportType := ReportType(typeStr)
		if !reportType.IsValid() {
			http.Error(w, "error, invalid report type", http.StatusBadRequest)
			return
		}
		params.Type = &reportType
	}
	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		from, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			http.Error(w, "parse form error, parameter <from>", http.StatusBadRequest)
			return
		}
		from = pkg.StartOfDay(from)
		params.From = &from
	}
	if toStr := r.URL.Query().Get("to"); toStr != "" {
		to, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			http.Error(w, "parse form error, parameter <to>", http.StatusBadRequest)
			return
		}
		to = pkg.EndOfDay(to)
		params.To = &to
	}

	reports, err := h.service.List(ctx, params)
	if err != nil {
		log.Errorf("list wellness reports: %s", err)
		http.Error(w, "failed to get reports", http.StatusInternalServerError)
		return
	}
	if reports == nil {
		reports = []Report{}
	}

	reportsJson, err := json.Marshal(reports)
	if err != nil {
		log.Errorf("marshal wellness reports: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, reportsJson, http.StatusOK)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.wellness.delete")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	if err := h.service.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, ErrReportNotFound) {
			http.Error(w, "report not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete report %d: %s", id, err)
		http.Error(w, "report not deleted", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, `{"deleted":true}`)
}
