package climbing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/cruxlog/cruxlog/internal/middleware"
	"github.com/cruxlog/cruxlog/internal/telemetry/metrics"
	"github.com/cruxlog/cruxlog/internal/telemetry/tracing"
	"github.com/cruxlog/cruxlog/pkg"

	"github.com/coocood/freecache"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=climbs_mocks_test.go -package=climbing_test

type climbsRepo interface {
	Add(ctx context.Context, climb ClimbLog) (*ClimbLog, error)
	Get(ctx context.Context, userID, id int) (*ClimbLog, error)
	List(ctx context.Context, params ListParams) (_ []ClimbLog, total int, err error)
	ListAll(ctx context.Context, params ClimbParams) (_ []ClimbLog, err error)
	Update(ctx context.Context, climb *ClimbLog) error
	Delete(ctx context.Context, userID, id int) error
	Count(ctx context.Context, params ClimbParams) (int, error)
}

type DeleteClimbResponse struct {
	DeletedID int `json:"deletedId"`
}

type UpdateClimbResponse struct {
	UpdatedID int `json:"updatedId"`
}

type AddClimbResponse struct {
	ClimbLog
	CountToday int `json:"countToday"`
}

type ListResponse struct {
	Climbs []ClimbLog `json:"climbs"`
	Total  int        `json:"total"`
}

const statsCacheTTLSeconds = 60

type Handler struct {
	repo           climbsRepo
	analyzer       *Analyzer
	statsCache     *freecache.Cache
	metricsManager *metrics.Manager
}

func NewHandler(repo climbsRepo, statsCache *freecache.Cache, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:           repo,
		analyzer:       NewAnalyzer(repo),
		statsCache:     statsCache,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.climbing.new")
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

	var climb ClimbLog
	if err := json.NewDecoder(r.Body).Decode(&climb); err != nil {
		log.Tracef("new climb, unmarshal json params: %s", err)
		http.Error(w, "add climb failed", http.StatusBadRequest)
		return
	}

	if !climb.Type.IsValid() {
		http.Error(w, "error, invalid climb type", http.StatusBadRequest)
		return
	}
	if climb.Attempts < 1 {
		http.Error(w, "error, attempts must be at least 1", http.StatusBadRequest)
		return
	}

	climb.UserID = userID
	if climb.CreatedAt.IsZero() {
		climb.CreatedAt = time.Now()
	}

	addedClimb, err := handler.repo.Add(ctx, climb)
	if err != nil {
		log.Errorf("failed to add new climb [%s]: %s", climb.Type, err)
		http.Error(w, "error, failed to add new climb", http.StatusInternalServerError)
		return
	}

	if handler.metricsManager != nil {
		handler.metricsManager.CounterClimbsLogged.Inc()
	}

	todayStart := pkg.StartOfDay(time.Now())
	todayEnd := pkg.EndOfDay(time.Now())
	climbsToday, err := handler.repo.ListAll(ctx, ClimbParams{
		UserID: userID,
		From:   &todayStart,
		To:     &todayEnd,
	})
	if err != nil {
		// just log the error, no need to return error to the client
		log.Errorf("failed to get climbs today for user %d: %s", userID, err)
	}

	addClimbResponse := AddClimbResponse{
		ClimbLog:   *addedClimb,
		CountToday: len(climbsToday),
	}

	addedClimbJson, err := json.Marshal(addClimbResponse)
	if err != nil {
		log.Errorf("failed to marshal new climb: %s", err)
		http.Error(w, "error, failed to add new climb", http.StatusInternalServerError)
		return
	}

	log.Debugf("new climb added: %s", addedClimbJson)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedClimbJson, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.climbing.get")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	idStr := vars["id"]
	if idStr == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	climb, err := handler.repo.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, ErrClimbNotFound) {
			http.Error(w, "climb not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get climb %d: %s", id, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	climbJson, err := json.Marshal(climb)
	if err != nil {
		log.Errorf("failed to marshal climb: %s", err)
		http.Error(w, "failed to marshal climb", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, climbJson, http.StatusOK)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.climbing.list")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	page, err := strconv.Atoi(vars["page"])
	if err != nil {
		log.Tracef("handle list climbs, from <page> param: %s", err)
		http.Error(w, "parse form error, parameter <page>", http.StatusBadRequest)
		return
	}
	size, err := strconv.Atoi(vars["size"])
	if err != nil {
		log.Tracef("handle list climbs, from <size> param: %s", err)
		http.Error(w, "parse form error, parameter <size>", http.StatusBadRequest)
		return
	}

	if page < 1 {
		http.Error(w, "invalid page (has to be non-zero value)", http.StatusBadRequest)
		return
	}
	if size < 1 {
		http.Error(w, "invalid size (has to be non-zero value)", http.StatusBadRequest)
		return
	}

	listParams := ListParams{
		ClimbParams: ClimbParams{
			UserID: userID,
		},
		Page: page,
		Size: size,
	}

	if typeStr := r.URL.Query().Get("type"); typeStr != "" {
		climbType := ClimbType(typeStr)
		if !climbType.IsValid() {
			http.Error(w, "error, invalid climb type", http.StatusBadRequest)
			return
		}
		listParams.Type = &climbType
	}
	if gradeIDStr := r.URL.Query().Get("grade_id"); gradeIDStr != "" {
		gradeID, err := strconv.Atoi(gradeIDStr)
		if err != nil {
			http.Error(w, "error, grade_id NaN", http.StatusBadRequest)
			return
		}
		listParams.GradeID = &gradeID
	}

	climbs, total, err := handler.repo.List(ctx, listParams)
	if err != nil {
		log.Errorf("list climbs error: %s", err)
		http.Error(w, "failed to get climbs", http.StatusInternalServerError)
		return
	}

	listResponseJson, err := json.Marshal(ListResponse{
		Climbs: climbs,
		Total:  total,
	})
	if err != nil {
		log.Errorf("marshal climbs error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, listResponseJson, http.StatusOK)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.climbing.update")
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

	var climb ClimbLog
	if err := json.NewDecoder(r.Body).Decode(&climb); err != nil {
		log.Errorf("update climb, unmarshal json params: %s", err)
		http.Error(w, "update climb failed", http.StatusBadRequest)
		return
	}

	if !climb.Type.IsValid() {
		http.Error(w, "error, invalid climb type", http.StatusBadRequest)
		return
	}

	climb.UserID = userID
	if err := handler.repo.Update(ctx, &climb); err != nil {
		if errors.Is(err, ErrClimbNotFound) {
			http.Error(w, "climb not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to update climb [%d]: %s", climb.ID, err)
		http.Error(w, "error, failed to update climb", http.StatusInternalServerError)
		return
	}

	updateRespJson, err := json.Marshal(UpdateClimbResponse{
		UpdatedID: climb.ID,
	})
	if err != nil {
		log.Errorf("failed to marshal update response: %s", err)
		http.Error(w, "failed to marshal update response", http.StatusInternalServerError)
		return
	}

	log.Debugf("climb updated: [%s]: %d", climb.Type, climb.ID)
	pkg.WriteJSONResponseOK(w, string(updateRespJson))
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.climbing.delete")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	idStr := vars["id"]
	if idStr == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, ErrClimbNotFound) {
			log.Debugf("climb %d not found", id)
			http.Error(w, "climb not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete climb %d: %s", id, err)
		http.Error(w, "climb not deleted", http.StatusInternalServerError)
		return
	}

	deleteRespJson, err := json.Marshal(DeleteClimbResponse{
		DeletedID: id,
	})
	if err != nil {
		log.Errorf("failed to marshal delete response: %s", err)
		http.Error(w, "failed to marshal delete response", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(deleteRespJson))
}

func (handler *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.climbing.stats")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	params, err := climbParamsFromQuery(userID, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cacheKey := []byte(fmt.Sprintf("stats|%d|%s|%s", userID, r.URL.Query().Get("from"), r.URL.Query().Get("to")))
	if handler.statsCache != nil {
		if cached, err := handler.statsCache.Get(cacheKey); err == nil {
			pkg.WriteResponseBytes(w, pkg.ContentType.JSON, cached, http.StatusOK)
			return
		}
	}

	stats := handler.analyzer.PerformanceStats(ctx, params)

	statsJson, err := json.Marshal(stats)
	if err != nil {
		log.Errorf("failed to marshal climbing stats: %s", err)
		http.Error(w, "failed to marshal climbing stats", http.StatusInternalServerError)
		return
	}

	if handler.statsCache != nil {
		if err := handler.statsCache.Set(cacheKey, statsJson, statsCacheTTLSeconds); err != nil {
			log.Tracef("failed to cache climbing stats: %s", err)
		}
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, statsJson, http.StatusOK)
}

func (handler *Handler) HandleLeadHistogram(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.climbing.leadHistogram")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	params, err := climbParamsFromQuery(userID, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	histogram := handler.analyzer.LeadHistogram(ctx, params)

	histogramJson, err := json.Marshal(histogram)
	if err != nil {
		log.Errorf("failed to marshal lead histogram: %s", err)
		http.Error(w, "failed to marshal lead histogram", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, histogramJson, http.StatusOK)
}

func (handler *Handler) HandleBoulderBoardHistogram(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.climbing.boulderBoardHistogram")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	params, err := climbParamsFromQuery(userID, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	histogram := handler.analyzer.BoulderBoardHistogram(ctx, params)

	histogramJson, err := json.Marshal(histogram)
	if err != nil {
		log.Errorf("failed to marshal boulder/board histogram: %s", err)
		http.Error(w, "failed to marshal boulder/board histogram", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, histogramJson, http.StatusOK)
}

// climbParamsFromQuery reads the optional from/to date query params
// (YYYY-MM-DD). The "to" date is extended to the end of its day, so
// the range is inclusive on both ends.
func climbParamsFromQuery(userID int, r *http.Request) (ClimbParams, error) {
	params := ClimbParams{UserID: userID}

	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		from, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return params, errors.New("parse form error, parameter <from>")
		}
		from = pkg.StartOfDay(from)
		params.From = &from
	}
	if toStr := r.URL.Query().Get("to"); toStr != "" {
		to, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return params, errors.New("parse form error, parameter <to>")
		}
		to = pkg.EndOfDay(to)
		params.To = &to
	}

	return params, nil
}
