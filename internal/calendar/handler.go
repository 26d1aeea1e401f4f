package calendar

import (
	"context"
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

//go:generate mockgen -source=$GOFILE -destination=sessions_mocks_test.go -package=calendar_test

type sessionsRepo interface {
	Add(ctx context.Context, session Session) (*Session, error)
	Get(ctx context.Context, userID, id int) (*Session, error)
	ListAll(ctx context.Context, params SessionParams) (_ []Session, err error)
	Update(ctx context.Context, session *Session) error
	Delete(ctx context.Context, userID, id int) error
	ApplyDeload(ctx context.Context, userID int, from, to time.Time, percentage int) (int, error)
	ClearDeload(ctx context.Context, userID int, from, to time.Time) (int, error)
}

// SessionWithStatus is a session plus its derived display status.
type SessionWithStatus struct {
	Session
	Status Status `json:"status"`
}

type DeleteSessionResponse struct {
	DeletedID int `json:"deletedId"`
}

type UpdateSessionResponse struct {
	UpdatedID int `json:"updatedId"`
}

type DeloadResponse struct {
	Success bool   `json:"success"`
	Updated int    `json:"updated,omitempty"`
	Error   string `json:"error,omitempty"`
}

type deloadRequest struct {
	From       string `json:"from"`
	To         string `json:"to"`
	Percentage int    `json:"percentage"`
}

type Handler struct {
	repo           sessionsRepo
	analyzer       *Analyzer
	metricsManager *metrics.Manager

	// now is swapped out in tests
	now func() time.Time
}

func NewHandler(repo sessionsRepo, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:           repo,
		analyzer:       NewAnalyzer(repo),
		metricsManager: metricsManager,
		now:            time.Now,
	}
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.calendar.new")
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

	var session Session
	if err := json.NewDecoder(r.Body).Decode(&session); err != nil {
		log.Tracef("new session, unmarshal json params: %s", err)
		http.Error(w, "add session failed", http.StatusBadRequest)
		return
	}

	if err := validateSession(session); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	session.UserID = userID
	addedSession, err := handler.repo.Add(ctx, session)
	if err != nil {
		if errors.Is(err, ErrUnknownWorkout) {
			http.Error(w, "unknown workout", http.StatusBadRequest)
			return
		}
		log.Errorf("failed to add new session: %s", err)
		http.Error(w, "error, failed to add new session", http.StatusInternalServerError)
		return
	}

	if handler.metricsManager != nil {
		handler.metricsManager.CounterSessionsScheduled.Inc()
	}

	addedSessionJson, err := json.Marshal(addedSession)
	if err != nil {
		log.Errorf("failed to marshal new session: %s", err)
		http.Error(w, "error, failed to add new session", http.StatusInternalServerError)
		return
	}

	log.Debugf("new session added: %d", addedSession.ID)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedSessionJson, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.calendar.get")
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

	session, err := handler.repo.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get session %d: %s", id, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	sessionJson, err := json.Marshal(SessionWithStatus{
		Session: *session,
		Status:  StatusOf(*session, handler.now()),
	})
	if err != nil {
		log.Errorf("failed to marshal session: %s", err)
		http.Error(w, "failed to marshal session", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, sessionJson, http.StatusOK)
}

// HandleList returns the sessions of a user in the given range, each
// with its derived display status.
func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.calendar.list")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	params, err := sessionParamsFromQuery(userID, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sessions, err := handler.repo.ListAll(ctx, params)
	if err != nil {
		log.Errorf("list sessions error: %s", err)
		http.Error(w, "failed to get sessions", http.StatusInternalServerError)
		return
	}

	now := handler.now()
	sessionsWithStatus := make([]SessionWithStatus, 0, len(sessions))
	for _, s := range sessions {
		sessionsWithStatus = append(sessionsWithStatus, SessionWithStatus{
			Session: s,
			Status:  StatusOf(s, now),
		})
	}

	sessionsJson, err := json.Marshal(sessionsWithStatus)
	if err != nil {
		log.Errorf("marshal sessions error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, sessionsJson, http.StatusOK)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.calendar.update")
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

	var session Session
	if err := json.NewDecoder(r.Body).Decode(&session); err != nil {
		log.Errorf("update session, unmarshal json params: %s", err)
		http.Error(w, "update session failed", http.StatusBadRequest)
		return
	}

	if err := validateSession(session); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	session.UserID = userID
	if err := handler.repo.Update(ctx, &session); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to update session [%d]: %s", session.ID, err)
		http.Error(w, "error, failed to update session", http.StatusInternalServerError)
		return
	}

	updateRespJson, err := json.Marshal(UpdateSessionResponse{
		UpdatedID: session.ID,
	})
	if err != nil {
		log.Errorf("failed to marshal update response: %s", err)
		http.Error(w, "failed to marshal update response", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(updateRespJson))
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.calendar.delete")
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

	if err := handler.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete session %d: %s", id, err)
		http.Error(w, "session not deleted", http.StatusInternalServerError)
		return
	}

	deleteRespJson, err := json.Marshal(DeleteSessionResponse{
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
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.calendar.stats")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	params, err := sessionParamsFromQuery(userID, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	stats := handler.analyzer.SessionStats(ctx, params)

	statsJson, err := json.Marshal(stats)
	if err != nil {
		log.Errorf("failed to marshal session stats: %s", err)
		http.Error(w, "failed to marshal session stats", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, statsJson, http.StatusOK)
}

// HandleApplyDeload marks all sessions of a user in a date range as
// deload sessions. A failed write comes back as a success=false
// payload, not as a bare HTTP error.
func (handler *Handler) HandleApplyDeload(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.calendar.applyDeload")
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

	var deloadReq deloadRequest
	if err := json.NewDecoder(r.Body).Decode(&deloadReq); err != nil {
		log.Tracef("apply deload, unmarshal json params: %s", err)
		http.Error(w, "apply deload failed", http.StatusBadRequest)
		return
	}

	// the repo persists whatever it gets, the range check lives here
	if deloadReq.Percentage < 1 || deloadReq.Percentage > 100 {
		http.Error(w, "error, percentage must be in [1, 100]", http.StatusBadRequest)
		return
	}

	from, to, err := parseDeloadRange(deloadReq.From, deloadReq.To)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := handler.repo.ApplyDeload(ctx, userID, from, to, deloadReq.Percentage)
	if err != nil {
		log.Errorf("failed to apply deload for user %d: %s", userID, err)
		writeDeloadResponse(w, DeloadResponse{
			Success: false,
			Error:   "failed to apply deload",
		})
		return
	}

	if handler.metricsManager != nil {
		handler.metricsManager.CounterDeloadUpdates.Inc()
	}

	writeDeloadResponse(w, DeloadResponse{
		Success: true,
		Updated: updated,
	})
}

// HandleClearDeload resets the deload marking on all sessions of a user
// in a date range.
func (handler *Handler) HandleClearDeload(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.calendar.clearDeload")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	from, to, err := parseDeloadRange(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := handler.repo.ClearDeload(ctx, userID, from, to)
	if err != nil {
		log.Errorf("failed to clear deload for user %d: %s", userID, err)
		writeDeloadResponse(w, DeloadResponse{
			Success: false,
			Error:   "failed to clear deload",
		})
		return
	}

	if handler.metricsManager != nil {
		handler.metricsManager.CounterDeloadUpdates.Inc()
	}

	writeDeloadResponse(w, DeloadResponse{
		Success: true,
		Updated: updated,
	})
}

func writeDeloadResponse(w http.ResponseWriter, deloadResp DeloadResponse) {
	deloadRespJson, err := json.Marshal(deloadResp)
	if err != nil {
		log.Errorf("failed to marshal deload response: %s", err)
		http.Error(w, "failed to marshal deload response", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, deloadRespJson, http.StatusOK)
}

func validateSession(session Session) error {
	if session.WorkoutID <= 0 {
		return errors.New("error, workout id missing")
	}
	if session.StartsAt.IsZero() {
		return errors.New("error, start time missing")
	}
	if session.RPE != nil && (*session.RPE < 1 || *session.RPE > 10) {
		return errors.New("error, rpe must be in [1, 10]")
	}
	if session.Deload {
		if session.DeloadPercentage == nil || *session.DeloadPercentage < 1 || *session.DeloadPercentage > 100 {
			return errors.New("error, deload percentage must be in [1, 100]")
		}
	} else if session.DeloadPercentage != nil {
		return errors.New("error, deload percentage set without deload")
	}
	return nil
}

func parseDeloadRange(fromStr, toStr string) (from, to time.Time, err error) {
	if fromStr == "" || toStr == "" {
		return from, to, errors.New("error, from and to are required")
	}
	from, err = time.Parse("2006-01-02", fromStr)
	if err != nil {
		return from, to, errors.New("parse error, parameter <from>")
	}
	to, err = time.Parse("2006-01-02", toStr)
	if err != nil {
		return from, to, errors.New("parse error, parameter <to>")
	}
	if to.Before(from) {
		return from, to, errors.New("error, to before from")
	}
	return from, to, nil
}

func sessionParamsFromQuery(userID int, r *http.Request) (SessionParams, error) {
	params := SessionParams{UserID: userID}

	if workoutIDStr := r.URL.Query().Get("workout_id"); workoutIDStr != "" {
		workoutID, err := strconv.Atoi(workoutIDStr)
		if err != nil {
			return params, errors.New("error, workout_id NaN")
		}
		params.WorkoutID = &workoutID
	}
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
