package goals

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/cruxlog/cruxlog/internal/climbing"
	"github.com/cruxlog/cruxlog/internal/grades"
	"github.com/cruxlog/cruxlog/internal/middleware"
	"github.com/cruxlog/cruxlog/internal/telemetry/tracing"
	"github.com/cruxlog/cruxlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=goals_mocks_test.go -package=goals_test

type goalsRepo interface {
	Set(ctx context.Context, goal QuarterlyGoal) (*QuarterlyGoal, error)
	Get(ctx context.Context, userID, year, quarter int, climbType climbing.ClimbType) (*QuarterlyGoal, error)
	Delete(ctx context.Context, userID, year, quarter int, climbType climbing.ClimbType) error
}

type climbsLister interface {
	ListAll(ctx context.Context, params climbing.ClimbParams) ([]climbing.ClimbLog, error)
}

type Handler struct {
	repo       goalsRepo
	calculator *Calculator
}

func NewHandler(repo goalsRepo, climbs climbsLister) *Handler {
	return &Handler{
		repo:       repo,
		calculator: NewCalculator(repo, climbs),
	}
}

func (handler *Handler) HandleSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.goals.set")
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

	var goal QuarterlyGoal
	if err := json.NewDecoder(r.Body).Decode(&goal); err != nil {
		log.Tracef("set goal, unmarshal json params: %s", err)
		http.Error(w, "set goal failed", http.StatusBadRequest)
		return
	}

	if !goal.Type.IsValid() {
		http.Error(w, "error, invalid climb type", http.StatusBadRequest)
		return
	}
	if goal.Quarter < 1 || goal.Quarter > 4 {
		http.Error(w, "error, quarter must be in [1, 4]", http.StatusBadRequest)
		return
	}
	gradeFamily := goal.Type.GradeFamily()
	for gradeID, target := range goal.Targets {
		if target < 0 {
			http.Error(w, "error, negative target", http.StatusBadRequest)
			return
		}
		if grades.LabelFor(gradeFamily, gradeID) == "" {
			http.Error(w, fmt.Sprintf("error, unknown grade id %d", gradeID), http.StatusBadRequest)
			return
		}
	}

	goal.UserID = userID
	if goal.CreatedAt.IsZero() {
		goal.CreatedAt = time.Now()
	}

	setGoal, err := handler.repo.Set(ctx, goal)
	if err != nil {
		log.Errorf("failed to set goal for user %d: %s", userID, err)
		http.Error(w, "error, failed to set goal", http.StatusInternalServerError)
		return
	}

	setGoalJson, err := json.Marshal(setGoal)
	if err != nil {
		log.Errorf("failed to marshal goal: %s", err)
		http.Error(w, "error, failed to set goal", http.StatusInternalServerError)
		return
	}

	log.Debugf("goal set: user %d, %d Q%d [%s]", userID, setGoal.Year, setGoal.Quarter, setGoal.Type)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, setGoalJson, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.goals.get")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	climbType, year, quarter, err := goalParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	goal, err := handler.repo.Get(ctx, userID, year, quarter, climbType)
	if err != nil {
		if errors.Is(err, ErrGoalNotFound) {
			http.Error(w, "goal not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get goal for user %d: %s", userID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	goalJson, err := json.Marshal(goal)
	if err != nil {
		log.Errorf("failed to marshal goal: %s", err)
		http.Error(w, "failed to marshal goal", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, goalJson, http.StatusOK)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.goals.delete")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	climbType, year, quarter, err := goalParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(ctx, userID, year, quarter, climbType); err != nil {
		if errors.Is(err, ErrGoalNotFound) {
			http.Error(w, "goal not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete goal for user %d: %s", userID, err)
		http.Error(w, "goal not deleted", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, `{"deleted":true}`)
}

// HandleProgress returns the goal progress of a user for one climb
// type and quarter. A missing goal or a failing read degrades to an
// empty list.
func (handler *Handler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.goals.progress")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	climbType, year, quarter, err := goalParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var progress []GoalProgress
	switch climbType {
	case climbing.TypeBoulder:
		progress = handler.calculator.BoulderProgress(ctx, userID, year, quarter)
	case climbing.TypeBoard:
		progress = handler.calculator.BoardProgress(ctx, userID, year, quarter)
	case climbing.TypeLead:
		progress = handler.calculator.LeadProgress(ctx, userID, year, quarter)
	}

	progressJson, err := json.Marshal(progress)
	if err != nil {
		log.Errorf("failed to marshal goal progress: %s", err)
		http.Error(w, "failed to marshal goal progress", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, progressJson, http.StatusOK)
}

func goalParams(r *http.Request) (climbType climbing.ClimbType, year, quarter int, err error) {
	vars := mux.Vars(r)

	climbType = climbing.ClimbType(vars["type"])
	if !climbType.IsValid() {
		return climbType, 0, 0, errors.New("error, invalid climb type")
	}

	year, err = strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		return climbType, 0, 0, errors.New("parse form error, parameter <year>")
	}
	quarter, err = strconv.Atoi(r.URL.Query().Get("quarter"))
	if err != nil {
		return climbType, 0, 0, errors.New("parse form error, parameter <quarter>")
	}
	if quarter < 1 || quarter > 4 {
		return climbType, 0, 0, errors.New("error, quarter must be in [1, 4]")
	}

	return climbType, year, quarter, nil
}
