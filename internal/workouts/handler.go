package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/cruxlog/cruxlog/internal/middleware"
	"github.com/cruxlog/cruxlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type workoutsRepo interface {
	Add(ctx context.Context, workout *Workout) (*Workout, error)
	Get(ctx context.Context, userID, workoutID int) (*Workout, error)
	Update(ctx context.Context, workout *Workout) error
	Delete(ctx context.Context, userID, id int) error
	List(ctx context.Context, userID int) ([]Workout, error)
}

type Handler struct {
	repo workoutsRepo
}

func NewHandler(repo workoutsRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var workout Workout
	if err := json.NewDecoder(r.Body).Decode(&workout); err != nil {
		log.Tracef("new workout, unmarshal json params: %s", err)
		http.Error(w, "add workout failed", http.StatusBadRequest)
		return
	}

	if workout.Name == "" {
		http.Error(w, "error, name empty", http.StatusBadRequest)
		return
	}

	workout.UserID = userID
	if workout.CreatedAt.IsZero() {
		workout.CreatedAt = time.Now()
	}

	addedWorkout, err := handler.repo.Add(r.Context(), &workout)
	if err != nil {
		if errors.Is(err, ErrWorkoutExists) {
			http.Error(w, "workout with that name already exists", http.StatusConflict)
			return
		}
		log.Errorf("failed to add new workout [%s]: %s", workout.Name, err)
		http.Error(w, "error, failed to add new workout", http.StatusInternalServerError)
		return
	}

	addedWorkoutJson, err := json.Marshal(addedWorkout)
	if err != nil {
		log.Errorf("failed to marshal new workout: %s", err)
		http.Error(w, "error, failed to add new workout", http.StatusInternalServerError)
		return
	}

	log.Debugf("new workout added: [%s]: %d", addedWorkout.Name, addedWorkout.ID)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedWorkoutJson, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	workout, err := handler.repo.Get(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, ErrWorkoutNotFound) {
			http.Error(w, "workout not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get workout %d: %s", id, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	workoutJson, err := json.Marshal(workout)
	if err != nil {
		log.Errorf("failed to marshal workout: %s", err)
		http.Error(w, "failed to marshal workout", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, workoutJson, http.StatusOK)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	workouts, err := handler.repo.List(r.Context(), userID)
	if err != nil {
		log.Errorf("list workouts error: %s", err)
		http.Error(w, "failed to get workouts", http.StatusInternalServerError)
		return
	}
	if workouts == nil {
		workouts = []Workout{}
	}

	workoutsJson, err := json.Marshal(workouts)
	if err != nil {
		log.Errorf("marshal workouts error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, workoutsJson, http.StatusOK)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var workout Workout
	if err := json.NewDecoder(r.Body).Decode(&workout); err != nil {
		log.Errorf("update workout, unmarshal json params: %s", err)
		http.Error(w, "update workout failed", http.StatusBadRequest)
		return
	}

	if workout.Name == "" {
		http.Error(w, "error, name empty", http.StatusBadRequest)
		return
	}

	workout.UserID = userID
	if err := handler.repo.Update(r.Context(), &workout); err != nil {
		if errors.Is(err, ErrWorkoutNotFound) {
			http.Error(w, "workout not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to update workout [%d]: %s", workout.ID, err)
		http.Error(w, "error, failed to update workout", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, `{"updated":true}`)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(r.Context(), userID, id); err != nil {
		if errors.Is(err, ErrWorkoutNotFound) {
			http.Error(w, "workout not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete workout %d: %s", id, err)
		http.Error(w, "workout not deleted", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, `{"deleted":true}`)
}
