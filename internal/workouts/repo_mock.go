package workouts

import (
	"context"
)

type repoMock struct {
	workouts map[int]*Workout
	nextID   int
}

func NewMockWorkoutsRepo() *repoMock {
	return &repoMock{
		workouts: make(map[int]*Workout),
		nextID:   1,
	}
}

func (r *repoMock) Add(_ context.Context, workout *Workout) (*Workout, error) {
	for _, w := range r.workouts {
		if w.UserID == workout.UserID && w.Name == workout.Name {
			return nil, ErrWorkoutExists
		}
	}
	if workout.ID == 0 {
		workout.ID = r.nextID
		r.nextID++
	}
	r.workouts[workout.ID] = workout
	return workout, nil
}

func (r *repoMock) Update(ctx context.Context, workout *Workout) error {
	if _, err := r.Get(ctx, workout.UserID, workout.ID); err != nil {
		return err
	}
	r.workouts[workout.ID] = workout
	return nil
}

func (r *repoMock) Get(_ context.Context, userID, id int) (*Workout, error) {
	workout, ok := r.workouts[id]
	if !ok || workout.UserID != userID {
		return nil, ErrWorkoutNotFound
	}
	return workout, nil
}

func (r *repoMock) Delete(_ context.Context, userID, id int) error {
	workout, ok := r.workouts[id]
	if !ok || workout.UserID != userID {
		return ErrWorkoutNotFound
	}
	delete(r.workouts, workout.ID)
	return nil
}

func (r *repoMock) List(_ context.Context, userID int) ([]Workout, error) {
	var workouts []Workout
	for _, w := range r.workouts {
		if w.UserID == userID {
			workouts = append(workouts, *w)
		}
	}
	return workouts, nil
}
