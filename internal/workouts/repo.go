package workouts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cruxlog/cruxlog/pkg"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrWorkoutNotFound = errors.New("workout not found")
	ErrWorkoutExists   = errors.New("workout with that name already exists")
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, workout *Workout) (*Workout, error) {
	if workout.Name == "" || workout.CreatedAt.IsZero() {
		return nil, errors.New("workout name or timestamp empty")
	}

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO workout (user_id, name, description, category, created_at) VALUES ($1, $2, $3, $4, $5) RETURNING id;`,
		workout.UserID, workout.Name, workout.Description, workout.Category, workout.CreatedAt,
	)
	if err != nil {
		// workout names are unique per user
		if pkg.IsUniqueViolationError(err) {
			return nil, ErrWorkoutExists
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

	workout.ID = id
	return workout, nil
}

func (r *Repo) Get(ctx context.Context, userID, workoutID int) (*Workout, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT id, user_id, name, description, category, created_at FROM workout WHERE id = $1 AND user_id = $2;`,
		workoutID, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !rows.Next() {
		return nil, ErrWorkoutNotFound
	}

	var workout Workout
	if err := rows.Scan(
		&workout.ID, &workout.UserID, &workout.Name,
		&workout.Description, &workout.Category, &workout.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &workout, nil
}

func (r *Repo) Update(ctx context.Context, workout *Workout) error {
	if workout.Name == "" {
		return errors.New("workout name empty")
	}

	tag, err := r.db.Exec(
		ctx,
		`UPDATE workout SET name = $1, description = $2, category = $3 WHERE id = $4 AND user_id = $5;`,
		workout.Name, workout.Description, workout.Category, workout.ID, workout.UserID,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrWorkoutNotFound
	}

	return nil
}

func (r *Repo) Delete(ctx context.Context, userID, id int) error {
	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM workout WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrWorkoutNotFound
	}
	return nil
}

func (r *Repo) List(ctx context.Context, userID int) ([]Workout, error) {
	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, user_id, name, description, category, created_at
			FROM workout
			WHERE user_id = $1
			ORDER BY created_at DESC;`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	var workouts []Workout
	for rows.Next() {
		var id, rowUserID int
		var name, description, category string
		var createdAt time.Time
		if err := rows.Scan(&id, &rowUserID, &name, &description, &category, &createdAt); err != nil {
			return nil, err
		}
		workouts = append(workouts, Workout{
			ID:          id,
			UserID:      rowUserID,
			Name:        name,
			Description: description,
			Category:    category,
			CreatedAt:   createdAt,
		})
	}

	return workouts, nil
}
