package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Tecnolosic/rompeelciclo/internal/model"
)

var ErrGoalNotFound = errors.New("goal not found")

type GoalRepository interface {
	ByUser(userID string) ([]model.Goal, error)
	// Insert stores a goal under a backend-issued id, minting one when the
	// caller left a locally-seeded placeholder. Placeholder ids are never
	// written to the database.
	Insert(goal *model.Goal) error
	// Upsert is keyed on the backend-issued id.
	Upsert(goal *model.Goal) error
}

type goalRepository struct {
	db *sqlx.DB
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) ByUser(userID string) ([]model.Goal, error) {
	var goals []model.Goal
	query := `SELECT * FROM goals WHERE user_id = $1 ORDER BY created_at ASC`

	err := r.db.Select(&goals, query, userID)
	if err != nil {
		return nil, err
	}

	for i := range goals {
		goals[i].Persisted = true
	}
	return goals, nil
}

func (r *goalRepository) Insert(goal *model.Goal) error {
	if !model.IsBackendID(goal.ID) {
		goal.ID = uuid.New().String()
	}
	now := time.Now()
	if goal.CreatedAt.IsZero() {
		goal.CreatedAt = now
	}
	goal.UpdatedAt = now

	_, err := r.db.NamedExec(`
		INSERT INTO goals (id, user_id, goal_title, target_date, sub_tasks, progress_percentage, created_at, updated_at)
		VALUES (:id, :user_id, :goal_title, :target_date, :sub_tasks, :progress_percentage, :created_at, :updated_at)
	`, goal)
	if err != nil {
		return err
	}

	goal.Persisted = true
	return nil
}

func (r *goalRepository) Upsert(goal *model.Goal) error {
	if goal.CreatedAt.IsZero() {
		goal.CreatedAt = time.Now()
	}
	goal.UpdatedAt = time.Now()

	_, err := r.db.NamedExec(`
		INSERT INTO goals (id, user_id, goal_title, target_date, sub_tasks, progress_percentage, created_at, updated_at)
		VALUES (:id, :user_id, :goal_title, :target_date, :sub_tasks, :progress_percentage, :created_at, :updated_at)
		ON CONFLICT (id) DO UPDATE SET
			goal_title = excluded.goal_title,
			target_date = excluded.target_date,
			sub_tasks = excluded.sub_tasks,
			progress_percentage = excluded.progress_percentage,
			updated_at = excluded.updated_at
	`, goal)

	return err
}
