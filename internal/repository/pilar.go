package repository

import (
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Tecnolosic/rompeelciclo/internal/model"
)

type PilarRepository interface {
	// Definitions returns the dynamic lesson definitions ordered by id. An
	// empty result means the static defaults apply.
	Definitions() ([]model.PilarDefinition, error)
}

type ProgressRepository interface {
	ByUser(userID string) ([]model.PilarProgress, error)
	// Upsert is idempotent on (user_id, pilar_id).
	Upsert(progress *model.PilarProgress) error
}

type pilarRepository struct {
	db *sqlx.DB
}

func NewPilarRepository(db *sqlx.DB) PilarRepository {
	return &pilarRepository{db: db}
}

func (r *pilarRepository) Definitions() ([]model.PilarDefinition, error) {
	var defs []model.PilarDefinition
	err := r.db.Select(&defs, `SELECT * FROM pillars ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	return defs, nil
}

type progressRepository struct {
	db *sqlx.DB
}

func NewProgressRepository(db *sqlx.DB) ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) ByUser(userID string) ([]model.PilarProgress, error) {
	var progress []model.PilarProgress
	err := r.db.Select(&progress, `SELECT * FROM pillar_progress WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	return progress, nil
}

func (r *progressRepository) Upsert(progress *model.PilarProgress) error {
	progress.UpdatedAt = time.Now()

	_, err := r.db.NamedExec(`
		INSERT INTO pillar_progress (user_id, pilar_id, completed, unlocked, updated_at)
		VALUES (:user_id, :pilar_id, :completed, :unlocked, :updated_at)
		ON CONFLICT (user_id, pilar_id) DO UPDATE SET
			completed = excluded.completed,
			unlocked = excluded.unlocked,
			updated_at = excluded.updated_at
	`, progress)

	return err
}
