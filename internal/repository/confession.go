package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Tecnolosic/rompeelciclo/internal/model"
)

type ConfessionRepository interface {
	// ByUser returns all confessions for the user, newest first.
	ByUser(userID string) ([]model.Confession, error)
	Insert(confession *model.Confession) error
}

type confessionRepository struct {
	db *sqlx.DB
}

func NewConfessionRepository(db *sqlx.DB) ConfessionRepository {
	return &confessionRepository{db: db}
}

func (r *confessionRepository) ByUser(userID string) ([]model.Confession, error) {
	var confessions []model.Confession
	query := `SELECT * FROM confessions WHERE user_id = $1 ORDER BY created_at DESC`

	err := r.db.Select(&confessions, query, userID)
	if err != nil {
		return nil, err
	}

	return confessions, nil
}

func (r *confessionRepository) Insert(confession *model.Confession) error {
	if confession.ID == "" {
		confession.ID = uuid.New().String()
	}
	if confession.CreatedAt.IsZero() {
		confession.CreatedAt = time.Now()
	}

	_, err := r.db.NamedExec(`
		INSERT INTO confessions (id, user_id, content, type, timestamp, date, pilar_id, session_name, note, media_key, created_at)
		VALUES (:id, :user_id, :content, :type, :timestamp, :date, :pilar_id, :session_name, :note, :media_key, :created_at)
	`, confession)

	return err
}
