package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Tecnolosic/rompeelciclo/internal/model"
)

type InteractionRepository interface {
	Insert(interaction *model.Interaction) error
	// Since returns the user's interactions created at or after t.
	Since(userID string, t time.Time) ([]model.Interaction, error)
}

type interactionRepository struct {
	db *sqlx.DB
}

func NewInteractionRepository(db *sqlx.DB) InteractionRepository {
	return &interactionRepository{db: db}
}

func (r *interactionRepository) Insert(interaction *model.Interaction) error {
	if interaction.ID == "" {
		interaction.ID = uuid.New().String()
	}
	if interaction.CreatedAt.IsZero() {
		interaction.CreatedAt = time.Now()
	}

	_, err := r.db.NamedExec(`
		INSERT INTO interactions (id, user_id, action_type, metadata, created_at)
		VALUES (:id, :user_id, :action_type, :metadata, :created_at)
	`, interaction)

	return err
}

func (r *interactionRepository) Since(userID string, t time.Time) ([]model.Interaction, error) {
	var interactions []model.Interaction
	err := r.db.Select(&interactions, `
		SELECT * FROM interactions
		WHERE user_id = $1 AND created_at >= $2
		ORDER BY created_at ASC
	`, userID, t)
	if err != nil {
		return nil, err
	}
	return interactions, nil
}
