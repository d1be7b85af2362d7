package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Tecnolosic/rompeelciclo/internal/model"
)

type ProfileRepository interface {
	ByUserID(userID string) (*model.Profile, error)
	Create(profile *model.Profile) error
	// Upsert is idempotent on user_id: repeated saves of the same profile
	// converge on the last write.
	Upsert(profile *model.Profile) error
	MarkVerified(userID string) error
}

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) ByUserID(userID string) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.Get(&profile, `SELECT * FROM profiles WHERE user_id = $1`, userID)

	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

func (r *profileRepository) Create(profile *model.Profile) error {
	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now()
	}
	if profile.UpdatedAt.IsZero() {
		profile.UpdatedAt = time.Now()
	}

	_, err := r.db.Exec(`
		INSERT INTO profiles (id, user_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, profile.ID, profile.UserID, profile.Name, profile.CreatedAt, profile.UpdatedAt)

	return err
}

func (r *profileRepository) Upsert(profile *model.Profile) error {
	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now()
	}
	profile.UpdatedAt = time.Now()

	_, err := r.db.NamedExec(`
		INSERT INTO profiles (
			id, user_id, name, date_of_birth, profession, north_star,
			current_identity, new_identity, blocker_reason, is_verified,
			device_id, current_streak, best_streak, last_active_date,
			total_milestones, xp, created_at, updated_at
		) VALUES (
			:id, :user_id, :name, :date_of_birth, :profession, :north_star,
			:current_identity, :new_identity, :blocker_reason, :is_verified,
			:device_id, :current_streak, :best_streak, :last_active_date,
			:total_milestones, :xp, :created_at, :updated_at
		)
		ON CONFLICT (user_id) DO UPDATE SET
			name = excluded.name,
			date_of_birth = excluded.date_of_birth,
			profession = excluded.profession,
			north_star = excluded.north_star,
			current_identity = excluded.current_identity,
			new_identity = excluded.new_identity,
			blocker_reason = excluded.blocker_reason,
			is_verified = excluded.is_verified,
			device_id = excluded.device_id,
			current_streak = excluded.current_streak,
			best_streak = excluded.best_streak,
			last_active_date = excluded.last_active_date,
			total_milestones = excluded.total_milestones,
			xp = excluded.xp,
			updated_at = excluded.updated_at
	`, profile)

	return err
}

func (r *profileRepository) MarkVerified(userID string) error {
	result, err := r.db.Exec(`
		UPDATE profiles
		SET is_verified = TRUE, updated_at = $1
		WHERE user_id = $2
	`, time.Now(), userID)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrProfileNotFound
	}

	return nil
}
