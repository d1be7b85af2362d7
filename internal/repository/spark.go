package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/Tecnolosic/rompeelciclo/internal/model"
)

type SparkRepository interface {
	Recent(limit int) ([]model.DailySpark, error)
	// Seed upserts the content-file sparks at startup.
	Seed(sparks []model.DailySpark) error
}

type sparkRepository struct {
	db *sqlx.DB
}

func NewSparkRepository(db *sqlx.DB) SparkRepository {
	return &sparkRepository{db: db}
}

func (r *sparkRepository) Recent(limit int) ([]model.DailySpark, error) {
	var sparks []model.DailySpark
	err := r.db.Select(&sparks, `SELECT * FROM daily_sparks ORDER BY date DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return sparks, nil
}

func (r *sparkRepository) Seed(sparks []model.DailySpark) error {
	for i := range sparks {
		_, err := r.db.NamedExec(`
			INSERT INTO daily_sparks (day_id, quote, author, action_task, date, is_completed)
			VALUES (:day_id, :quote, :author, :action_task, :date, :is_completed)
			ON CONFLICT (day_id) DO UPDATE SET
				quote = excluded.quote,
				author = excluded.author,
				action_task = excluded.action_task,
				date = excluded.date
		`, sparks[i])
		if err != nil {
			return err
		}
	}
	return nil
}
