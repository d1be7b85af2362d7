package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

type SubTask struct {
	TaskName string `json:"task_name"`
	IsDone   bool   `json:"is_done"`
}

// SubTasks is stored as a JSON column.
type SubTasks []SubTask

func (s SubTasks) Value() (driver.Value, error) {
	if s == nil {
		s = SubTasks{}
	}
	return json.Marshal(s)
}

func (s *SubTasks) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*s = SubTasks{}
		return nil
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("cannot scan %T into SubTasks", src)
	}
}

// Goal is a user objective with ordered sub-tasks. Seeded goals carry small
// placeholder ids ("1".."3"); the backend issues UUIDs on first insert.
type Goal struct {
	ID                 string    `db:"id" json:"id"`
	UserID             string    `db:"user_id" json:"-"`
	GoalTitle          string    `db:"goal_title" json:"goal_title"`
	TargetDate         string    `db:"target_date" json:"target_date"`
	SubTasks           SubTasks  `db:"sub_tasks" json:"sub_tasks"`
	ProgressPercentage int       `db:"progress_percentage" json:"progress_percentage"`
	CreatedAt          time.Time `db:"created_at" json:"-"`
	UpdatedAt          time.Time `db:"updated_at" json:"-"`

	// Persisted distinguishes backend-issued rows from locally-seeded
	// placeholders. Derived once from the id shape; not stored.
	Persisted bool `db:"-" json:"-"`
}

// RecomputeProgress derives the percentage from sub-task completion. It is the
// only way progress_percentage changes; 0 when there are no sub-tasks.
func (g *Goal) RecomputeProgress() {
	if len(g.SubTasks) == 0 {
		g.ProgressPercentage = 0
		return
	}
	done := 0
	for _, t := range g.SubTasks {
		if t.IsDone {
			done++
		}
	}
	g.ProgressPercentage = int(math.Round(100 * float64(done) / float64(len(g.SubTasks))))
}

// IsBackendID reports whether id was issued by the backend (UUID shape) as
// opposed to a locally-seeded placeholder.
func IsBackendID(id string) bool {
	return uuid.Validate(id) == nil
}

// DefaultGoals returns the three placeholder goals seeded at session reset.
func DefaultGoals() []Goal {
	return []Goal{
		{ID: "1", GoalTitle: "Meta de Impacto 1", SubTasks: SubTasks{}},
		{ID: "2", GoalTitle: "Meta de Impacto 2", SubTasks: SubTasks{}},
		{ID: "3", GoalTitle: "Meta de Impacto 3", SubTasks: SubTasks{}},
	}
}
