package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Metadata is a free-form JSON column attached to interaction rows.
type Metadata map[string]any

func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		m = Metadata{}
	}
	return json.Marshal(m)
}

func (m *Metadata) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*m = Metadata{}
		return nil
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("cannot scan %T into Metadata", src)
	}
}

// Interaction is a fire-and-forget activity log row used for the stats graph.
type Interaction struct {
	ID         string    `db:"id" json:"id"`
	UserID     string    `db:"user_id" json:"-"`
	ActionType string    `db:"action_type" json:"action_type"`
	Metadata   Metadata  `db:"metadata" json:"metadata,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
