package model

import "time"

const (
	ConfessionTypeText  = "text"
	ConfessionTypeVoice = "voice"
	ConfessionTypeVideo = "video"
)

// Confession is an append-only journal entry. Content holds text or an encoded
// media payload reference; voice/video payloads live in object storage under
// MediaKey.
type Confession struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"-"`
	Content     string    `db:"content" json:"content"`
	Type        string    `db:"type" json:"type"`
	Timestamp   string    `db:"timestamp" json:"timestamp"`
	Date        string    `db:"date" json:"date"` // YYYY-MM-DD
	PilarID     int       `db:"pilar_id" json:"pilar_id"`
	SessionName *string   `db:"session_name" json:"session_name,omitempty"`
	Note        *string   `db:"note" json:"note,omitempty"`
	MediaKey    *string   `db:"media_key" json:"-"`
	CreatedAt   time.Time `db:"created_at" json:"-"`
}

func ValidConfessionType(t string) bool {
	switch t {
	case ConfessionTypeText, ConfessionTypeVoice, ConfessionTypeVideo:
		return true
	}
	return false
}
