package model

// DailySpark is a short daily prompt (quote plus action task) shown on the
// stats screen. Seeded from content files, shared by all users.
type DailySpark struct {
	DayID       int    `db:"day_id" json:"day_id"`
	Quote       string `db:"quote" json:"quote"`
	Author      string `db:"author" json:"author,omitempty"`
	ActionTask  string `db:"action_task" json:"action_task"`
	Date        string `db:"date" json:"date"`
	IsCompleted bool   `db:"is_completed" json:"is_completed"`
}
