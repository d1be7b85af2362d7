package model

import "time"

// GuestName is the sentinel identity name set when the user enters guest mode.
// A profile carrying it bypasses authentication and the verification gate.
const GuestName = "Invitado"

// Profile is the per-user identity and gamification record. One row per user,
// keyed by user_id; identity fields are collected during onboarding, stats are
// mutated only through the progress engine.
type Profile struct {
	ID              string     `db:"id" json:"id"`
	UserID          string     `db:"user_id" json:"user_id"`
	Name            string     `db:"name" json:"name"`
	DateOfBirth     *string    `db:"date_of_birth" json:"dob,omitempty"`
	Profession      *string    `db:"profession" json:"profession,omitempty"`
	NorthStar       string     `db:"north_star" json:"north_star"`
	CurrentIdentity string     `db:"current_identity" json:"current_identity"`
	NewIdentity     string     `db:"new_identity" json:"new_identity"`
	BlockerReason   *string    `db:"blocker_reason" json:"blocker_reason,omitempty"`
	IsVerified      bool       `db:"is_verified" json:"is_verified"`
	DeviceID        *string    `db:"device_id" json:"-"`
	CurrentStreak   int        `db:"current_streak" json:"current_streak"`
	BestStreak      int        `db:"best_streak" json:"best_streak"`
	LastActiveDate  *time.Time `db:"last_active_date" json:"last_active_date"`
	TotalMilestones int        `db:"total_milestones" json:"total_milestones"`
	XP              int        `db:"xp" json:"xp"`
	CreatedAt       time.Time  `db:"created_at" json:"-"`
	UpdatedAt       time.Time  `db:"updated_at" json:"-"`
}

// UserStats is the gamification slice of the profile, the unit the progress
// engine operates on.
type UserStats struct {
	CurrentStreak   int        `json:"current_streak"`
	BestStreak      int        `json:"best_streak"`
	LastActiveDate  *time.Time `json:"last_active_date"`
	TotalMilestones int        `json:"total_milestones"`
	XP              int        `json:"xp"`
}

func (p *Profile) IsGuest() bool {
	return p.Name == GuestName
}

func (p *Profile) Stats() UserStats {
	return UserStats{
		CurrentStreak:   p.CurrentStreak,
		BestStreak:      p.BestStreak,
		LastActiveDate:  p.LastActiveDate,
		TotalMilestones: p.TotalMilestones,
		XP:              p.XP,
	}
}

func (p *Profile) ApplyStats(s UserStats) {
	p.CurrentStreak = s.CurrentStreak
	p.BestStreak = s.BestStreak
	p.LastActiveDate = s.LastActiveDate
	p.TotalMilestones = s.TotalMilestones
	p.XP = s.XP
}
