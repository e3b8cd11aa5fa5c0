package models

import (
	"time"
)

// Posting frequencies accepted by the schedule endpoints. The hourly runner
// treats these as advisory metadata; Enabled is what gates participation.
const (
	FrequencyDaily      = "daily"
	FrequencyTwiceDaily = "twice_daily"
	FrequencyWeekly     = "weekly"
)

// Schedule is the per-user automation switch. Enabled is the only field the
// runner consults when deciding whether a user participates in a firing.
type Schedule struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"-"`
	Frequency string    `gorm:"not null;default:daily" json:"frequency"`
	TimeOfDay string    `gorm:"not null" json:"time_of_day"`
	Timezone  string    `gorm:"not null;default:UTC" json:"timezone"`
	Enabled   bool      `gorm:"not null;default:true;index" json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
