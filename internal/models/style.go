package models

import (
	"time"
)

// Content style length classes.
const (
	LengthShort  = "short"
	LengthMedium = "medium"
	LengthLong   = "long"
)

// Content style tones accepted by the generator prompt.
const (
	ToneProfessional = "professional"
	ToneCasual       = "casual"
	ToneHumorous     = "humorous"
	ToneInspiring    = "inspiring"
)

// ContentStyle holds the per-user knobs fed to the content generator.
// One row per user; writing a new style replaces the old one.
type ContentStyle struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"-"`
	Topic     string    `gorm:"not null" json:"topic"`
	Tone      string    `gorm:"not null;default:professional" json:"tone"`
	Length    string    `gorm:"not null;default:medium" json:"length"`
	Hashtags  bool      `gorm:"not null;default:true" json:"hashtags"`
	Emojis    bool      `gorm:"not null;default:false" json:"emojis"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
