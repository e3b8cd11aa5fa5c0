package models

import (
	"time"
)

// LinkedAccount is the durable result of a completed OAuth handshake: the
// permanent token pair plus a snapshot of the external profile. At most one
// exists per user; relinking replaces the previous row atomically.
type LinkedAccount struct {
	ID               uint      `gorm:"primaryKey" json:"-"`
	UserID           uint      `gorm:"uniqueIndex;not null" json:"-"`
	TwitterID        string    `gorm:"not null" json:"twitter_id"`
	ScreenName       string    `gorm:"not null" json:"screen_name"`
	Name             string    `json:"name"`
	ProfileImageURL  string    `json:"profile_image_url"`
	OAuthToken       string    `gorm:"not null" json:"-"`
	OAuthTokenSecret string    `gorm:"not null" json:"-"`
	CreatedAt        time.Time `json:"connected_at"`
}

// TemporaryCredential is the short-lived request-token pair obtained before
// the user authorizes the application. It is created by Initiate, consumed
// exactly once by Complete, and never reused.
type TemporaryCredential struct {
	ID            uint      `gorm:"primaryKey" json:"-"`
	RequestToken  string    `gorm:"uniqueIndex;not null" json:"-"`
	RequestSecret string    `gorm:"not null" json:"-"`
	UserID        uint      `gorm:"index;not null" json:"-"`
	CreatedAt     time.Time `json:"-"`
}
