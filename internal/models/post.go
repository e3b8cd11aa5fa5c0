package models

import (
	"time"
)

// Post record statuses.
const (
	PostStatusSuccess = "success"
	PostStatusFailed  = "failed"
)

// PostRecord is an immutable log entry for one publish attempt. Records are
// only ever appended; history is never rewritten.
//
// A success record always carries TwitterID and PostedAt; a failed record
// always carries ErrorMessage and leaves both nil.
type PostRecord struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uint       `gorm:"index;not null" json:"-"`
	Content      string     `gorm:"type:text;not null" json:"content"`
	TwitterID    *string    `json:"twitter_id"`
	Status       string     `gorm:"not null;index" json:"status"`
	ErrorMessage *string    `json:"error_message"`
	CreatedAt    time.Time  `json:"created_at"`
	PostedAt     *time.Time `json:"posted_at"`
}

// NewSuccessRecord builds a PostRecord for a tweet that was accepted upstream.
func NewSuccessRecord(userID uint, content, twitterID string) *PostRecord {
	now := time.Now().UTC()
	return &PostRecord{
		UserID:    userID,
		Content:   content,
		TwitterID: &twitterID,
		Status:    PostStatusSuccess,
		PostedAt:  &now,
	}
}

// NewFailedRecord builds a PostRecord for a publish attempt that was rejected.
func NewFailedRecord(userID uint, content, errorMessage string) *PostRecord {
	return &PostRecord{
		UserID:       userID,
		Content:      content,
		Status:       PostStatusFailed,
		ErrorMessage: &errorMessage,
	}
}

// Stats summarizes a user's posting history plus whether automation is
// currently scheduled (0 or 1).
type Stats struct {
	TotalPosts      int64 `json:"total_posts"`
	SuccessfulPosts int64 `json:"successful_posts"`
	FailedPosts     int64 `json:"failed_posts"`
	ScheduledPosts  int64 `json:"scheduled_posts"`
}
