package models

import (
	"time"

	"gorm.io/gorm"
)

// CommentStatus is the moderation state of a comment.
type CommentStatus string

const (
	CommentStatusActive CommentStatus = "active"
	CommentStatusHidden CommentStatus = "hidden"
)

// DefaultNickname is used when a commenter leaves the nickname blank.
const DefaultNickname = "anonymous"

// Comment belongs to a post. Hidden comments stay stored but are excluded
// from rendered lists and visible counts.
type Comment struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	PostID      uint          `gorm:"not null;index" json:"post_id"`
	Nickname    string        `gorm:"not null" json:"nickname"`
	Content     string        `gorm:"type:text;not null" json:"content"`
	Likes       int           `gorm:"not null;default:0" json:"likes"`
	ReportCount int           `gorm:"not null;default:0" json:"report_count"`
	Status      CommentStatus `gorm:"not null;default:active;index" json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"-"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// InquiryMessage is a private partnership inquiry attached to a post.
// The list is append-only; entries are only removed with their post.
type InquiryMessage struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PostID     uint      `gorm:"not null;index" json:"post_id"`
	SenderName string    `gorm:"not null" json:"sender_name"`
	Message    string    `gorm:"type:text;not null" json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}
