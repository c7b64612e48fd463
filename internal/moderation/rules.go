// Package moderation holds the pure rules behind content admission and
// visibility: the banned-word gate, blacklist matching, and the status
// state machine driven by report counts and admin decisions.
package moderation

import (
	"time"

	"yanjihub/internal/models"
)

const (
	// PostBanThreshold is the report count at which a post is force-banned.
	PostBanThreshold = 5
	// CommentHideThreshold is the report count at which a comment is hidden.
	CommentHideThreshold = 3
)

// InitialStatus returns the status a freshly admitted post must carry.
// Partnership listings require manual review; everything else goes live
// immediately. No other status is ever assigned at creation time.
func InitialStatus(category models.Category) models.PostStatus {
	if category == models.CategoryPartnership {
		return models.PostStatusPending
	}
	return models.PostStatusActive
}

// ApplyPostReport returns the post status after its report counter reached
// newCount. Crossing the threshold forces banned regardless of the prior
// state; the transition is one-directional.
func ApplyPostReport(current models.PostStatus, newCount int) models.PostStatus {
	if newCount >= PostBanThreshold {
		return models.PostStatusBanned
	}
	return current
}

// ApplyCommentReport returns the comment status after its report counter
// reached newCount.
func ApplyCommentReport(current models.CommentStatus, newCount int) models.CommentStatus {
	if newCount >= CommentHideThreshold {
		return models.CommentStatusHidden
	}
	return current
}

// Approve validates the pending -> active transition. Banned and
// rejected are terminal; neither can be approved.
func Approve(current models.PostStatus) (models.PostStatus, error) {
	if current != models.PostStatusPending {
		return current, models.NewValidationError("only pending posts can be approved")
	}
	return models.PostStatusActive, nil
}

// Reject validates the pending -> rejected transition.
func Reject(current models.PostStatus) (models.PostStatus, error) {
	if current != models.PostStatusPending {
		return current, models.NewValidationError("only pending posts can be rejected")
	}
	return models.PostStatusRejected, nil
}

// BlacklistMatches reports whether phone exactly equals the value of any
// phone-type entry. When enforceExpiry is false (the default behavior),
// expired entries still match; expiry enforcement is an opt-in extension.
func BlacklistMatches(items []models.BlacklistItem, phone string, now time.Time, enforceExpiry bool) bool {
	if phone == "" {
		return false
	}
	for _, item := range items {
		if item.Type != models.BlacklistTypePhone {
			continue
		}
		if enforceExpiry && item.ExpiresAt != nil && item.ExpiresAt.Before(now) {
			continue
		}
		if item.Value == phone {
			return true
		}
	}
	return false
}
