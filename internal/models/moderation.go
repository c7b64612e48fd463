package models

import "time"

// BlacklistType discriminates what a blacklist entry blocks.
type BlacklistType string

const (
	BlacklistTypePhone BlacklistType = "phone"
	BlacklistTypeIP    BlacklistType = "ip"
)

// BlacklistItem blocks submissions whose contact value matches exactly.
// ExpiresAt is stored for every entry but only consulted when the
// blacklist_expiry feature flag is enabled.
type BlacklistItem struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	Type      BlacklistType `gorm:"not null;default:phone" json:"type"`
	Value     string        `gorm:"not null;index" json:"value"`
	Reason    string        `json:"reason"`
	CreatedAt time.Time     `json:"created_at"`
	ExpiresAt *time.Time    `json:"expires_at,omitempty"`
}

// ReportStatus is the triage state of a filed report.
type ReportStatus string

const (
	ReportStatusOpen   ReportStatus = "open"
	ReportStatusClosed ReportStatus = "closed"
)

// Report is the audit record behind each report action. The counters on
// posts and comments drive the thresholds; this table keeps the reasons
// for the admin view.
type Report struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	PostID    uint         `gorm:"not null;index" json:"post_id"`
	CommentID *uint        `gorm:"index" json:"comment_id,omitempty"`
	Reason    string       `json:"reason"`
	Status    ReportStatus `gorm:"not null;default:open" json:"status"`
	CreatedAt time.Time    `json:"created_at"`
}

// ReactionKind is a like or dislike.
type ReactionKind string

const (
	ReactionLike    ReactionKind = "like"
	ReactionDislike ReactionKind = "dislike"
)

// ReactionTarget discriminates what a reaction marker points at.
type ReactionTarget string

const (
	ReactionTargetPost    ReactionTarget = "post"
	ReactionTargetComment ReactionTarget = "comment"
)

// Reaction is the per-viewer dedup ledger for engagement actions. The
// viewer key is a device-scoped identifier, not an authenticated
// identity, so this is best-effort duplicate suppression rather than a
// security boundary.
type Reaction struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	ViewerKey  string         `gorm:"not null;uniqueIndex:idx_reactions_viewer_target,priority:1" json:"-"`
	TargetType ReactionTarget `gorm:"not null;uniqueIndex:idx_reactions_viewer_target,priority:2" json:"target_type"`
	TargetID   uint           `gorm:"not null;uniqueIndex:idx_reactions_viewer_target,priority:3" json:"target_id"`
	Kind       ReactionKind   `gorm:"not null;uniqueIndex:idx_reactions_viewer_target,priority:4" json:"kind"`
	CreatedAt  time.Time      `json:"created_at"`
}

// AdminStats is the dashboard summary for the admin view.
type AdminStats struct {
	TotalPosts    int64 `json:"total_posts"`
	NewToday      int64 `json:"new_today"`
	PendingPosts  int64 `json:"pending_posts"`
	OpenReports   int64 `json:"open_reports"`
	PremiumActive int64 `json:"premium_active"`
}
