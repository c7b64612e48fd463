package repository

import (
	"context"

	"yanjihub/internal/cache"
	"yanjihub/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListVisibleByPost(ctx context.Context, postID uint) ([]*models.Comment, error)
	ListAllByPost(ctx context.Context, postID uint) ([]*models.Comment, error)
	UpdateStatus(ctx context.Context, id uint, status models.CommentStatus) error
	Delete(ctx context.Context, id uint) error
	FileReport(ctx context.Context, id uint, reason string, escalate func(models.CommentStatus, int) models.CommentStatus) (*models.Comment, bool, error)
	Like(ctx context.Context, viewerKey string, commentID uint) (bool, error)
}

// commentRepository implements CommentRepository
type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	err := r.db.WithContext(ctx).Create(comment).Error
	if err == nil {
		cache.InvalidatePost(ctx, comment.PostID)
	}
	return err
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListVisibleByPost returns active comments sorted most-liked first, with
// newer comments winning ties.
func (r *commentRepository) ListVisibleByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := cache.Aside(ctx, cache.CommentsKey(postID), &comments, cache.CommentsTTL, func() error {
		return r.db.WithContext(ctx).
			Where("post_id = ? AND status = ?", postID, models.CommentStatusActive).
			Order("likes DESC, created_at DESC, id DESC").
			Find(&comments).Error
	})
	return comments, err
}

// ListAllByPost includes hidden comments for the admin view.
func (r *commentRepository) ListAllByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("likes DESC, created_at DESC, id DESC").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) UpdateStatus(ctx context.Context, id uint, status models.CommentStatus) error {
	comment, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	err = r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("id = ?", id).
		Update("status", status).Error
	if err != nil {
		return err
	}
	cache.InvalidatePost(ctx, comment.PostID)
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	comment, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Delete(&models.Comment{}, id).Error; err != nil {
		return err
	}
	cache.InvalidatePost(ctx, comment.PostID)
	return nil
}

// FileReport appends the report row, bumps the counter, and applies the
// escalation decision in one transaction. Any failure rolls back the
// whole filing.
func (r *commentRepository) FileReport(ctx context.Context, id uint, reason string, escalate func(models.CommentStatus, int) models.CommentStatus) (*models.Comment, bool, error) {
	var comment models.Comment
	var escalated bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Comment{}).
			Where("id = ?", id).
			UpdateColumn("report_count", gorm.Expr("report_count + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.First(&comment, id).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.Report{
			PostID:    comment.PostID,
			CommentID: &comment.ID,
			Reason:    reason,
		}).Error; err != nil {
			return err
		}
		next := escalate(comment.Status, comment.ReportCount)
		if next == comment.Status {
			return nil
		}
		if err := tx.Model(&models.Comment{}).
			Where("id = ?", id).
			Update("status", next).Error; err != nil {
			return err
		}
		escalated = true
		comment.Status = next
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	cache.InvalidatePost(ctx, comment.PostID)
	return &comment, escalated, nil
}

// Like records a comment like for the viewer. Repeats are no-ops via the
// reaction ledger's unique index.
func (r *commentRepository) Like(ctx context.Context, viewerKey string, commentID uint) (bool, error) {
	var applied bool
	var postID uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.Reaction{
			ViewerKey:  viewerKey,
			TargetType: models.ReactionTargetComment,
			TargetID:   commentID,
			Kind:       models.ReactionLike,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		applied = true

		var comment models.Comment
		if err := tx.First(&comment, commentID).Error; err != nil {
			return err
		}
		postID = comment.PostID
		return tx.Model(&models.Comment{}).
			Where("id = ?", commentID).
			UpdateColumn("likes", gorm.Expr("likes + 1")).Error
	})
	if err != nil {
		return false, err
	}
	if applied {
		cache.InvalidatePost(ctx, postID)
	}
	return applied, nil
}
