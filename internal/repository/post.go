// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"strings"
	"time"

	"yanjihub/internal/cache"
	"yanjihub/internal/models"
	"yanjihub/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FeedQuery describes one page of the composed feed.
type FeedQuery struct {
	Category models.Category
	Search   string
	Region   string
	// IncludeAll returns every moderation status; the public feed sees
	// active posts only.
	IncludeAll bool
	Limit      int
	Offset     int
}

// DefaultFeedLimit is the page size served when the client does not ask
// for one. The feed cache stores default-size pages only, so a custom
// limit can neither read nor poison them.
const DefaultFeedLimit = 50

// cacheable reports whether this query is an unfiltered public first page
// at the default size.
func (q FeedQuery) cacheable() bool {
	return q.Search == "" && q.Region == "" && !q.IncludeAll &&
		q.Offset == 0 && q.Limit == DefaultFeedLimit
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	Feed(ctx context.Context, q FeedQuery) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	UpdateStatus(ctx context.Context, id uint, status models.PostStatus) error
	Delete(ctx context.Context, id uint) error
	IncrementView(ctx context.Context, id uint) error
	FileReport(ctx context.Context, id uint, reason string, escalate func(models.PostStatus, int) models.PostStatus) (*models.Post, bool, error)
	React(ctx context.Context, viewerKey string, postID uint, kind models.ReactionKind) (bool, error)
	ClearExpiredPremium(ctx context.Context, now time.Time) (int64, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db, log: observability.NewRepoLogger("posts")}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).Create(post).Error
	if err == nil {
		cache.InvalidateFeed(ctx, string(post.Category))
	}
	return err
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	key := cache.PostKey(id)

	err := cache.Aside(ctx, key, &post, cache.PostTTL, func() error {
		return r.applyCommentCount(r.db.WithContext(ctx)).First(&post, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) Feed(ctx context.Context, q FeedQuery) ([]*models.Post, error) {
	var posts []*models.Post
	if q.cacheable() {
		err := cache.Aside(ctx, cache.FeedKey(string(q.Category)), &posts, cache.FeedTTL, func() error {
			return r.feedQuery(ctx, q).Find(&posts).Error
		})
		return posts, err
	}
	err := r.feedQuery(ctx, q).Find(&posts).Error
	return posts, err
}

// feedQuery builds the category page query. Premium posts sort first
// within the category; within each band newest posts come first, with id
// as a stable tiebreak for same-timestamp rows.
func (r *postRepository) feedQuery(ctx context.Context, q FeedQuery) *gorm.DB {
	db := r.applyCommentCount(r.db.WithContext(ctx)).
		Where("category = ?", q.Category)

	if !q.IncludeAll {
		db = db.Where("status = ?", models.PostStatusActive)
	}
	if q.Region != "" {
		db = db.Where("location = ?", q.Region)
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		db = db.Where(
			"LOWER(title_kr) LIKE ? OR LOWER(title_cn) LIKE ? OR LOWER(shop_name) LIKE ?",
			like, like, like,
		)
	}

	db = db.Order("is_premium DESC, created_at DESC, id DESC")
	if q.Limit > 0 {
		db = db.Limit(q.Limit)
	}
	if q.Offset > 0 {
		db = db.Offset(q.Offset)
	}
	return db
}

// applyCommentCount adds the visible comment count in a single query.
// Hidden comments are stored but never counted.
func (r *postRepository) applyCommentCount(db *gorm.DB) *gorm.DB {
	return db.Select("posts.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id AND comments.status = 'active' AND comments.deleted_at IS NULL) as visible_comments_count")
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return err
	}
	cache.InvalidatePost(ctx, post.ID)
	cache.InvalidateFeed(ctx, string(post.Category))
	return nil
}

func (r *postRepository) UpdateStatus(ctx context.Context, id uint, status models.PostStatus) error {
	post, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	err = r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		Update("status", status).Error
	if err != nil {
		return err
	}
	r.log.LogMutation(ctx, "update_status", map[string]interface{}{
		"id":   id,
		"from": post.Status,
		"to":   status,
	})
	cache.InvalidatePost(ctx, id)
	cache.InvalidateFeed(ctx, string(post.Category))
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	post, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return err
	}
	r.log.LogMutation(ctx, "delete", map[string]interface{}{"id": id})
	cache.InvalidatePost(ctx, id)
	cache.InvalidateFeed(ctx, string(post.Category))
	return nil
}

func (r *postRepository) IncrementView(ctx context.Context, id uint) error {
	// Views bypass the cached detail record; slight staleness is fine.
	return r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

// FileReport appends the report row, bumps the counter, and applies the
// escalation decision in one transaction. The escalate callback sees the
// current status with the new count and returns the next status; any
// failure rolls back the whole filing.
func (r *postRepository) FileReport(ctx context.Context, id uint, reason string, escalate func(models.PostStatus, int) models.PostStatus) (*models.Post, bool, error) {
	var post models.Post
	var escalated bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Post{}).
			Where("id = ?", id).
			UpdateColumn("report_count", gorm.Expr("report_count + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.First(&post, id).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.Report{PostID: id, Reason: reason}).Error; err != nil {
			return err
		}
		next := escalate(post.Status, post.ReportCount)
		if next == post.Status {
			return nil
		}
		if err := tx.Model(&models.Post{}).
			Where("id = ?", id).
			Update("status", next).Error; err != nil {
			return err
		}
		escalated = true
		post.Status = next
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if escalated {
		r.log.LogMutation(ctx, "update_status", map[string]interface{}{
			"id":  id,
			"to":  post.Status,
			"via": "report_threshold",
		})
		cache.InvalidateFeed(ctx, string(post.Category))
	}
	cache.InvalidatePost(ctx, id)
	return &post, escalated, nil
}

// React records a like or dislike for the viewer and bumps the counter.
// The unique index on the reaction ledger makes repeats no-ops; the
// returned bool reports whether this call actually counted.
func (r *postRepository) React(ctx context.Context, viewerKey string, postID uint, kind models.ReactionKind) (bool, error) {
	var applied bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.Reaction{
			ViewerKey:  viewerKey,
			TargetType: models.ReactionTargetPost,
			TargetID:   postID,
			Kind:       kind,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		applied = true

		column := "likes"
		if kind == models.ReactionDislike {
			column = "dislikes"
		}
		bump := tx.Model(&models.Post{}).
			Where("id = ?", postID).
			UpdateColumn(column, gorm.Expr(column+" + 1"))
		if bump.Error != nil {
			return bump.Error
		}
		if bump.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	if applied {
		cache.InvalidatePost(ctx, postID)
	}
	return applied, nil
}

// ClearExpiredPremium drops the premium flag from posts whose window has
// lapsed. Called by the sweep when the premium_sweep flag enables it.
func (r *postRepository) ClearExpiredPremium(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("is_premium = ? AND premium_until IS NOT NULL AND premium_until <= ?", true, now).
		Update("is_premium", false)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		for _, c := range models.Categories {
			cache.InvalidateFeed(ctx, string(c))
		}
	}
	return res.RowsAffected, nil
}
