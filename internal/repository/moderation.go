package repository

import (
	"context"
	"time"

	"yanjihub/internal/cache"
	"yanjihub/internal/models"
	"yanjihub/internal/observability"

	"gorm.io/gorm"
)

// BlacklistRepository defines the interface for blacklist management.
type BlacklistRepository interface {
	Create(ctx context.Context, item *models.BlacklistItem) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]models.BlacklistItem, error)
}

type blacklistRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewBlacklistRepository creates a new blacklist repository
func NewBlacklistRepository(db *gorm.DB) BlacklistRepository {
	return &blacklistRepository{db: db, log: observability.NewRepoLogger("blacklist_items")}
}

func (r *blacklistRepository) Create(ctx context.Context, item *models.BlacklistItem) error {
	err := r.db.WithContext(ctx).Create(item).Error
	if err == nil {
		r.log.LogMutation(ctx, "create", map[string]interface{}{
			"type":  item.Type,
			"value": item.Value,
		})
		cache.InvalidateBlacklist(ctx)
	}
	return err
}

func (r *blacklistRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Delete(&models.BlacklistItem{}, id).Error
	if err == nil {
		r.log.LogMutation(ctx, "delete", map[string]interface{}{"id": id})
		cache.InvalidateBlacklist(ctx)
	}
	return err
}

// List returns every blacklist entry. The submission gate caches this
// briefly; entries are few and matching happens in memory.
func (r *blacklistRepository) List(ctx context.Context) ([]models.BlacklistItem, error) {
	var items []models.BlacklistItem
	err := cache.Aside(ctx, cache.BlacklistSetKey, &items, cache.BlacklistTTL, func() error {
		return r.db.WithContext(ctx).Order("id ASC").Find(&items).Error
	})
	return items, err
}

// ReportRepository defines the interface for the report audit log.
type ReportRepository interface {
	ListOpen(ctx context.Context, limit, offset int) ([]*models.Report, error)
	CloseForPost(ctx context.Context, postID uint) error
	Stats(ctx context.Context, now time.Time) (*models.AdminStats, error)
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) ListOpen(ctx context.Context, limit, offset int) ([]*models.Report, error) {
	var reports []*models.Report
	err := r.db.WithContext(ctx).
		Where("status = ?", models.ReportStatusOpen).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&reports).Error
	return reports, err
}

// CloseForPost closes every open report on the post, including reports on
// its comments. Called when an admin resolves the post one way or another.
func (r *reportRepository) CloseForPost(ctx context.Context, postID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Report{}).
		Where("post_id = ? AND status = ?", postID, models.ReportStatusOpen).
		Update("status", models.ReportStatusClosed).Error
}

// Stats aggregates the admin dashboard counters in one pass per counter.
func (r *reportRepository) Stats(ctx context.Context, now time.Time) (*models.AdminStats, error) {
	var stats models.AdminStats
	err := cache.Aside(ctx, cache.StatsKey, &stats, cache.StatsTTL, func() error {
		db := r.db.WithContext(ctx)

		if err := db.Model(&models.Post{}).Count(&stats.TotalPosts).Error; err != nil {
			return err
		}
		startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		if err := db.Model(&models.Post{}).
			Where("created_at >= ?", startOfDay).
			Count(&stats.NewToday).Error; err != nil {
			return err
		}
		if err := db.Model(&models.Post{}).
			Where("status = ?", models.PostStatusPending).
			Count(&stats.PendingPosts).Error; err != nil {
			return err
		}
		if err := db.Model(&models.Report{}).
			Where("status = ?", models.ReportStatusOpen).
			Count(&stats.OpenReports).Error; err != nil {
			return err
		}
		return db.Model(&models.Post{}).
			Where("is_premium = ? AND (premium_until IS NULL OR premium_until > ?)", true, now).
			Count(&stats.PremiumActive).Error
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
