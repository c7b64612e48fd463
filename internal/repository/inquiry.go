package repository

import (
	"context"

	"yanjihub/internal/models"

	"gorm.io/gorm"
)

// InquiryRepository defines the interface for partnership inquiry storage.
type InquiryRepository interface {
	Create(ctx context.Context, inquiry *models.InquiryMessage) error
	ListByPost(ctx context.Context, postID uint) ([]*models.InquiryMessage, error)
}

type inquiryRepository struct {
	db *gorm.DB
}

// NewInquiryRepository creates a new inquiry repository
func NewInquiryRepository(db *gorm.DB) InquiryRepository {
	return &inquiryRepository{db: db}
}

func (r *inquiryRepository) Create(ctx context.Context, inquiry *models.InquiryMessage) error {
	return r.db.WithContext(ctx).Create(inquiry).Error
}

func (r *inquiryRepository) ListByPost(ctx context.Context, postID uint) ([]*models.InquiryMessage, error) {
	var inquiries []*models.InquiryMessage
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Find(&inquiries).Error
	return inquiries, err
}
