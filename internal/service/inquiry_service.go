package service

import (
	"context"
	"errors"
	"strings"

	"yanjihub/internal/models"
	"yanjihub/internal/moderation"
	"yanjihub/internal/observability"
	"yanjihub/internal/repository"

	"gorm.io/gorm"
)

// InquiryService records private partnership inquiries on listings.
type InquiryService struct {
	inquiryRepo repository.InquiryRepository
	postRepo    repository.PostRepository
	wordlist    *moderation.Wordlist
}

type CreateInquiryInput struct {
	PostID     uint
	SenderName string
	Message    string
}

func NewInquiryService(inquiryRepo repository.InquiryRepository, postRepo repository.PostRepository, wordlist *moderation.Wordlist) *InquiryService {
	return &InquiryService{inquiryRepo: inquiryRepo, postRepo: postRepo, wordlist: wordlist}
}

// CreateInquiry appends an inquiry to a post. Inquiries are accepted on
// any category but only surface on the partnership admin view.
func (s *InquiryService) CreateInquiry(ctx context.Context, in CreateInquiryInput) (*models.InquiryMessage, error) {
	message := strings.TrimSpace(in.Message)
	if message == "" {
		return nil, models.NewValidationError("Inquiry message is required")
	}
	sender := strings.TrimSpace(in.SenderName)
	if sender == "" {
		sender = models.DefaultNickname
	}

	// banned-word gate applies to inquiries the same as to listings.
	if s.wordlist.ContainsBanned(message) {
		observability.SubmissionsRejected.WithLabelValues("banned_word").Inc()
		return nil, models.NewBannedContentError()
	}

	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", in.PostID)
		}
		return nil, err
	}

	inquiry := &models.InquiryMessage{
		PostID:     in.PostID,
		SenderName: sender,
		Message:    message,
	}
	if err := s.inquiryRepo.Create(ctx, inquiry); err != nil {
		return nil, err
	}
	return inquiry, nil
}
