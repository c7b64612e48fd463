package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"yanjihub/internal/featureflags"
	"yanjihub/internal/models"
	"yanjihub/internal/moderation"
	"yanjihub/internal/observability"
	"yanjihub/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AdminService owns moderator authentication and the moderation queue.
type AdminService struct {
	postRepo      repository.PostRepository
	commentRepo   repository.CommentRepository
	blacklistRepo repository.BlacklistRepository
	reportRepo    repository.ReportRepository
	inquiryRepo   repository.InquiryRepository
	flags         *featureflags.Manager

	passwordHash string
	jwtSecret    string
	now          func() time.Time
}

type AddBlacklistInput struct {
	Value     string
	Reason    string
	ExpiresAt *time.Time
}

func NewAdminService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	blacklistRepo repository.BlacklistRepository,
	reportRepo repository.ReportRepository,
	inquiryRepo repository.InquiryRepository,
	flags *featureflags.Manager,
	passwordHash, jwtSecret string,
) *AdminService {
	return &AdminService{
		postRepo:      postRepo,
		commentRepo:   commentRepo,
		blacklistRepo: blacklistRepo,
		reportRepo:    reportRepo,
		inquiryRepo:   inquiryRepo,
		flags:         flags,
		passwordHash:  passwordHash,
		jwtSecret:     jwtSecret,
		now:           time.Now,
	}
}

const adminTokenTTL = 12 * time.Hour

// Login checks the admin password against the configured bcrypt hash and
// issues a short-lived admin JWT.
func (s *AdminService) Login(password string) (string, error) {
	if s.passwordHash == "" {
		return "", models.NewUnauthorizedError("Admin login is not configured")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err != nil {
		return "", models.NewUnauthorizedError("Invalid password")
	}

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": "admin",
		"iat":  now.Unix(),
		"exp":  now.Add(adminTokenTTL).Unix(),
	})
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return signed, nil
}

// ApprovePost moves a pending post into the active feed.
func (s *AdminService) ApprovePost(ctx context.Context, id uint) (*models.Post, error) {
	return s.transitionPost(ctx, id, moderation.Approve, "post_approved")
}

// RejectPost declines a pending post. Rejected is terminal.
func (s *AdminService) RejectPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.transitionPost(ctx, id, moderation.Reject, "post_rejected")
}

func (s *AdminService) transitionPost(ctx context.Context, id uint, apply func(models.PostStatus) (models.PostStatus, error), label string) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, err
	}
	next, err := apply(post.Status)
	if err != nil {
		return nil, err
	}
	if err := s.postRepo.UpdateStatus(ctx, id, next); err != nil {
		return nil, err
	}
	if err := s.reportRepo.CloseForPost(ctx, id); err != nil {
		return nil, err
	}
	observability.AutoModerations.WithLabelValues(label).Inc()
	post.Status = next
	return post, nil
}

// SetPremium grants or extends premium placement by the given number of
// days from now. Days must be positive.
func (s *AdminService) SetPremium(ctx context.Context, id uint, days int) (*models.Post, error) {
	if days <= 0 {
		return nil, models.NewValidationError("Premium days must be positive")
	}
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, err
	}
	until := s.now().Add(time.Duration(days) * 24 * time.Hour)
	post.IsPremium = true
	post.PremiumUntil = &until
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// TogglePostFlag flips one of the post's placement flags. Turning
// premium off also clears the paid-until timestamp.
func (s *AdminService) TogglePostFlag(ctx context.Context, id uint, flag string) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, err
	}
	switch strings.ToLower(strings.TrimSpace(flag)) {
	case "urgent":
		post.IsUrgent = !post.IsUrgent
	case "ad":
		post.IsAd = !post.IsAd
	case "premium":
		post.IsPremium = !post.IsPremium
		if !post.IsPremium {
			post.PremiumUntil = nil
		}
	default:
		return nil, models.NewValidationError("Unknown post flag: " + flag)
	}
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes a post and everything hanging off it from public
// view. Deleting a missing post is a silent no-op.
func (s *AdminService) DeletePost(ctx context.Context, id uint) error {
	if err := s.postRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return s.reportRepo.CloseForPost(ctx, id)
}

// DeleteComment removes a comment. Deleting a missing comment is a
// silent no-op.
func (s *AdminService) DeleteComment(ctx context.Context, id uint) error {
	if err := s.commentRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return nil
}

// AddBlacklist registers a blocked contact phone.
func (s *AdminService) AddBlacklist(ctx context.Context, in AddBlacklistInput) (*models.BlacklistItem, error) {
	value := strings.TrimSpace(in.Value)
	if value == "" {
		return nil, models.NewValidationError("Blacklist value is required")
	}
	item := &models.BlacklistItem{
		Type:      models.BlacklistTypePhone,
		Value:     value,
		Reason:    in.Reason,
		ExpiresAt: in.ExpiresAt,
	}
	if err := s.blacklistRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// RemoveBlacklist deletes a blacklist entry.
func (s *AdminService) RemoveBlacklist(ctx context.Context, id uint) error {
	return s.blacklistRepo.Delete(ctx, id)
}

// ListBlacklist returns every blacklist entry for the admin view.
func (s *AdminService) ListBlacklist(ctx context.Context) ([]models.BlacklistItem, error) {
	return s.blacklistRepo.List(ctx)
}

// ListReports returns open reports newest first.
func (s *AdminService) ListReports(ctx context.Context, limit, offset int) ([]*models.Report, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.reportRepo.ListOpen(ctx, limit, offset)
}

// ListInquiries returns the partnership inquiries on a post.
func (s *AdminService) ListInquiries(ctx context.Context, postID uint) ([]*models.InquiryMessage, error) {
	return s.inquiryRepo.ListByPost(ctx, postID)
}

// Stats returns the dashboard counters.
func (s *AdminService) Stats(ctx context.Context) (*models.AdminStats, error) {
	return s.reportRepo.Stats(ctx, s.now())
}

// SetFlag toggles a feature flag for this process.
func (s *AdminService) SetFlag(name, value string) error {
	if strings.TrimSpace(name) == "" {
		return models.NewValidationError("Flag name is required")
	}
	s.flags.Set(name, value)
	return nil
}

// Flags returns the raw configured flag values.
func (s *AdminService) Flags() map[string]string {
	return s.flags.Raw()
}
