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
	"yanjihub/internal/translate"

	"gorm.io/gorm"
)

// PostService owns listing submission, feed composition and engagement.
type PostService struct {
	postRepo      repository.PostRepository
	blacklistRepo repository.BlacklistRepository
	translator    translate.Translator
	wordlist      *moderation.Wordlist
	flags         *featureflags.Manager
	now           func() time.Time
}

type CreatePostInput struct {
	Category    models.Category
	Title       string
	Description string
	PhoneNumber string
	WechatID    string
	Location    string

	// Category-specific optional attributes, stored as provided.
	Salary           string
	Price            string
	Area             string
	ShopName         string
	Address          string
	OpenHours        string
	Tags             []string
	DealType         string
	EstateType       string
	Floor            string
	MoveInDate       string
	StartDate        string
	EndDate          string
	PromoType        string
	Photos           []string
	IsKoreanRequired bool
	HasDormitory     bool
	IsUrgent         bool
}

type FeedInput struct {
	Category models.Category
	Search   string
	Region   string
	IsAdmin  bool
	Limit    int
	Offset   int
}

type ReportPostInput struct {
	PostID uint
	Reason string
}

func NewPostService(
	postRepo repository.PostRepository,
	blacklistRepo repository.BlacklistRepository,
	translator translate.Translator,
	wordlist *moderation.Wordlist,
	flags *featureflags.Manager,
) *PostService {
	return &PostService{
		postRepo:      postRepo,
		blacklistRepo: blacklistRepo,
		translator:    translator,
		wordlist:      wordlist,
		flags:         flags,
		now:           time.Now,
	}
}

const (
	maxTitleLen       = 200
	maxDescriptionLen = 10000
	defaultPostTTL    = 30 * 24 * time.Hour
)

// CreatePost runs the full submission gate: validation, blacklist,
// bilingual generation, banned-word scan, then persistence. Any gate
// failure means nothing is stored.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if !in.Category.Valid() {
		return nil, models.NewValidationError("Invalid category")
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 200 characters)")
	}
	if len(in.Description) > maxDescriptionLen {
		return nil, models.NewValidationError("Description too long (max 10000 characters)")
	}
	phone := strings.TrimSpace(in.PhoneNumber)
	if phone == "" {
		return nil, models.NewValidationError("Phone number is required")
	}

	// Blacklist gate: exact match on the contact phone.
	items, err := s.blacklistRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	enforceExpiry := s.flags.Enabled("blacklist_expiry", "")
	if moderation.BlacklistMatches(items, phone, s.now(), enforceExpiry) {
		observability.SubmissionsRejected.WithLabelValues("blacklist").Inc()
		return nil, models.NewBlockedSubmitterError()
	}

	// Bilingual generation. A failure aborts the submission entirely.
	rendered, err := s.translator.Translate(ctx, translate.Input{
		Title:       title,
		Description: in.Description,
	})
	if err != nil {
		observability.SubmissionsRejected.WithLabelValues("translation").Inc()
		return nil, models.NewTranslationFailedError(err)
	}

	// Banned-word gate runs on all four generated fields so a term in
	// either language blocks the submission.
	if s.wordlist.ContainsBanned(rendered.TitleKR, rendered.TitleCN, rendered.DescriptionKR, rendered.DescriptionCN) {
		observability.SubmissionsRejected.WithLabelValues("banned_word").Inc()
		return nil, models.NewBannedContentError()
	}

	status := moderation.InitialStatus(in.Category)
	now := s.now()
	post := &models.Post{
		Category:      in.Category,
		TitleKR:       rendered.TitleKR,
		TitleCN:       rendered.TitleCN,
		Location:      in.Location,
		DescriptionKR: rendered.DescriptionKR,
		DescriptionCN: rendered.DescriptionCN,
		PhoneNumber:   phone,
		WechatID:      strings.TrimSpace(in.WechatID),

		Salary:           in.Salary,
		Price:            in.Price,
		Area:             in.Area,
		ShopName:         in.ShopName,
		Address:          in.Address,
		OpenHours:        in.OpenHours,
		Tags:             in.Tags,
		DealType:         in.DealType,
		EstateType:       in.EstateType,
		Floor:            in.Floor,
		MoveInDate:       in.MoveInDate,
		StartDate:        in.StartDate,
		EndDate:          in.EndDate,
		PromoType:        in.PromoType,
		Photos:           in.Photos,
		IsKoreanRequired: in.IsKoreanRequired,
		HasDormitory:     in.HasDormitory,
		IsUrgent:         in.IsUrgent,

		Status:    status,
		ExpiresAt: now.Add(defaultPostTTL),
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	observability.SubmissionsAdmitted.WithLabelValues(string(in.Category), string(status)).Inc()
	return post, nil
}

// Feed returns one composed category page. Admin viewers see every
// moderation status; the public feed is active posts only.
func (s *PostService) Feed(ctx context.Context, in FeedInput) ([]*models.Post, error) {
	if !in.Category.Valid() {
		return nil, models.NewValidationError("Invalid category")
	}
	limit := in.Limit
	if limit <= 0 || limit > 100 {
		limit = repository.DefaultFeedLimit
	}

	viewer := "public"
	if in.IsAdmin {
		viewer = "admin"
	}
	start := s.now()
	posts, err := s.postRepo.Feed(ctx, repository.FeedQuery{
		Category:   in.Category,
		Search:     in.Search,
		Region:     in.Region,
		IncludeAll: in.IsAdmin,
		Limit:      limit,
		Offset:     in.Offset,
	})
	observability.FeedQueryLatency.WithLabelValues(viewer).Observe(time.Since(start).Seconds())
	return posts, err
}

// GetPost returns a single post and records the view. Non-admin viewers
// only see active posts.
func (s *PostService) GetPost(ctx context.Context, id uint, isAdmin bool) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, err
	}
	if !isAdmin && post.Status != models.PostStatusActive {
		return nil, models.NewNotFoundError("Post", id)
	}
	if err := s.postRepo.IncrementView(ctx, id); err != nil {
		return nil, err
	}
	post.Views++
	return post, nil
}

// React applies a like or dislike for the viewer. Duplicate reactions
// are silently absorbed; the response reflects whether this one counted.
func (s *PostService) React(ctx context.Context, viewerKey string, postID uint, kind models.ReactionKind) (bool, error) {
	if kind != models.ReactionLike && kind != models.ReactionDislike {
		return false, models.NewValidationError("Invalid reaction kind")
	}
	applied, err := s.postRepo.React(ctx, viewerKey, postID, kind)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Missing posts absorb reactions silently.
			return false, nil
		}
		return false, err
	}
	if !applied {
		observability.ReactionDedupHits.WithLabelValues("post").Inc()
	}
	return applied, nil
}

// ReportPost files a report and applies the ban threshold. Reporting a
// missing post is a silent no-op.
func (s *PostService) ReportPost(ctx context.Context, in ReportPostInput) error {
	_, escalated, err := s.postRepo.FileReport(ctx, in.PostID, in.Reason, moderation.ApplyPostReport)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	observability.ReportsFiled.WithLabelValues("post").Inc()
	if escalated {
		observability.AutoModerations.WithLabelValues("post_banned").Inc()
	}
	return nil
}

// SweepExpiredPremium clears lapsed premium flags. Gated behind the
// premium_sweep feature flag; without it premium expiry is advisory only.
func (s *PostService) SweepExpiredPremium(ctx context.Context) (int64, error) {
	if !s.flags.Enabled("premium_sweep", "") {
		return 0, nil
	}
	return s.postRepo.ClearExpiredPremium(ctx, s.now())
}
