package service

import (
	"context"
	"testing"
	"time"

	"yanjihub/internal/models"
	"yanjihub/internal/repository"
	"yanjihub/internal/translate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn              func(context.Context, *models.Post) error
	getByIDFn             func(context.Context, uint) (*models.Post, error)
	feedFn                func(context.Context, repository.FeedQuery) ([]*models.Post, error)
	updateFn              func(context.Context, *models.Post) error
	updateStatusFn        func(context.Context, uint, models.PostStatus) error
	deleteFn              func(context.Context, uint) error
	incrementViewFn       func(context.Context, uint) error
	fileReportFn          func(context.Context, uint, string, func(models.PostStatus, int) models.PostStatus) (*models.Post, bool, error)
	reactFn               func(context.Context, string, uint, models.ReactionKind) (bool, error)
	clearExpiredPremiumFn func(context.Context, time.Time) (int64, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) Feed(ctx context.Context, q repository.FeedQuery) ([]*models.Post, error) {
	return s.feedFn(ctx, q)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) UpdateStatus(ctx context.Context, id uint, status models.PostStatus) error {
	return s.updateStatusFn(ctx, id, status)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) IncrementView(ctx context.Context, id uint) error {
	return s.incrementViewFn(ctx, id)
}
func (s *postRepoStub) FileReport(ctx context.Context, id uint, reason string, escalate func(models.PostStatus, int) models.PostStatus) (*models.Post, bool, error) {
	return s.fileReportFn(ctx, id, reason, escalate)
}
func (s *postRepoStub) React(ctx context.Context, viewerKey string, postID uint, kind models.ReactionKind) (bool, error) {
	return s.reactFn(ctx, viewerKey, postID, kind)
}
func (s *postRepoStub) ClearExpiredPremium(ctx context.Context, now time.Time) (int64, error) {
	return s.clearExpiredPremiumFn(ctx, now)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, Status: models.PostStatusActive}, nil
		},
		feedFn:         func(_ context.Context, _ repository.FeedQuery) ([]*models.Post, error) { return nil, nil },
		updateFn:       func(_ context.Context, _ *models.Post) error { return nil },
		updateStatusFn: func(_ context.Context, _ uint, _ models.PostStatus) error { return nil },
		deleteFn:       func(_ context.Context, _ uint) error { return nil },
		incrementViewFn: func(_ context.Context, _ uint) error {
			return nil
		},
		fileReportFn: func(_ context.Context, id uint, _ string, escalate func(models.PostStatus, int) models.PostStatus) (*models.Post, bool, error) {
			post := &models.Post{ID: id, Status: models.PostStatusActive, ReportCount: 1}
			next := escalate(post.Status, post.ReportCount)
			escalated := next != post.Status
			post.Status = next
			return post, escalated, nil
		},
		reactFn: func(_ context.Context, _ string, _ uint, _ models.ReactionKind) (bool, error) {
			return true, nil
		},
		clearExpiredPremiumFn: func(_ context.Context, _ time.Time) (int64, error) { return 0, nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn            func(context.Context, *models.Comment) error
	getByIDFn           func(context.Context, uint) (*models.Comment, error)
	listVisibleByPostFn func(context.Context, uint) ([]*models.Comment, error)
	listAllByPostFn     func(context.Context, uint) ([]*models.Comment, error)
	updateStatusFn      func(context.Context, uint, models.CommentStatus) error
	deleteFn            func(context.Context, uint) error
	fileReportFn        func(context.Context, uint, string, func(models.CommentStatus, int) models.CommentStatus) (*models.Comment, bool, error)
	likeFn              func(context.Context, string, uint) (bool, error)
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListVisibleByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	return s.listVisibleByPostFn(ctx, postID)
}
func (s *commentRepoStub) ListAllByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	return s.listAllByPostFn(ctx, postID)
}
func (s *commentRepoStub) UpdateStatus(ctx context.Context, id uint, status models.CommentStatus) error {
	return s.updateStatusFn(ctx, id, status)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *commentRepoStub) FileReport(ctx context.Context, id uint, reason string, escalate func(models.CommentStatus, int) models.CommentStatus) (*models.Comment, bool, error) {
	return s.fileReportFn(ctx, id, reason, escalate)
}
func (s *commentRepoStub) Like(ctx context.Context, viewerKey string, commentID uint) (bool, error) {
	return s.likeFn(ctx, viewerKey, commentID)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, Status: models.CommentStatusActive}, nil
		},
		listVisibleByPostFn: func(_ context.Context, _ uint) ([]*models.Comment, error) { return nil, nil },
		listAllByPostFn:     func(_ context.Context, _ uint) ([]*models.Comment, error) { return nil, nil },
		updateStatusFn:      func(_ context.Context, _ uint, _ models.CommentStatus) error { return nil },
		deleteFn:            func(_ context.Context, _ uint) error { return nil },
		fileReportFn: func(_ context.Context, id uint, _ string, escalate func(models.CommentStatus, int) models.CommentStatus) (*models.Comment, bool, error) {
			comment := &models.Comment{ID: id, Status: models.CommentStatusActive, ReportCount: 1}
			next := escalate(comment.Status, comment.ReportCount)
			escalated := next != comment.Status
			comment.Status = next
			return comment, escalated, nil
		},
		likeFn: func(_ context.Context, _ string, _ uint) (bool, error) { return true, nil },
	}
}

// blacklistRepoStub is a stub for repository.BlacklistRepository.
type blacklistRepoStub struct {
	createFn func(context.Context, *models.BlacklistItem) error
	deleteFn func(context.Context, uint) error
	listFn   func(context.Context) ([]models.BlacklistItem, error)
}

func (s *blacklistRepoStub) Create(ctx context.Context, item *models.BlacklistItem) error {
	return s.createFn(ctx, item)
}
func (s *blacklistRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *blacklistRepoStub) List(ctx context.Context) ([]models.BlacklistItem, error) {
	return s.listFn(ctx)
}

func noopBlacklistRepo() *blacklistRepoStub {
	return &blacklistRepoStub{
		createFn: func(_ context.Context, _ *models.BlacklistItem) error { return nil },
		deleteFn: func(_ context.Context, _ uint) error { return nil },
		listFn:   func(_ context.Context) ([]models.BlacklistItem, error) { return nil, nil },
	}
}

// reportRepoStub is a stub for repository.ReportRepository.
type reportRepoStub struct {
	listOpenFn     func(context.Context, int, int) ([]*models.Report, error)
	closeForPostFn func(context.Context, uint) error
	statsFn        func(context.Context, time.Time) (*models.AdminStats, error)
}

func (s *reportRepoStub) ListOpen(ctx context.Context, limit, offset int) ([]*models.Report, error) {
	return s.listOpenFn(ctx, limit, offset)
}
func (s *reportRepoStub) CloseForPost(ctx context.Context, postID uint) error {
	return s.closeForPostFn(ctx, postID)
}
func (s *reportRepoStub) Stats(ctx context.Context, now time.Time) (*models.AdminStats, error) {
	return s.statsFn(ctx, now)
}

func noopReportRepo() *reportRepoStub {
	return &reportRepoStub{
		listOpenFn:     func(_ context.Context, _, _ int) ([]*models.Report, error) { return nil, nil },
		closeForPostFn: func(_ context.Context, _ uint) error { return nil },
		statsFn:        func(_ context.Context, _ time.Time) (*models.AdminStats, error) { return &models.AdminStats{}, nil },
	}
}

// inquiryRepoStub is a stub for repository.InquiryRepository.
type inquiryRepoStub struct {
	createFn     func(context.Context, *models.InquiryMessage) error
	listByPostFn func(context.Context, uint) ([]*models.InquiryMessage, error)
}

func (s *inquiryRepoStub) Create(ctx context.Context, inquiry *models.InquiryMessage) error {
	return s.createFn(ctx, inquiry)
}
func (s *inquiryRepoStub) ListByPost(ctx context.Context, postID uint) ([]*models.InquiryMessage, error) {
	return s.listByPostFn(ctx, postID)
}

func noopInquiryRepo() *inquiryRepoStub {
	return &inquiryRepoStub{
		createFn:     func(_ context.Context, _ *models.InquiryMessage) error { return nil },
		listByPostFn: func(_ context.Context, _ uint) ([]*models.InquiryMessage, error) { return nil, nil },
	}
}

// translatorStub implements translate.Translator.
type translatorStub struct {
	translateFn func(context.Context, translate.Input) (*translate.Result, error)
}

func (s *translatorStub) Translate(ctx context.Context, in translate.Input) (*translate.Result, error) {
	return s.translateFn(ctx, in)
}

// mirrorTranslator copies the source text into both languages, like the
// passthrough mode used when no API key is configured.
func mirrorTranslator() *translatorStub {
	return &translatorStub{
		translateFn: func(_ context.Context, in translate.Input) (*translate.Result, error) {
			return &translate.Result{
				TitleKR:       in.Title,
				TitleCN:       in.Title,
				DescriptionKR: in.Description,
				DescriptionCN: in.Description,
			}, nil
		},
	}
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, "VALIDATION_ERROR")
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok, "expected *models.AppError, got %T", err)
	assert.Equal(t, code, appErr.Code)
}
