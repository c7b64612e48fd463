package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"yanjihub/internal/models"
	"yanjihub/internal/moderation"
	"yanjihub/internal/observability"
	"yanjihub/internal/repository"

	"gorm.io/gorm"
)

// CommentService owns comment submission, visibility and engagement.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	wordlist    *moderation.Wordlist
	now         func() time.Time
}

type CreateCommentInput struct {
	PostID   uint
	Nickname string
	Content  string
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	wordlist *moderation.Wordlist,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		wordlist:    wordlist,
		now:         time.Now,
	}
}

const maxCommentLen = 2000

// CreateComment validates and stores a comment on an active post. The
// banned-word gate applies to comments the same as to listings.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Comment content is required")
	}
	if len(content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 2000 characters)")
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", in.PostID)
		}
		return nil, err
	}
	if post.Status != models.PostStatusActive {
		return nil, models.NewNotFoundError("Post", in.PostID)
	}

	if s.wordlist.ContainsBanned(content) {
		observability.SubmissionsRejected.WithLabelValues("banned_word").Inc()
		return nil, models.NewBannedContentError()
	}

	nickname := strings.TrimSpace(in.Nickname)
	if nickname == "" {
		nickname = models.DefaultNickname
	}

	comment := &models.Comment{
		PostID:   in.PostID,
		Nickname: nickname,
		Content:  content,
		Status:   models.CommentStatusActive,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListComments returns the visible comments for a post, most-liked first.
// Admin viewers also see hidden comments.
func (s *CommentService) ListComments(ctx context.Context, postID uint, isAdmin bool) ([]*models.Comment, error) {
	if isAdmin {
		return s.commentRepo.ListAllByPost(ctx, postID)
	}
	return s.commentRepo.ListVisibleByPost(ctx, postID)
}

// LikeComment records a like for the viewer, once per comment.
func (s *CommentService) LikeComment(ctx context.Context, viewerKey string, commentID uint) (bool, error) {
	applied, err := s.commentRepo.Like(ctx, viewerKey, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	if !applied {
		observability.ReactionDedupHits.WithLabelValues("comment").Inc()
	}
	return applied, nil
}

// ReportComment files a report and applies the hide threshold. Reporting
// a missing comment is a silent no-op.
func (s *CommentService) ReportComment(ctx context.Context, commentID uint, reason string) error {
	_, escalated, err := s.commentRepo.FileReport(ctx, commentID, reason, moderation.ApplyCommentReport)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	observability.ReportsFiled.WithLabelValues("comment").Inc()
	if escalated {
		observability.AutoModerations.WithLabelValues("comment_hidden").Inc()
	}
	return nil
}
