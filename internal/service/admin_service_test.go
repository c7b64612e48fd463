package service

import (
	"context"
	"testing"
	"time"

	"yanjihub/internal/featureflags"
	"yanjihub/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret"

func newTestAdminService(postRepo *postRepoStub, reportRepo *reportRepoStub, passwordHash string) *AdminService {
	return NewAdminService(
		postRepo,
		noopCommentRepo(),
		noopBlacklistRepo(),
		reportRepo,
		noopInquiryRepo(),
		featureflags.NewManager(""),
		passwordHash,
		testJWTSecret,
	)
}

func TestAdminService_Login(t *testing.T) {
	t.Parallel()

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)

	t.Run("valid password issues admin token", func(t *testing.T) {
		t.Parallel()
		svc := newTestAdminService(noopPostRepo(), noopReportRepo(), string(hash))
		signed, err := svc.Login("hunter2")
		require.NoError(t, err)

		token, err := jwt.Parse(signed, func(_ *jwt.Token) (interface{}, error) {
			return []byte(testJWTSecret), nil
		})
		require.NoError(t, err)
		claims, ok := token.Claims.(jwt.MapClaims)
		require.True(t, ok)
		assert.Equal(t, "admin", claims["role"])
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()
		svc := newTestAdminService(noopPostRepo(), noopReportRepo(), string(hash))
		_, err := svc.Login("wrong")
		assertAppErrorCode(t, err, "UNAUTHORIZED")
	})

	t.Run("unconfigured hash", func(t *testing.T) {
		t.Parallel()
		svc := newTestAdminService(noopPostRepo(), noopReportRepo(), "")
		_, err := svc.Login("anything")
		assertAppErrorCode(t, err, "UNAUTHORIZED")
	})
}

func TestAdminService_ApproveRejectPost(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	pendingRepo := func(status models.PostStatus) (*postRepoStub, *models.PostStatus) {
		var applied models.PostStatus
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, Status: status}, nil
		}
		repo.updateStatusFn = func(_ context.Context, _ uint, s models.PostStatus) error {
			applied = s
			return nil
		}
		return repo, &applied
	}

	t.Run("approve pending", func(t *testing.T) {
		t.Parallel()
		repo, applied := pendingRepo(models.PostStatusPending)
		var closedPost uint
		reportRepo := noopReportRepo()
		reportRepo.closeForPostFn = func(_ context.Context, postID uint) error {
			closedPost = postID
			return nil
		}
		svc := newTestAdminService(repo, reportRepo, "")
		post, err := svc.ApprovePost(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, models.PostStatusActive, *applied)
		assert.Equal(t, models.PostStatusActive, post.Status)
		assert.Equal(t, uint(5), closedPost)
	})

	t.Run("reject pending", func(t *testing.T) {
		t.Parallel()
		repo, applied := pendingRepo(models.PostStatusPending)
		svc := newTestAdminService(repo, noopReportRepo(), "")
		post, err := svc.RejectPost(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, models.PostStatusRejected, *applied)
		assert.Equal(t, models.PostStatusRejected, post.Status)
	})

	t.Run("approve non-pending refused", func(t *testing.T) {
		t.Parallel()
		repo, _ := pendingRepo(models.PostStatusBanned)
		svc := newTestAdminService(repo, noopReportRepo(), "")
		_, err := svc.ApprovePost(ctx, 5)
		assertValidationError(t, err)
	})

	t.Run("missing post", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) {
			return nil, gorm.ErrRecordNotFound
		}
		svc := newTestAdminService(repo, noopReportRepo(), "")
		_, err := svc.ApprovePost(ctx, 99)
		assertAppErrorCode(t, err, "NOT_FOUND")
	})
}

func TestAdminService_SetPremium(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("non-positive days", func(t *testing.T) {
		t.Parallel()
		svc := newTestAdminService(noopPostRepo(), noopReportRepo(), "")
		_, err := svc.SetPremium(ctx, 1, 0)
		assertValidationError(t, err)
	})

	t.Run("grants a premium window from now", func(t *testing.T) {
		t.Parallel()
		var saved *models.Post
		repo := noopPostRepo()
		repo.updateFn = func(_ context.Context, p *models.Post) error {
			saved = p
			return nil
		}
		svc := newTestAdminService(repo, noopReportRepo(), "")
		before := time.Now()
		post, err := svc.SetPremium(ctx, 1, 7)
		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.True(t, post.IsPremium)
		require.NotNil(t, post.PremiumUntil)
		want := before.Add(7 * 24 * time.Hour)
		assert.WithinDuration(t, want, *post.PremiumUntil, time.Minute)
	})
}

func TestAdminService_TogglePostFlag(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("unknown flag", func(t *testing.T) {
		t.Parallel()
		svc := newTestAdminService(noopPostRepo(), noopReportRepo(), "")
		_, err := svc.TogglePostFlag(ctx, 1, "sticky")
		assertValidationError(t, err)
	})

	t.Run("missing post", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		repo.getByIDFn = func(context.Context, uint) (*models.Post, error) {
			return nil, gorm.ErrRecordNotFound
		}
		svc := newTestAdminService(repo, noopReportRepo(), "")
		_, err := svc.TogglePostFlag(ctx, 99, "urgent")
		assertAppErrorCode(t, err, "NOT_FOUND")
	})

	t.Run("urgent flips on and off", func(t *testing.T) {
		t.Parallel()
		svc := newTestAdminService(noopPostRepo(), noopReportRepo(), "")
		post, err := svc.TogglePostFlag(ctx, 1, "urgent")
		require.NoError(t, err)
		assert.True(t, post.IsUrgent)
	})

	t.Run("premium off clears the paid window", func(t *testing.T) {
		t.Parallel()
		until := time.Now().Add(24 * time.Hour)
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{
				ID:           id,
				Status:       models.PostStatusActive,
				IsPremium:    true,
				PremiumUntil: &until,
			}, nil
		}
		svc := newTestAdminService(repo, noopReportRepo(), "")
		post, err := svc.TogglePostFlag(ctx, 1, "premium")
		require.NoError(t, err)
		assert.False(t, post.IsPremium)
		assert.Nil(t, post.PremiumUntil)
	})
}

func TestAdminService_Deletes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("deleting a missing post is a silent no-op", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		repo.deleteFn = func(_ context.Context, _ uint) error {
			return gorm.ErrRecordNotFound
		}
		svc := newTestAdminService(repo, noopReportRepo(), "")
		require.NoError(t, svc.DeletePost(ctx, 99))
	})

	t.Run("deleting a post closes its reports", func(t *testing.T) {
		t.Parallel()
		var closedPost uint
		reportRepo := noopReportRepo()
		reportRepo.closeForPostFn = func(_ context.Context, postID uint) error {
			closedPost = postID
			return nil
		}
		svc := newTestAdminService(noopPostRepo(), reportRepo, "")
		require.NoError(t, svc.DeletePost(ctx, 7))
		assert.Equal(t, uint(7), closedPost)
	})
}

func TestAdminService_Blacklist(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("empty value", func(t *testing.T) {
		t.Parallel()
		svc := newTestAdminService(noopPostRepo(), noopReportRepo(), "")
		_, err := svc.AddBlacklist(ctx, AddBlacklistInput{Value: "  "})
		assertValidationError(t, err)
	})

	t.Run("adds a phone entry", func(t *testing.T) {
		t.Parallel()
		var stored *models.BlacklistItem
		blacklistRepo := noopBlacklistRepo()
		blacklistRepo.createFn = func(_ context.Context, item *models.BlacklistItem) error {
			stored = item
			return nil
		}
		svc := NewAdminService(
			noopPostRepo(), noopCommentRepo(), blacklistRepo, noopReportRepo(), noopInquiryRepo(),
			featureflags.NewManager(""), "", testJWTSecret,
		)
		item, err := svc.AddBlacklist(ctx, AddBlacklistInput{Value: " 010-1234-5678 ", Reason: "scam"})
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, models.BlacklistTypePhone, item.Type)
		assert.Equal(t, "010-1234-5678", item.Value)
	})
}

func TestAdminService_Flags(t *testing.T) {
	t.Parallel()

	flags := featureflags.NewManager("")
	svc := NewAdminService(
		noopPostRepo(), noopCommentRepo(), noopBlacklistRepo(), noopReportRepo(), noopInquiryRepo(),
		flags, "", testJWTSecret,
	)

	require.Error(t, svc.SetFlag("  ", "on"))
	require.NoError(t, svc.SetFlag("premium_sweep", "on"))
	assert.True(t, flags.Enabled("premium_sweep", ""))
	assert.Equal(t, "on", svc.Flags()["premium_sweep"])
}
