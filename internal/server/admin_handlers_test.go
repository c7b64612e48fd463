package server

import (
	"net/http"
	"testing"
	"time"

	"yanjihub/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminLoginHandler(t *testing.T) {
	env := newTestEnv(t, mirrorTranslator())

	resp := env.request(t, http.MethodPost, "/api/admin/login", fiber.Map{"password": "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token := env.adminToken(t)
	assert.NotEmpty(t, token)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t, mirrorTranslator())

	t.Run("no token", func(t *testing.T) {
		resp := env.request(t, http.MethodGet, "/api/admin/stats", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("malformed header", func(t *testing.T) {
		resp := env.request(t, http.MethodGet, "/api/admin/stats", nil, map[string]string{
			"Authorization": "garbage",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("token without the admin role", func(t *testing.T) {
		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"role": "viewer",
			"exp":  time.Now().Add(time.Hour).Unix(),
		})
		signed, err := tok.SignedString([]byte(testSecret))
		require.NoError(t, err)
		resp := env.request(t, http.MethodGet, "/api/admin/stats", nil, authHeader(signed))
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("expired token", func(t *testing.T) {
		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"role": "admin",
			"exp":  time.Now().Add(-time.Hour).Unix(),
		})
		signed, err := tok.SignedString([]byte(testSecret))
		require.NoError(t, err)
		resp := env.request(t, http.MethodGet, "/api/admin/stats", nil, authHeader(signed))
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestApproveRejectHandlers(t *testing.T) {
	env := newTestEnv(t, mirrorTranslator())
	token := env.adminToken(t)

	env.seedActivePost(t, func(p *models.Post) {
		p.Category = models.CategoryPartnership
		p.Status = models.PostStatusPending
	})
	env.seedActivePost(t, func(p *models.Post) {
		p.Category = models.CategoryPartnership
		p.Status = models.PostStatusPending
	})

	resp := env.request(t, http.MethodPost, "/api/admin/posts/1/approve", nil, authHeader(token))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var post models.Post
	decodeJSON(t, resp, &post)
	assert.Equal(t, models.PostStatusActive, post.Status)

	resp = env.request(t, http.MethodPost, "/api/admin/posts/2/reject", nil, authHeader(token))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &post)
	assert.Equal(t, models.PostStatusRejected, post.Status)

	// Approving an already-resolved post is refused.
	resp = env.request(t, http.MethodPost, "/api/admin/posts/2/approve", nil, authHeader(token))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.request(t, http.MethodPost, "/api/admin/posts/999/approve", nil, authHeader(token))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSetPremiumHandler(t *testing.T) {
	env := newTestEnv(t, mirrorTranslator())
	token := env.adminToken(t)
	env.seedActivePost(t, nil)

	resp := env.request(t, http.MethodPost, "/api/admin/posts/1/premium", fiber.Map{"days": 7}, authHeader(token))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var post models.Post
	decodeJSON(t, resp, &post)
	assert.True(t, post.IsPremium)
	require.NotNil(t, post.PremiumUntil)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), *post.PremiumUntil, time.Minute)

	resp = env.request(t, http.MethodPost, "/api/admin/posts/1/premium", fiber.Map{"days": 0}, authHeader(token))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTogglePostFlagHandler(t *testing.T) {
	env := newTestEnv(t, mirrorTranslator())
	token := env.adminToken(t)
	env.seedActivePost(t, nil)

	resp := env.request(t, http.MethodPost, "/api/admin/posts/1/toggle/urgent", nil, authHeader(token))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var post models.Post
	decodeJSON(t, resp, &post)
	assert.True(t, post.IsUrgent)

	resp = env.request(t, http.MethodPost, "/api/admin/posts/1/toggle/urgent", nil, authHeader(token))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &post)
	assert.False(t, post.IsUrgent)

	resp = env.request(t, http.MethodPost, "/api/admin/posts/1/toggle/sticky", nil, authHeader(token))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.request(t, http.MethodPost, "/api/admin/posts/99/toggle/ad", nil, authHeader(token))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteHandlers(t *testing.T) {
	env := newTestEnv(t, mirrorTranslator())
	token := env.adminToken(t)
	post := env.seedActivePost(t, nil)
	env.seedComment(t, post.ID, nil)

	resp := env.request(t, http.MethodDelete, "/api/admin/comments/1", nil, authHeader(token))
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = env.request(t, http.MethodDelete, "/api/admin/posts/1", nil, authHeader(token))
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = env.request(t, http.MethodGet, "/api/posts/1", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Deletes are idempotent.
	resp = env.request(t, http.MethodDelete, "/api/admin/posts/1", nil, authHeader(token))
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestBlacklistHandlers(t *testing.T) {
	env := newTestEnv(t, mirrorTranslator())
	token := env.adminToken(t)

	resp := env.request(t, http.MethodPost, "/api/admin/blacklist", fiber.Map{
		"value":  "010-7777-8888",
		"reason": "repeat scammer",
	}, authHeader(token))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var item models.BlacklistItem
	decodeJSON(t, resp, &item)
	assert.Equal(t, models.BlacklistTypePhone, item.Type)

	resp = env.request(t, http.MethodGet, "/api/admin/blacklist", nil, authHeader(token))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var items []models.BlacklistItem
	decodeJSON(t, resp, &items)
	require.Len(t, items, 1)

	// A submission from the listed phone is now refused.
	body := validSubmission()
	body["phone_number"] = "010-7777-8888"
	resp = env.request(t, http.MethodPost, "/api/posts", body, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = env.request(t, http.MethodDelete, "/api/admin/blacklist/1", nil, authHeader(token))
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = env.request(t, http.MethodPost, "/api/posts", body, nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestAdminStatsHandler(t *testing.T) {
	env := newTestEnv(t, mirrorTranslator())
	token := env.adminToken(t)

	env.seedActivePost(t, nil)
	env.seedActivePost(t, func(p *models.Post) {
		p.Category = models.CategoryPartnership
		p.Status = models.PostStatusPending
	})
	env.seedActivePost(t, func(p *models.Post) {
		p.IsPremium = true
	})
	env.request(t, http.MethodPost, "/api/posts/1/report", nil, nil)

	resp := env.request(t, http.MethodGet, "/api/admin/stats", nil, authHeader(token))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stats models.AdminStats
	decodeJSON(t, resp, &stats)
	assert.Equal(t, int64(3), stats.TotalPosts)
	assert.Equal(t, int64(1), stats.PendingPosts)
	assert.Equal(t, int64(1), stats.OpenReports)
	assert.Equal(t, int64(1), stats.PremiumActive)
}

func TestReportsListAndResolution(t *testing.T) {
	env := newTestEnv(t, mirrorTranslator())
	token := env.adminToken(t)
	env.seedActivePost(t, nil)

	env.request(t, http.MethodPost, "/api/posts/1/report", fiber.Map{"reason": "spam"}, nil)
	env.request(t, http.MethodPost, "/api/posts/1/report", fiber.Map{"reason": "scam"}, nil)

	resp := env.request(t, http.MethodGet, "/api/admin/reports", nil, authHeader(token))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var reports []models.Report
	decodeJSON(t, resp, &reports)
	assert.Len(t, reports, 2)

	// Deleting the post closes its open reports.
	resp = env.request(t, http.MethodDelete, "/api/admin/posts/1", nil, authHeader(token))
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = env.request(t, http.MethodGet, "/api/admin/reports", nil, authHeader(token))
	decodeJSON(t, resp, &reports)
	assert.Empty(t, reports)
}

func TestFeatureFlagHandlers(t *testing.T) {
	env := newTestEnv(t, mirrorTranslator())
	token := env.adminToken(t)

	expired := time.Now().Add(-time.Hour)
	env.seedActivePost(t, func(p *models.Post) {
		p.IsPremium = true
		p.PremiumUntil = &expired
	})

	// The sweep is inert until its flag is turned on.
	resp := env.request(t, http.MethodPost, "/api/admin/premium/sweep", nil, authHeader(token))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sweep struct {
		Cleared int64 `json:"cleared"`
	}
	decodeJSON(t, resp, &sweep)
	assert.Zero(t, sweep.Cleared)

	resp = env.request(t, http.MethodPut, "/api/admin/feature-flags/premium_sweep", fiber.Map{"value": "on"}, authHeader(token))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var flags map[string]string
	decodeJSON(t, resp, &flags)
	assert.Equal(t, "on", flags["premium_sweep"])

	resp = env.request(t, http.MethodPost, "/api/admin/premium/sweep", nil, authHeader(token))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &sweep)
	assert.Equal(t, int64(1), sweep.Cleared)

	var post models.Post
	require.NoError(t, env.db.First(&post, 1).Error)
	assert.False(t, post.IsPremium)
}
