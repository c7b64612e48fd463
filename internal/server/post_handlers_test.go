package server

import (
	"net/http"
	"testing"
	"time"

	"yanjihub/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSubmission() fiber.Map {
	return fiber.Map{
		"category":     "BUSINESS",
		"title":        "연길 양꼬치 전문점",
		"description":  "숯불 양꼬치",
		"phone_number": "010-1234-5678",
		"location":     "연길 (延吉)",
		"shop_name":    "고향집",
	}
}

func TestCreatePostHandler(t *testing.T) {
	t.Run("valid submission returns the bilingual post", func(t *testing.T) {
		env := newTestEnv(t, mirrorTranslator())
		resp := env.request(t, http.MethodPost, "/api/posts", validSubmission(), nil)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var post models.Post
		decodeJSON(t, resp, &post)
		assert.NotZero(t, post.ID)
		assert.Equal(t, "연길 양꼬치 전문점", post.TitleKR)
		assert.Equal(t, "연길 양꼬치 전문점", post.TitleCN)
		assert.Equal(t, models.PostStatusActive, post.Status)
	})

	t.Run("partnership submission is held for review", func(t *testing.T) {
		env := newTestEnv(t, mirrorTranslator())
		body := validSubmission()
		body["category"] = "PARTNERSHIP"
		resp := env.request(t, http.MethodPost, "/api/posts", body, nil)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var post models.Post
		decodeJSON(t, resp, &post)
		assert.Equal(t, models.PostStatusPending, post.Status)

		// Pending posts stay off the public feed.
		resp = env.request(t, http.MethodGet, "/api/posts?category=PARTNERSHIP", nil, nil)
		var feed []models.Post
		decodeJSON(t, resp, &feed)
		assert.Empty(t, feed)
	})

	t.Run("missing title is a 400", func(t *testing.T) {
		env := newTestEnv(t, mirrorTranslator())
		body := validSubmission()
		body["title"] = ""
		resp := env.request(t, http.MethodPost, "/api/posts", body, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("blacklisted phone is a 403", func(t *testing.T) {
		env := newTestEnv(t, mirrorTranslator())
		require.NoError(t, env.db.Create(&models.BlacklistItem{
			Type:  models.BlacklistTypePhone,
			Value: "010-1234-5678",
		}).Error)

		resp := env.request(t, http.MethodPost, "/api/posts", validSubmission(), nil)
		require.Equal(t, http.StatusForbidden, resp.StatusCode)

		var body models.ErrorResponse
		decodeJSON(t, resp, &body)
		assert.Equal(t, "BLOCKED_SUBMITTER", body.Code)

		var count int64
		require.NoError(t, env.db.Model(&models.Post{}).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("banned word is a 422", func(t *testing.T) {
		env := newTestEnv(t, mirrorTranslator())
		body := validSubmission()
		body["description"] = "무담보 대출 가능"
		resp := env.request(t, http.MethodPost, "/api/posts", body, nil)
		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

		var errBody models.ErrorResponse
		decodeJSON(t, resp, &errBody)
		assert.Equal(t, "BANNED_CONTENT", errBody.Code)
	})

	t.Run("translation failure is a 502 and persists nothing", func(t *testing.T) {
		env := newTestEnv(t, failingTranslator())
		resp := env.request(t, http.MethodPost, "/api/posts", validSubmission(), nil)
		require.Equal(t, http.StatusBadGateway, resp.StatusCode)

		var errBody models.ErrorResponse
		decodeJSON(t, resp, &errBody)
		assert.Equal(t, "TRANSLATION_FAILED", errBody.Code)

		var count int64
		require.NoError(t, env.db.Model(&models.Post{}).Count(&count).Error)
		assert.Zero(t, count)
	})
}

func TestGetFeedHandler(t *testing.T) {
	t.Run("premium posts lead the page", func(t *testing.T) {
		env := newTestEnv(t, mirrorTranslator())
		base := time.Now().Add(-time.Hour)
		env.seedActivePost(t, func(p *models.Post) {
			p.TitleKR = "보통 글"
			p.CreatedAt = base.Add(30 * time.Minute)
		})
		premium := env.seedActivePost(t, func(p *models.Post) {
			p.TitleKR = "프리미엄 글"
			p.IsPremium = true
			p.CreatedAt = base
		})

		resp := env.request(t, http.MethodGet, "/api/posts?category=BUSINESS", nil, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var feed []models.Post
		decodeJSON(t, resp, &feed)
		require.Len(t, feed, 2)
		assert.Equal(t, premium.ID, feed[0].ID)
	})

	t.Run("unknown category is a 400", func(t *testing.T) {
		env := newTestEnv(t, mirrorTranslator())
		resp := env.request(t, http.MethodGet, "/api/posts?category=NOPE", nil, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("admin token widens the public feed", func(t *testing.T) {
		env := newTestEnv(t, mirrorTranslator())
		env.seedActivePost(t, nil)
		env.seedActivePost(t, func(p *models.Post) { p.Status = models.PostStatusPending })

		resp := env.request(t, http.MethodGet, "/api/posts?category=BUSINESS", nil, nil)
		var feed []models.Post
		decodeJSON(t, resp, &feed)
		assert.Len(t, feed, 1)

		token := env.adminToken(t)
		resp = env.request(t, http.MethodGet, "/api/posts?category=BUSINESS", nil, authHeader(token))
		decodeJSON(t, resp, &feed)
		assert.Len(t, feed, 2)
	})

	t.Run("trilingual search", func(t *testing.T) {
		env := newTestEnv(t, mirrorTranslator())
		env.seedActivePost(t, func(p *models.Post) {
			p.TitleKR = "훈춘 국경 마트"
			p.TitleCN = "珲春边境超市"
		})
		env.seedActivePost(t, nil)

		resp := env.request(t, http.MethodGet, "/api/posts?category=BUSINESS&q=%E8%BE%B9%E5%A2%83", nil, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var feed []models.Post
		decodeJSON(t, resp, &feed)
		require.Len(t, feed, 1)
		assert.Equal(t, "훈춘 국경 마트", feed[0].TitleKR)
	})
}

func TestGetPostHandler(t *testing.T) {
	t.Run("view counter moves", func(t *testing.T) {
		env := newTestEnv(t, mirrorTranslator())
		post := env.seedActivePost(t, nil)

		resp := env.request(t, http.MethodGet, "/api/posts/1", nil, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var got models.Post
		decodeJSON(t, resp, &got)
		assert.Equal(t, post.ID, got.ID)
		assert.Equal(t, 1, got.Views)
	})

	t.Run("pending post is a 404 for the public", func(t *testing.T) {
		env := newTestEnv(t, mirrorTranslator())
		env.seedActivePost(t, func(p *models.Post) { p.Status = models.PostStatusPending })

		resp := env.request(t, http.MethodGet, "/api/posts/1", nil, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		token := env.adminToken(t)
		resp = env.request(t, http.MethodGet, "/api/posts/1", nil, authHeader(token))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("non-numeric id is a 400", func(t *testing.T) {
		env := newTestEnv(t, mirrorTranslator())
		resp := env.request(t, http.MethodGet, "/api/posts/abc", nil, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestReactToPostHandler(t *testing.T) {
	env := newTestEnv(t, mirrorTranslator())
	post := env.seedActivePost(t, nil)

	viewer := map[string]string{"X-Viewer-Key": "0b8f2d8e-6c1a-4f62-9a55-2f4f6f3a9a10"}

	resp := env.request(t, http.MethodPost, "/api/posts/1/reactions", fiber.Map{"kind": "like"}, viewer)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Applied bool `json:"applied"`
	}
	decodeJSON(t, resp, &body)
	assert.True(t, body.Applied)

	// Same viewer repeating the like is absorbed.
	resp = env.request(t, http.MethodPost, "/api/posts/1/reactions", fiber.Map{"kind": "like"}, viewer)
	decodeJSON(t, resp, &body)
	assert.False(t, body.Applied)

	// Invalid kind.
	resp = env.request(t, http.MethodPost, "/api/posts/1/reactions", fiber.Map{"kind": "meh"}, viewer)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Missing post absorbs the reaction silently.
	resp = env.request(t, http.MethodPost, "/api/posts/999/reactions", fiber.Map{"kind": "like"}, viewer)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &body)
	assert.False(t, body.Applied)

	var got models.Post
	require.NoError(t, env.db.First(&got, post.ID).Error)
	assert.Equal(t, 1, got.Likes)
}

func TestReportPostHandler(t *testing.T) {
	env := newTestEnv(t, mirrorTranslator())
	post := env.seedActivePost(t, nil)

	// Four reports leave the post visible.
	for i := 0; i < 4; i++ {
		resp := env.request(t, http.MethodPost, "/api/posts/1/report", fiber.Map{"reason": "spam"}, nil)
		require.Equal(t, http.StatusAccepted, resp.StatusCode)
	}
	var got models.Post
	require.NoError(t, env.db.First(&got, post.ID).Error)
	assert.Equal(t, models.PostStatusActive, got.Status)

	// The fifth bans it.
	resp := env.request(t, http.MethodPost, "/api/posts/1/report", fiber.Map{"reason": "spam"}, nil)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	require.NoError(t, env.db.First(&got, post.ID).Error)
	assert.Equal(t, models.PostStatusBanned, got.Status)

	resp = env.request(t, http.MethodGet, "/api/posts/1", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Reporting a missing post is still accepted.
	resp = env.request(t, http.MethodPost, "/api/posts/999/report", nil, nil)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
}
