package server

import (
	"strings"

	"yanjihub/internal/middleware"
	"yanjihub/internal/models"
	"yanjihub/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// optionalAdmin reports whether the request carries a valid admin token.
// Public routes use it to widen visibility without requiring one.
func (s *Server) optionalAdmin(c *fiber.Ctx) bool {
	if middleware.IsAdmin(c) {
		return true
	}
	authHeader := c.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return false
	}
	token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return false
	}
	role, _ := claims["role"].(string)
	return role == "admin"
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	ctx := c.Context()

	var req struct {
		Category    string `json:"category"`
		Title       string `json:"title"`
		Description string `json:"description"`
		PhoneNumber string `json:"phone_number"`
		WechatID    string `json:"wechat_id"`
		Location    string `json:"location"`

		Salary           string   `json:"salary"`
		Price            string   `json:"price"`
		Area             string   `json:"area"`
		ShopName         string   `json:"shop_name"`
		Address          string   `json:"address"`
		OpenHours        string   `json:"open_hours"`
		Tags             []string `json:"tags"`
		DealType         string   `json:"deal_type"`
		EstateType       string   `json:"estate_type"`
		Floor            string   `json:"floor"`
		MoveInDate       string   `json:"move_in_date"`
		StartDate        string   `json:"start_date"`
		EndDate          string   `json:"end_date"`
		PromoType        string   `json:"promo_type"`
		Photos           []string `json:"photos"`
		IsKoreanRequired bool     `json:"is_korean_required"`
		HasDormitory     bool     `json:"has_dormitory"`
		IsUrgent         bool     `json:"is_urgent"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(ctx, service.CreatePostInput{
		Category:         models.Category(req.Category),
		Title:            req.Title,
		Description:      req.Description,
		PhoneNumber:      req.PhoneNumber,
		WechatID:         req.WechatID,
		Location:         req.Location,
		Salary:           req.Salary,
		Price:            req.Price,
		Area:             req.Area,
		ShopName:         req.ShopName,
		Address:          req.Address,
		OpenHours:        req.OpenHours,
		Tags:             req.Tags,
		DealType:         req.DealType,
		EstateType:       req.EstateType,
		Floor:            req.Floor,
		MoveInDate:       req.MoveInDate,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		PromoType:        req.PromoType,
		Photos:           req.Photos,
		IsKoreanRequired: req.IsKoreanRequired,
		HasDormitory:     req.HasDormitory,
		IsUrgent:         req.IsUrgent,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetFeed handles GET /api/posts?category=...&q=...&region=...
func (s *Server) GetFeed(c *fiber.Ctx) error {
	ctx := c.Context()
	page := parsePagination(c, 50)

	posts, err := s.postService.Feed(ctx, service.FeedInput{
		Category: models.Category(c.Query("category")),
		Search:   c.Query("q"),
		Region:   c.Query("region"),
		IsAdmin:  s.optionalAdmin(c),
		Limit:    page.Limit,
		Offset:   page.Offset,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(posts)
}

// GetAdminFeed handles GET /api/admin/posts; every moderation status is visible.
func (s *Server) GetAdminFeed(c *fiber.Ctx) error {
	ctx := c.Context()
	page := parsePagination(c, 50)

	posts, err := s.postService.Feed(ctx, service.FeedInput{
		Category: models.Category(c.Query("category")),
		Search:   c.Query("q"),
		Region:   c.Query("region"),
		IsAdmin:  true,
		Limit:    page.Limit,
		Offset:   page.Offset,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(ctx, id, s.optionalAdmin(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(post)
}

// ReactToPost handles POST /api/posts/:id/reactions
func (s *Server) ReactToPost(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Kind string `json:"kind"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	applied, err := s.postService.React(ctx, middleware.ViewerKeyFromCtx(c), id, models.ReactionKind(req.Kind))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"applied": applied})
}

// ReportPost handles POST /api/posts/:id/report
func (s *Server) ReportPost(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Reason string `json:"reason"`
	}
	// Reports without a body are accepted; the reason is optional.
	_ = c.BodyParser(&req)

	if err := s.postService.ReportPost(ctx, service.ReportPostInput{
		PostID: id,
		Reason: req.Reason,
	}); err != nil {
		return respondServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusAccepted)
}
