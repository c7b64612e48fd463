package server

import (
	"time"

	"yanjihub/internal/models"
	"yanjihub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AdminLogin handles POST /api/admin/login
func (s *Server) AdminLogin(c *fiber.Ctx) error {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	token, err := s.adminService.Login(req.Password)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"token": token})
}

// GetAdminStats handles GET /api/admin/stats
func (s *Server) GetAdminStats(c *fiber.Ctx) error {
	stats, err := s.adminService.Stats(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(stats)
}

// GetReports handles GET /api/admin/reports
func (s *Server) GetReports(c *fiber.Ctx) error {
	page := parsePagination(c, 50)
	reports, err := s.adminService.ListReports(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(reports)
}

// ApprovePost handles POST /api/admin/posts/:id/approve
func (s *Server) ApprovePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	post, err := s.adminService.ApprovePost(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// RejectPost handles POST /api/admin/posts/:id/reject
func (s *Server) RejectPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	post, err := s.adminService.RejectPost(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// TogglePostFlag handles POST /api/admin/posts/:id/toggle/:flag
func (s *Server) TogglePostFlag(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	post, err := s.adminService.TogglePostFlag(c.Context(), id, c.Params("flag"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// SetPremium handles POST /api/admin/posts/:id/premium
func (s *Server) SetPremium(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Days int `json:"days"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.adminService.SetPremium(c.Context(), id, req.Days)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// GetInquiries handles GET /api/admin/posts/:id/inquiries
func (s *Server) GetInquiries(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	inquiries, err := s.adminService.ListInquiries(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(inquiries)
}

// DeletePost handles DELETE /api/admin/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.adminService.DeletePost(c.Context(), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteComment handles DELETE /api/admin/comments/:id
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.adminService.DeleteComment(c.Context(), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetBlacklist handles GET /api/admin/blacklist
func (s *Server) GetBlacklist(c *fiber.Ctx) error {
	items, err := s.adminService.ListBlacklist(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(items)
}

// AddBlacklist handles POST /api/admin/blacklist
func (s *Server) AddBlacklist(c *fiber.Ctx) error {
	var req struct {
		Value     string     `json:"value"`
		Reason    string     `json:"reason"`
		ExpiresAt *time.Time `json:"expires_at"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	item, err := s.adminService.AddBlacklist(c.Context(), service.AddBlacklistInput{
		Value:     req.Value,
		Reason:    req.Reason,
		ExpiresAt: req.ExpiresAt,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// RemoveBlacklist handles DELETE /api/admin/blacklist/:id
func (s *Server) RemoveBlacklist(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.adminService.RemoveBlacklist(c.Context(), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetFeatureFlags handles GET /api/admin/feature-flags
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	return c.JSON(s.adminService.Flags())
}

// SetFeatureFlag handles PUT /api/admin/feature-flags/:name
func (s *Server) SetFeatureFlag(c *fiber.Ctx) error {
	var req struct {
		Value string `json:"value"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := s.adminService.SetFlag(c.Params("name"), req.Value); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(s.adminService.Flags())
}

// SweepPremium handles POST /api/admin/premium/sweep
func (s *Server) SweepPremium(c *fiber.Ctx) error {
	cleared, err := s.postService.SweepExpiredPremium(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"cleared": cleared})
}
