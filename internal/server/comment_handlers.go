package server

import (
	"yanjihub/internal/middleware"
	"yanjihub/internal/models"
	"yanjihub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateComment handles POST /api/posts/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	ctx := c.Context()
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Nickname string `json:"nickname"`
		Content  string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.CreateComment(ctx, service.CreateCommentInput{
		PostID:   postID,
		Nickname: req.Nickname,
		Content:  req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetComments handles GET /api/posts/:id/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	ctx := c.Context()
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comments, err := s.commentService.ListComments(ctx, postID, false)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(comments)
}

// GetAdminComments handles GET /api/admin/posts/:id/comments, hidden included.
func (s *Server) GetAdminComments(c *fiber.Ctx) error {
	ctx := c.Context()
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comments, err := s.commentService.ListComments(ctx, postID, true)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(comments)
}

// LikeComment handles POST /api/comments/:id/like
func (s *Server) LikeComment(c *fiber.Ctx) error {
	ctx := c.Context()
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	applied, err := s.commentService.LikeComment(ctx, middleware.ViewerKeyFromCtx(c), commentID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"applied": applied})
}

// ReportComment handles POST /api/comments/:id/report
func (s *Server) ReportComment(c *fiber.Ctx) error {
	ctx := c.Context()
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.BodyParser(&req)

	if err := s.commentService.ReportComment(ctx, commentID, req.Reason); err != nil {
		return respondServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusAccepted)
}

// CreateInquiry handles POST /api/posts/:id/inquiries
func (s *Server) CreateInquiry(c *fiber.Ctx) error {
	ctx := c.Context()
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		SenderName string `json:"sender_name"`
		Message    string `json:"message"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	inquiry, err := s.inquiryService.CreateInquiry(ctx, service.CreateInquiryInput{
		PostID:     postID,
		SenderName: req.SenderName,
		Message:    req.Message,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(inquiry)
}
