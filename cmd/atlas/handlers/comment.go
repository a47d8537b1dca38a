package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lyzr/patternatlas/cmd/atlas/container"
	"github.com/lyzr/patternatlas/cmd/atlas/service"
	"github.com/lyzr/patternatlas/common/logger"
	"github.com/lyzr/patternatlas/common/validation"
)

// CommentHandler handles discussion comments
type CommentHandler struct {
	kb  *service.KnowledgeBaseService
	log *logger.Logger
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(c *container.Container) *CommentHandler {
	return &CommentHandler{
		kb:  c.KnowledgeBase,
		log: c.Components.Logger,
	}
}

// AddCommentRequest is the body of a new comment
type AddCommentRequest struct {
	Body string `json:"body"`
}

// List returns one page of comments
// GET /api/v1/discussions/:id/comments?cursor=
func (h *CommentHandler) List(c echo.Context) error {
	page, err := h.kb.ListComments(c.Request().Context(), c.Param("id"), c.QueryParam("cursor"))
	if err != nil {
		return respondError(c, h.log, "failed to list comments", err)
	}
	return c.JSON(http.StatusOK, page)
}

// Add posts a comment on the discussion
// POST /api/v1/discussions/:id/comments
func (h *CommentHandler) Add(c echo.Context) error {
	var req AddCommentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	comment, err := h.kb.AddComment(c.Request().Context(), validation.AddCommentInput{
		DiscussionID: c.Param("id"),
		Body:         req.Body,
	})
	if err != nil {
		return respondError(c, h.log, "failed to add comment", err)
	}
	return c.JSON(http.StatusCreated, comment)
}
