package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lyzr/patternatlas/cmd/atlas/container"
	"github.com/lyzr/patternatlas/cmd/atlas/service"
	"github.com/lyzr/patternatlas/common/logger"
)

// RepositoryHandler exposes repository level identifiers
type RepositoryHandler struct {
	kb  *service.KnowledgeBaseService
	log *logger.Logger
}

// NewRepositoryHandler creates a new repository handler
func NewRepositoryHandler(c *container.Container) *RepositoryHandler {
	return &RepositoryHandler{
		kb:  c.KnowledgeBase,
		log: c.Components.Logger,
	}
}

// IDs returns the repository id and category ids
// GET /api/v1/ids
func (h *RepositoryHandler) IDs(c echo.Context) error {
	ids, err := h.kb.RepositoryIDs(c.Request().Context())
	if err != nil {
		return respondError(c, h.log, "failed to fetch repository identifiers", err)
	}
	return c.JSON(http.StatusOK, ids)
}
