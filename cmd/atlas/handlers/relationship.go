package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/lyzr/patternatlas/cmd/atlas/container"
	"github.com/lyzr/patternatlas/cmd/atlas/service"
	"github.com/lyzr/patternatlas/common/logger"
	"github.com/lyzr/patternatlas/common/validation"
)

// RelationshipHandler handles pattern to solution implementation links
type RelationshipHandler struct {
	kb  *service.KnowledgeBaseService
	log *logger.Logger
}

// NewRelationshipHandler creates a new relationship handler
func NewRelationshipHandler(c *container.Container) *RelationshipHandler {
	return &RelationshipHandler{
		kb:  c.KnowledgeBase,
		log: c.Components.Logger,
	}
}

// Create links a pattern to a solution implementation
// POST /api/v1/relationships
func (h *RelationshipHandler) Create(c echo.Context) error {
	var req validation.CreateRelationshipInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	rel, err := h.kb.CreateRelationship(c.Request().Context(), req)
	if err != nil && rel != nil {
		// The relationship exists but at least one endpoint does not list it yet
		h.log.WithContext(c.Request().Context()).Error("relationship partially linked", "number", rel.Number, "error", err)
		return c.JSON(http.StatusBadGateway, map[string]interface{}{
			"error":        "relationship created but not linked on both endpoints",
			"details":      err.Error(),
			"relationship": rel,
		})
	}
	if err != nil {
		return respondError(c, h.log, "failed to create relationship", err)
	}

	return c.JSON(http.StatusCreated, rel)
}

// Get returns a relationship by number
// GET /api/v1/relationships/:number
func (h *RelationshipHandler) Get(c echo.Context) error {
	number, ok := parseNumber(c, "number")
	if !ok {
		return badRequest(c, "invalid number")
	}

	rel, err := h.kb.GetRelationship(c.Request().Context(), number)
	if err != nil {
		return respondError(c, h.log, "failed to get relationship", err)
	}
	return c.JSON(http.StatusOK, rel)
}

// Linked returns the entity on the other side of the relationship from source
// GET /api/v1/relationships/:number/linked?source=
func (h *RelationshipHandler) Linked(c echo.Context) error {
	number, ok := parseNumber(c, "number")
	if !ok {
		return badRequest(c, "invalid number")
	}
	source, err := strconv.Atoi(c.QueryParam("source"))
	if err != nil || source < 1 {
		return badRequest(c, "source query parameter must be a discussion number")
	}

	e, err := h.kb.ResolveLinkedEntity(c.Request().Context(), number, source)
	if err != nil {
		return respondError(c, h.log, "failed to resolve linked entity", err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"kind":   e.EntityKind(),
		"entity": e,
	})
}
