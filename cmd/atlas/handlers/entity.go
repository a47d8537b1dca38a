package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/lyzr/patternatlas/cmd/atlas/container"
	"github.com/lyzr/patternatlas/cmd/atlas/service"
	"github.com/lyzr/patternatlas/common/logger"
	"github.com/lyzr/patternatlas/common/models"
	"github.com/lyzr/patternatlas/common/validation"
)

// EntityHandler serves one entity kind: patterns or solution implementations
type EntityHandler struct {
	kind models.Kind
	kb   *service.KnowledgeBaseService
	log  *logger.Logger
}

// NewEntityHandler creates a new entity handler for kind
func NewEntityHandler(c *container.Container, kind models.Kind) *EntityHandler {
	return &EntityHandler{
		kind: kind,
		kb:   c.KnowledgeBase,
		log:  c.Components.Logger,
	}
}

func parseNumber(c echo.Context, param string) (int, bool) {
	n, err := strconv.Atoi(c.Param(param))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// List returns one page of the category listing
// GET /api/v1/patterns?cursor=
func (h *EntityHandler) List(c echo.Context) error {
	page, err := h.kb.ListPage(c.Request().Context(), h.kind, c.QueryParam("cursor"))
	if err != nil {
		return respondError(c, h.log, "failed to list "+string(h.kind), err)
	}
	return c.JSON(http.StatusOK, page)
}

// Get returns a decoded entity with its rendered description
// GET /api/v1/patterns/:number
func (h *EntityHandler) Get(c echo.Context) error {
	number, ok := parseNumber(c, "number")
	if !ok {
		return badRequest(c, "invalid number")
	}

	e, err := h.kb.GetEntity(c.Request().Context(), h.kind, number)
	if err != nil {
		return respondError(c, h.log, "failed to get "+string(h.kind), err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"kind":             h.kind,
		"entity":           e,
		"description_html": h.kb.DescriptionHTML(e),
	})
}

// Relationships returns the relationships listed on the entity
// GET /api/v1/patterns/:number/relationships
func (h *EntityHandler) Relationships(c echo.Context) error {
	number, ok := parseNumber(c, "number")
	if !ok {
		return badRequest(c, "invalid number")
	}

	rels, err := h.kb.ListRelationships(c.Request().Context(), h.kind, number)
	if err != nil {
		return respondError(c, h.log, "failed to list relationships", err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"relationships": rels,
		"count":         len(rels),
	})
}

// Create creates a pattern or solution implementation depending on the handler's kind
// POST /api/v1/patterns
func (h *EntityHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()

	var (
		entity models.Entity
		err    error
	)
	switch h.kind {
	case models.KindPattern:
		var req validation.CreatePatternInput
		if err := c.Bind(&req); err != nil {
			return badRequest(c, "invalid request body")
		}
		entity, err = h.kb.CreatePattern(ctx, req)
	default:
		var req validation.CreateSolutionInput
		if err := c.Bind(&req); err != nil {
			return badRequest(c, "invalid request body")
		}
		entity, err = h.kb.CreateSolutionImplementation(ctx, req)
	}
	if err != nil {
		return respondError(c, h.log, "failed to create "+string(h.kind), err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"kind":   h.kind,
		"entity": entity,
	})
}
