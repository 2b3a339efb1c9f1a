package handler

import (
	"context"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/digital-profile/internal/delivery/http/middleware"
	"github.com/digital-profile/internal/domain"
	"github.com/digital-profile/internal/pkg/errors"
	"github.com/digital-profile/internal/pkg/utils"
	"github.com/digital-profile/internal/schema"
	"github.com/digital-profile/internal/usecase/dto"
)

// ListingService - listing pipeline used by the handler
type ListingService interface {
	List(ctx context.Context, s *domain.Schema, q domain.ListQuery) (*domain.Page[*domain.Row], error)
}

// EntityService - lookups and writes used by the handler
type EntityService interface {
	GetBySlug(ctx context.Context, s *domain.Schema, slug string) (*domain.Row, error)
	GetByID(ctx context.Context, s *domain.Schema, id string) (*domain.Row, error)
	Create(ctx context.Context, s *domain.Schema, input dto.EntityInput, actor string) (*domain.Row, error)
	Update(ctx context.Context, s *domain.Schema, id string, input dto.EntityInput, actor string) (*domain.Row, error)
	Delete(ctx context.Context, s *domain.Schema, id, actor string) (*dto.DeleteResponse, error)
}

// EntityHandler serves every entity kind registered in the schema package
type EntityHandler struct {
	listing  ListingService
	entities EntityService
	defaults dto.ListDefaults
	logger   *zap.Logger
}

func NewEntityHandler(listing ListingService, entities EntityService, defaults dto.ListDefaults, logger *zap.Logger) *EntityHandler {
	return &EntityHandler{
		listing:  listing,
		entities: entities,
		defaults: defaults,
		logger:   logger,
	}
}

func (h *EntityHandler) schemaFor(c *fiber.Ctx) (*domain.Schema, error) {
	kind := c.Params("kind")
	s, ok := schema.ByKind(kind)
	if !ok {
		return nil, errors.NotFound("entity kind "+kind).
			WithDetails(map[string]interface{}{"kinds": schema.Kinds()})
	}
	return s, nil
}

// List godoc
// @Summary List entities
// @Description Filtered, sorted and paginated listing. Every key other than the paging parameters must be a filter of the entity kind: enum fields, boolean fields or min<Field>/max<Field> ranges.
// @Tags Entities
// @Produce json
// @Param kind path string true "Entity kind" Enums(farms, fish-farms, grasslands, agric-zones, processing-centers)
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size (1-100)" default(12)
// @Param viewType query string false "Projection" Enums(table, grid, map) default(table)
// @Param sortBy query string false "Sort field" default(name)
// @Param sortOrder query string false "Sort order" Enums(asc, desc) default(asc)
// @Param searchTerm query string false "Free text search"
// @Param wardNumber query int false "Ward number"
// @Success 200 {object} dto.EntityPage
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/entities/{kind} [get]
func (h *EntityHandler) List(c *fiber.Ctx) error {
	s, err := h.schemaFor(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	q, err := dto.ParseListParams(s, c.Queries(), h.defaults)
	if err != nil {
		return utils.SendError(c, err)
	}

	return h.list(c, s, q)
}

// Search godoc
// @Summary Search entities
// @Description Same as the listing endpoint with the parameters sent as a flat JSON object
// @Tags Entities
// @Accept json
// @Produce json
// @Param kind path string true "Entity kind"
// @Param request body map[string]interface{} true "Filters and paging parameters"
// @Success 200 {object} dto.EntityPage
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/entities/{kind}/search [post]
func (h *EntityHandler) Search(c *fiber.Ctx) error {
	s, err := h.schemaFor(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	q, err := dto.ParseListBody(s, c.Body(), h.defaults)
	if err != nil {
		return utils.SendError(c, err)
	}

	return h.list(c, s, q)
}

// list writes the envelope itself, it is the public response shape
func (h *EntityHandler) list(c *fiber.Ctx, s *domain.Schema, q domain.ListQuery) error {
	page, err := h.listing.List(c.UserContext(), s, q)
	if err != nil {
		return utils.SendError(c, err)
	}
	return c.JSON(page)
}

// GetBySlug godoc
// @Summary Get entity by slug
// @Tags Entities
// @Produce json
// @Param kind path string true "Entity kind"
// @Param slug path string true "Slug"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/entities/{kind}/slug/{slug} [get]
func (h *EntityHandler) GetBySlug(c *fiber.Ctx) error {
	s, err := h.schemaFor(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	row, err := h.entities.GetBySlug(c.UserContext(), s, c.Params("slug"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, row, nil)
}

// GetByID godoc
// @Summary Get entity by id
// @Tags Entities
// @Produce json
// @Param kind path string true "Entity kind"
// @Param id path string true "Entity UUID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/entities/{kind}/{id} [get]
func (h *EntityHandler) GetByID(c *fiber.Ctx) error {
	s, err := h.schemaFor(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	row, err := h.entities.GetByID(c.UserContext(), s, c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, row, nil)
}

// Create godoc
// @Summary Create entity
// @Description Requires an admin or editor bearer token. Geometry fields take GeoJSON.
// @Tags Entities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param kind path string true "Entity kind"
// @Param request body map[string]interface{} true "Entity fields"
// @Success 201 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/entities/{kind} [post]
func (h *EntityHandler) Create(c *fiber.Ctx) error {
	s, err := h.schemaFor(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	input, err := parseInput(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	row, err := h.entities.Create(c.UserContext(), s, input, middleware.Actor(c))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendCreated(c, row)
}

// Update godoc
// @Summary Update entity
// @Description Partial update: only supplied fields change. Requires an admin or editor bearer token.
// @Tags Entities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param kind path string true "Entity kind"
// @Param id path string true "Entity UUID"
// @Param request body map[string]interface{} true "Fields to change"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/entities/{kind}/{id} [patch]
func (h *EntityHandler) Update(c *fiber.Ctx) error {
	s, err := h.schemaFor(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	input, err := parseInput(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	row, err := h.entities.Update(c.UserContext(), s, c.Params("id"), input, middleware.Actor(c))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, row, nil)
}

// Delete godoc
// @Summary Delete entity
// @Description Removes the entity with its media links and queues orphaned files for cleanup. Requires an admin or editor bearer token.
// @Tags Entities
// @Produce json
// @Security BearerAuth
// @Param kind path string true "Entity kind"
// @Param id path string true "Entity UUID"
// @Success 200 {object} utils.SuccessResponse{data=dto.DeleteResponse}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/entities/{kind}/{id} [delete]
func (h *EntityHandler) Delete(c *fiber.Ctx) error {
	s, err := h.schemaFor(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	resp, err := h.entities.Delete(c.UserContext(), s, c.Params("id"), middleware.Actor(c))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, resp, nil)
}

func parseInput(c *fiber.Ctx) (dto.EntityInput, error) {
	var input dto.EntityInput
	if err := json.Unmarshal(c.Body(), &input); err != nil || input == nil {
		return nil, errors.BadRequest("Invalid request body")
	}
	return input, nil
}
