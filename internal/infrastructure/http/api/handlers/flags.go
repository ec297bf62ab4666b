package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"openflag/internal/core/apperror"
	"openflag/internal/domain/flags"
	"openflag/internal/infrastructure/http/api/dto"
)

const (
	defaultListLimit = 100
	maxListLimit     = 1000
)

// FlagHandler exposes flag CRUD endpoints.
type FlagHandler struct {
	*BaseHandler
	service *flags.Service
}

// NewFlagHandler creates a flag handler.
func NewFlagHandler(base *BaseHandler, service *flags.Service) *FlagHandler {
	return &FlagHandler{BaseHandler: base, service: service}
}

// Create handles POST /api/flags.
func (h *FlagHandler) Create(c *gin.Context) {
	var req dto.CreateFlagRequest
	if !h.BindJSON(c, &req) {
		return
	}

	flag, err := h.service.Create(c.Request.Context(), req.ToEntity())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromFlag(flag))
}

// List handles GET /api/flags with skip/limit pagination.
func (h *FlagHandler) List(c *gin.Context) {
	skip := h.ParseIntQuery(c, "skip", 0)
	limit := h.ParseIntQuery(c, "limit", defaultListLimit)

	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > maxListLimit {
		limit = defaultListLimit
	}

	list, err := h.service.List(c.Request.Context(), limit, skip)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromFlags(list))
}

// GetByID handles GET /api/flags/:id.
func (h *FlagHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	flag, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromFlag(flag))
}

// GetByKey handles GET /api/flags/key/:key. This is the endpoint client
// SDKs resolve flags through, so it reads through the cache.
func (h *FlagHandler) GetByKey(c *gin.Context) {
	key := c.Param("key")

	flag, err := h.service.GetByKey(c.Request.Context(), key)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromFlag(flag))
}

// Update handles PUT /api/flags/:id.
func (h *FlagHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.UpdateFlagRequest
	if !h.BindJSON(c, &req) {
		return
	}

	flag, err := h.service.Update(c.Request.Context(), id, req.ToParams())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromFlag(flag))
}

// Delete handles DELETE /api/flags/:id.
func (h *FlagHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

func (h *FlagHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid flag id").WithDetail("id", c.Param("id")))
		return uuid.Nil, false
	}
	return id, true
}
