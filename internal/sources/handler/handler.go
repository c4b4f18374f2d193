package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"leadwatch_backend/internal/sources/service"
	"leadwatch_backend/internal/sources/transport"
	"leadwatch_backend/platform/httpkit"
	"leadwatch_backend/platform/validator"
)

// Handler handles HTTP requests for monitored sources.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid source ID"
)

// New creates a new monitored sources handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// List retrieves all monitored sources.
// GET /api/v1/admin/sources
func (h *Handler) List(c *gin.Context) {
	if httpkit.MustGetIdentity(c) == nil {
		return
	}

	rows, err := h.svc.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToSourceListResponse(rows))
}

// GetByID retrieves a monitored source by ID.
// GET /api/v1/admin/sources/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	if httpkit.MustGetIdentity(c) == nil {
		return
	}

	source, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToSourceResponse(source))
}

// Create registers a new monitored source.
// POST /api/v1/admin/sources
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	source, err := h.svc.Create(c.Request.Context(), req, identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, transport.ToSourceResponse(source))
}

// Update modifies an existing monitored source.
// PUT /api/v1/admin/sources/:id
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	var req transport.UpdateSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	if httpkit.MustGetIdentity(c) == nil {
		return
	}

	source, err := h.svc.Update(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToSourceResponse(source))
}

// ToggleEnabled pauses or resumes a monitored source.
// PATCH /api/v1/admin/sources/:id/toggle
func (h *Handler) ToggleEnabled(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if httpkit.MustGetIdentity(c) == nil {
		return
	}

	if err := h.svc.SetEnabled(c.Request.Context(), id, req.Enabled); httpkit.HandleError(c, err) {
		return
	}
	httpkit.NoContent(c)
}

// Delete removes a monitored source.
// DELETE /api/v1/admin/sources/:id
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	if httpkit.MustGetIdentity(c) == nil {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); httpkit.HandleError(c, err) {
		return
	}
	httpkit.NoContent(c)
}

// ListDirectorySources proxies the CRM source taxonomy.
// GET /api/v1/admin/sources/directory
func (h *Handler) ListDirectorySources(c *gin.Context) {
	if httpkit.MustGetIdentity(c) == nil {
		return
	}

	sources, err := h.svc.ListDirectorySources(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]transport.DirectorySourceResponse, 0, len(sources))
	for _, src := range sources {
		items = append(items, transport.DirectorySourceResponse{ID: src.ID, Name: src.Name})
	}
	httpkit.OK(c, items)
}
