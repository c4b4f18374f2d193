package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"leadwatch_backend/internal/assignments/repository"
	"leadwatch_backend/internal/assignments/service"
	"leadwatch_backend/internal/assignments/transport"
	"leadwatch_backend/platform/httpkit"
)

// Handler handles HTTP requests for assignment history.
type Handler struct {
	svc *service.Service
}

const (
	msgInvalidRequest = "invalid request"
	msgInvalidID      = "invalid assignment ID"
)

// New creates a new assignments handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// List retrieves assignment history.
// GET /api/v1/assignments
func (h *Handler) List(c *gin.Context) {
	var req transport.ListAssignmentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if httpkit.MustGetIdentity(c) == nil {
		return
	}

	filter := repository.ListFilter{Limit: req.Limit, Offset: req.Offset}
	if req.Status != "" {
		status := repository.Status(req.Status)
		filter.Status = &status
	}
	if req.Source != "" {
		filter.SourceName = &req.Source
	}

	rows, err := h.svc.List(c.Request.Context(), filter)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToAssignmentListResponse(rows))
}

// GetByID retrieves a single assignment.
// GET /api/v1/assignments/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	if httpkit.MustGetIdentity(c) == nil {
		return
	}

	assignment, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToAssignmentResponse(*assignment))
}

// Stats retrieves aggregate counts by status.
// GET /api/v1/assignments/stats
func (h *Handler) Stats(c *gin.Context) {
	if httpkit.MustGetIdentity(c) == nil {
		return
	}

	counts, err := h.svc.Stats(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.StatsResponse{Counts: counts})
}
