package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/AnshulGoyal589/NS-Acad-Backend/internal/dto"
	"github.com/AnshulGoyal589/NS-Acad-Backend/internal/models"
	appErrors "github.com/AnshulGoyal589/NS-Acad-Backend/pkg/errors"
	"github.com/AnshulGoyal589/NS-Acad-Backend/pkg/response"
)

type coMappingService interface {
	Upsert(ctx context.Context, offeringID string, req dto.UpsertCoMappingRequest) (*models.CoPoMapping, error)
	Get(ctx context.Context, offeringID string) (*models.CoPoMapping, error)
	List(ctx context.Context, subjectCode string) ([]models.CoPoMapping, error)
}

// CoMappingHandler exposes CO definition and CO-PO mapping endpoints.
type CoMappingHandler struct {
	service coMappingService
	access  offeringAuthorizer
}

// NewCoMappingHandler builds a new handler.
func NewCoMappingHandler(service coMappingService, access offeringAuthorizer) *CoMappingHandler {
	return &CoMappingHandler{service: service, access: access}
}

// Upsert godoc
// @Summary Replace the course outcome definitions of an offering
// @Tags CO Mapping
// @Accept json
// @Produce json
// @Param id path string true "Offering ID"
// @Param payload body dto.UpsertCoMappingRequest true "Course outcomes"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /offerings/{id}/co-mapping [put]
func (h *CoMappingHandler) Upsert(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.access.Authorize(c.Request.Context(), id, claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UpsertCoMappingRequest
	if !bindJSON(c, &req, "invalid co mapping payload") {
		return
	}
	mapping, err := h.service.Upsert(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mapping, nil)
}

// Get godoc
// @Summary Get the course outcome definitions of an offering
// @Tags CO Mapping
// @Produce json
// @Param id path string true "Offering ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /offerings/{id}/co-mapping [get]
func (h *CoMappingHandler) Get(c *gin.Context) {
	mapping, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mapping, nil)
}

// ListBySubject godoc
// @Summary List CO-PO mappings for a subject
// @Tags CO Mapping
// @Produce json
// @Param subjectCode query string true "Subject code"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /co-po-mappings [get]
func (h *CoMappingHandler) ListBySubject(c *gin.Context) {
	subjectCode := strings.TrimSpace(c.Query("subjectCode"))
	if subjectCode == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "subjectCode is required"))
		return
	}
	h.list(c, subjectCode)
}

// ListAll godoc
// @Summary List all CO-PO mappings
// @Tags CO Mapping
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /copomap [get]
func (h *CoMappingHandler) ListAll(c *gin.Context) {
	h.list(c, "")
}

func (h *CoMappingHandler) list(c *gin.Context, subjectCode string) {
	mappings, err := h.service.List(c.Request.Context(), subjectCode)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mappings, nil, map[string]interface{}{"count": len(mappings)})
}
