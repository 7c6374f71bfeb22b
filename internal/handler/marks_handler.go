package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AnshulGoyal589/NS-Acad-Backend/internal/dto"
	"github.com/AnshulGoyal589/NS-Acad-Backend/internal/models"
	"github.com/AnshulGoyal589/NS-Acad-Backend/pkg/response"
)

type marksService interface {
	ImportRoster(ctx context.Context, offeringID string, req dto.ImportRosterRequest) (int, error)
	GetStudent(ctx context.Context, offeringID, rollNo string) (*models.StudentRecord, error)
	UpsertMarks(ctx context.Context, offeringID, rollNo, family string, req dto.UpsertMarksRequest) (*models.StudentRecord, error)
}

// MarksHandler exposes roster and marks endpoints.
type MarksHandler struct {
	service marksService
	access  offeringAuthorizer
}

// NewMarksHandler builds a new handler.
func NewMarksHandler(service marksService, access offeringAuthorizer) *MarksHandler {
	return &MarksHandler{service: service, access: access}
}

// ImportRoster godoc
// @Summary Import the student roster of an offering
// @Tags Marks
// @Accept json
// @Produce json
// @Param id path string true "Offering ID"
// @Param payload body dto.ImportRosterRequest true "Roster"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /offerings/{id}/roster [put]
func (h *MarksHandler) ImportRoster(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.access.Authorize(c.Request.Context(), id, claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	var req dto.ImportRosterRequest
	if !bindJSON(c, &req, "invalid roster payload") {
		return
	}
	count, err := h.service.ImportRoster(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"offeringId": id, "imported": count}, nil)
}

// GetStudent godoc
// @Summary Get a student's marks record
// @Tags Marks
// @Produce json
// @Param id path string true "Offering ID"
// @Param rollNo path string true "Roll number"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /offerings/{id}/students/{rollNo} [get]
func (h *MarksHandler) GetStudent(c *gin.Context) {
	record, err := h.service.GetStudent(c.Request.Context(), c.Param("id"), c.Param("rollNo"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// UpsertMarks godoc
// @Summary Record one assessment sitting for a student
// @Description Replaces the entries of the same sitting (TMS sub-type, CT1/CT2, or survey) within the family.
// @Tags Marks
// @Accept json
// @Produce json
// @Param id path string true "Offering ID"
// @Param rollNo path string true "Roll number"
// @Param family path string true "Assessment family" Enums(TMS, TCA, TES)
// @Param payload body dto.UpsertMarksRequest true "Marks"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Security BearerAuth
// @Router /offerings/{id}/students/{rollNo}/marks/{family} [put]
func (h *MarksHandler) UpsertMarks(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.access.Authorize(c.Request.Context(), id, claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UpsertMarksRequest
	if !bindJSON(c, &req, "invalid marks payload") {
		return
	}
	record, err := h.service.UpsertMarks(c.Request.Context(), id, c.Param("rollNo"), c.Param("family"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}
