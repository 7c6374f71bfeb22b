package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AnshulGoyal589/NS-Acad-Backend/internal/dto"
	"github.com/AnshulGoyal589/NS-Acad-Backend/internal/models"
	appErrors "github.com/AnshulGoyal589/NS-Acad-Backend/pkg/errors"
	"github.com/AnshulGoyal589/NS-Acad-Backend/pkg/response"
)

type attainmentService interface {
	Calculate(ctx context.Context, offeringID, actor string) (*models.StoredAttainmentReport, error)
	GetReport(ctx context.Context, offeringID string) (*models.StoredAttainmentReport, error)
	Statistics(ctx context.Context, offeringID string) (*models.StatisticsView, error)
	StudentAttainment(ctx context.Context, offeringID, rollNo string) (*models.StudentAttainmentView, error)
	ScheduleRecalculation(offeringID string) (bool, error)
}

// AttainmentHandler exposes attainment calculation and report endpoints.
type AttainmentHandler struct {
	service attainmentService
	access  offeringAuthorizer
}

// NewAttainmentHandler builds a new handler.
func NewAttainmentHandler(service attainmentService, access offeringAuthorizer) *AttainmentHandler {
	return &AttainmentHandler{service: service, access: access}
}

// Calculate godoc
// @Summary Calculate and store CO-PO attainment
// @Tags Attainment
// @Produce json
// @Param id path string true "Offering ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Security BearerAuth
// @Router /offerings/{id}/attainment/calculate [post]
func (h *AttainmentHandler) Calculate(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.access.Authorize(c.Request.Context(), id, claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	stored, err := h.service.Calculate(c.Request.Context(), id, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stored, nil)
}

// Recalculate godoc
// @Summary Schedule a background recalculation
// @Tags Attainment
// @Produce json
// @Param id path string true "Offering ID"
// @Success 202 {object} response.Envelope
// @Security BearerAuth
// @Router /offerings/{id}/attainment/recalculate [post]
func (h *AttainmentHandler) Recalculate(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.access.Authorize(c.Request.Context(), id, claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	scheduled, err := h.service.ScheduleRecalculation(id)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to schedule recalculation"))
		return
	}
	response.Accepted(c, dto.RecalculationResponse{OfferingID: id, Scheduled: scheduled})
}

// GetReport godoc
// @Summary Get the stored attainment report
// @Tags Attainment
// @Produce json
// @Param id path string true "Offering ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /offerings/{id}/attainment [get]
func (h *AttainmentHandler) GetReport(c *gin.Context) {
	stored, err := h.service.GetReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stored, nil)
}

// Statistics godoc
// @Summary Get class statistics and CO/PO attainment
// @Tags Attainment
// @Produce json
// @Param id path string true "Offering ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /offerings/{id}/attainment/statistics [get]
func (h *AttainmentHandler) Statistics(c *gin.Context) {
	view, err := h.service.Statistics(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// StudentAttainment godoc
// @Summary Get one student's CO attainment
// @Tags Attainment
// @Produce json
// @Param id path string true "Offering ID"
// @Param rollNo path string true "Roll number"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /offerings/{id}/attainment/students/{rollNo} [get]
func (h *AttainmentHandler) StudentAttainment(c *gin.Context) {
	view, err := h.service.StudentAttainment(c.Request.Context(), c.Param("id"), c.Param("rollNo"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}
