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

type offeringService interface {
	List(ctx context.Context, filter models.OfferingFilter) ([]models.CourseOffering, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.CourseOffering, error)
	Create(ctx context.Context, req dto.CreateOfferingRequest) (*models.CourseOffering, error)
	UpdateConfig(ctx context.Context, id string, req dto.UpdateOfferingConfigRequest) (*models.CourseOffering, error)
	offeringAuthorizer
}

// offeringAuthorizer checks that the caller owns (or administers) an offering before a write.
type offeringAuthorizer interface {
	Authorize(ctx context.Context, id string, claims *models.JWTClaims) (*models.CourseOffering, error)
}

// OfferingHandler exposes course offering endpoints.
type OfferingHandler struct {
	service offeringService
}

// NewOfferingHandler builds a new handler.
func NewOfferingHandler(service offeringService) *OfferingHandler {
	return &OfferingHandler{service: service}
}

// List godoc
// @Summary List course offerings
// @Tags Offerings
// @Produce json
// @Param subjectCode query string false "Subject code"
// @Param academicYear query string false "Academic year"
// @Param semester query int false "Semester"
// @Param branch query string false "Branch"
// @Param section query string false "Section"
// @Param facultyId query string false "Faculty ID"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /offerings [get]
func (h *OfferingHandler) List(c *gin.Context) {
	var query dto.OfferingListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	offerings, pagination, err := h.service.List(c.Request.Context(), models.OfferingFilter{
		SubjectCode:  query.SubjectCode,
		AcademicYear: query.AcademicYear,
		Semester:     query.Semester,
		Branch:       query.Branch,
		Section:      query.Section,
		FacultyID:    query.FacultyID,
		Page:         query.Page,
		PageSize:     query.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, offerings, pagination)
}

// Get godoc
// @Summary Get course offering
// @Tags Offerings
// @Produce json
// @Param id path string true "Offering ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /offerings/{id} [get]
func (h *OfferingHandler) Get(c *gin.Context) {
	offering, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, offering, nil)
}

// Create godoc
// @Summary Create course offering
// @Tags Offerings
// @Accept json
// @Produce json
// @Param payload body dto.CreateOfferingRequest true "Offering payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /offerings [post]
func (h *OfferingHandler) Create(c *gin.Context) {
	var req dto.CreateOfferingRequest
	if !bindJSON(c, &req, "invalid offering payload") {
		return
	}
	claims := claimsFromContext(c)
	if claims != nil && claims.Role == models.RoleFaculty {
		if req.FacultyID == "" {
			req.FacultyID = claims.UserID
		}
		if req.FacultyID != claims.UserID {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "faculty may only create their own offerings"))
			return
		}
	}
	offering, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, offering)
}

// UpdateConfig godoc
// @Summary Replace assessment configuration and thresholds
// @Tags Offerings
// @Accept json
// @Produce json
// @Param id path string true "Offering ID"
// @Param payload body dto.UpdateOfferingConfigRequest true "Configuration payload"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Security BearerAuth
// @Router /offerings/{id}/config [put]
func (h *OfferingHandler) UpdateConfig(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.service.Authorize(c.Request.Context(), id, claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UpdateOfferingConfigRequest
	if !bindJSON(c, &req, "invalid configuration payload") {
		return
	}
	offering, err := h.service.UpdateConfig(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, offering, nil)
}
