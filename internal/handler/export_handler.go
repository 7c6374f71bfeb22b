package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/AnshulGoyal589/NS-Acad-Backend/internal/dto"
	"github.com/AnshulGoyal589/NS-Acad-Backend/internal/models"
	"github.com/AnshulGoyal589/NS-Acad-Backend/internal/service"
	"github.com/AnshulGoyal589/NS-Acad-Backend/pkg/response"
)

type exportService interface {
	Export(ctx context.Context, offeringID, format, actor string) (*models.ExportLink, error)
	Download(ctx context.Context, token string) (*service.DownloadFile, error)
}

// ExportHandler exposes report export and signed download endpoints.
type ExportHandler struct {
	service exportService
	access  offeringAuthorizer
}

// NewExportHandler builds a new handler.
func NewExportHandler(service exportService, access offeringAuthorizer) *ExportHandler {
	return &ExportHandler{service: service, access: access}
}

// Export godoc
// @Summary Export the attainment report
// @Tags Attainment
// @Accept json
// @Produce json
// @Param id path string true "Offering ID"
// @Param payload body dto.ExportRequest true "Export format"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /offerings/{id}/attainment/export [post]
func (h *ExportHandler) Export(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.access.Authorize(c.Request.Context(), id, claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	var req dto.ExportRequest
	if !bindJSON(c, &req, "invalid export payload") {
		return
	}
	link, err := h.service.Export(c.Request.Context(), id, req.Format, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, link)
}

// Download godoc
// @Summary Download an exported report through a signed link
// @Tags Attainment
// @Produce application/pdf
// @Produce text/csv
// @Param token path string true "Signed token"
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Router /export/{token} [get]
func (h *ExportHandler) Download(c *gin.Context) {
	file, err := h.service.Download(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}
