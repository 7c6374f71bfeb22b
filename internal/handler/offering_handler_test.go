package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshulGoyal589/NS-Acad-Backend/internal/dto"
	"github.com/AnshulGoyal589/NS-Acad-Backend/internal/models"
	appErrors "github.com/AnshulGoyal589/NS-Acad-Backend/pkg/errors"
)

type offeringServiceStub struct {
	authorizerStub
	created []dto.CreateOfferingRequest
	filter  models.OfferingFilter
	updated int
}

func (s *offeringServiceStub) List(ctx context.Context, filter models.OfferingFilter) ([]models.CourseOffering, *models.Pagination, error) {
	s.filter = filter
	return []models.CourseOffering{{ID: "off-1"}}, &models.Pagination{Page: 1, PageSize: 20, TotalCount: 1}, nil
}

func (s *offeringServiceStub) Get(ctx context.Context, id string) (*models.CourseOffering, error) {
	return &models.CourseOffering{ID: id}, nil
}

func (s *offeringServiceStub) Create(ctx context.Context, req dto.CreateOfferingRequest) (*models.CourseOffering, error) {
	s.created = append(s.created, req)
	return &models.CourseOffering{ID: "off-new", CourseOfferingKey: req.CourseOfferingKey, FacultyID: req.FacultyID}, nil
}

func (s *offeringServiceStub) UpdateConfig(ctx context.Context, id string, req dto.UpdateOfferingConfigRequest) (*models.CourseOffering, error) {
	s.updated++
	return &models.CourseOffering{ID: id}, nil
}

func createPayload(facultyID string) dto.CreateOfferingRequest {
	return dto.CreateOfferingRequest{
		CourseOfferingKey: models.CourseOfferingKey{SubjectCode: "CS301", AcademicYear: "2025-26", Semester: 5, Branch: "CSE", Section: "A"},
		SubjectName:       "Compilers",
		FacultyID:         facultyID,
	}
}

func TestOfferingHandlerCreateDefaultsFacultyToCaller(t *testing.T) {
	svc := &offeringServiceStub{}
	handler := NewOfferingHandler(svc)
	c, w := newTestContext(http.MethodPost, "/offerings", createPayload(""), facultyUser("fac-1"), nil)

	handler.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, svc.created, 1)
	assert.Equal(t, "fac-1", svc.created[0].FacultyID)
}

func TestOfferingHandlerCreateForOtherFacultyForbidden(t *testing.T) {
	svc := &offeringServiceStub{}
	handler := NewOfferingHandler(svc)
	c, w := newTestContext(http.MethodPost, "/offerings", createPayload("fac-2"), facultyUser("fac-1"), nil)

	handler.Create(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, svc.created)

	admin := &models.JWTClaims{UserID: "admin", Role: models.RoleAdmin}
	c, w = newTestContext(http.MethodPost, "/offerings", createPayload("fac-2"), admin, nil)
	handler.Create(c)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestOfferingHandlerCreateInvalidBody(t *testing.T) {
	handler := NewOfferingHandler(&offeringServiceStub{})
	c, w := newTestContext(http.MethodPost, "/offerings", "invalid", facultyUser("fac-1"), nil)

	handler.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, appErrors.ErrValidation.Code, decodeEnvelope(t, w).Error.Code)
}

func TestOfferingHandlerListBindsFilters(t *testing.T) {
	svc := &offeringServiceStub{}
	handler := NewOfferingHandler(svc)
	c, w := newTestContext(http.MethodGet, "/offerings?subjectCode=CS301&semester=5&section=A&page=2", nil, facultyUser("fac-1"), nil)

	handler.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "CS301", svc.filter.SubjectCode)
	assert.Equal(t, 5, svc.filter.Semester)
	assert.Equal(t, "A", svc.filter.Section)
	assert.Equal(t, 2, svc.filter.Page)
	assert.Contains(t, w.Body.String(), `"total_count":1`)
}

func TestOfferingHandlerUpdateConfigChecksOwnership(t *testing.T) {
	svc := &offeringServiceStub{authorizerStub: authorizerStub{owner: "fac-1"}}
	handler := NewOfferingHandler(svc)
	body := dto.UpdateOfferingConfigRequest{Assessments: map[string]dto.AssessmentConfigInput{"TCA": {Weightage: 1}}}
	params := gin.Params{{Key: "id", Value: "off-1"}}

	c, w := newTestContext(http.MethodPut, "/offerings/off-1/config", body, facultyUser("fac-2"), params)
	handler.UpdateConfig(c)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Zero(t, svc.updated)

	c, w = newTestContext(http.MethodPut, "/offerings/off-1/config", body, facultyUser("fac-1"), params)
	handler.UpdateConfig(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, svc.updated)
}
