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

type marksServiceStub struct {
	upserts []string
	roster  []dto.RosterStudent
}

func (s *marksServiceStub) ImportRoster(ctx context.Context, offeringID string, req dto.ImportRosterRequest) (int, error) {
	s.roster = req.Students
	return len(req.Students), nil
}

func (s *marksServiceStub) GetStudent(ctx context.Context, offeringID, rollNo string) (*models.StudentRecord, error) {
	return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found in offering")
}

func (s *marksServiceStub) UpsertMarks(ctx context.Context, offeringID, rollNo, family string, req dto.UpsertMarksRequest) (*models.StudentRecord, error) {
	s.upserts = append(s.upserts, offeringID+"/"+rollNo+"/"+family)
	return &models.StudentRecord{RollNo: rollNo}, nil
}

func TestMarksHandlerUpsertPassesPathParams(t *testing.T) {
	svc := &marksServiceStub{}
	handler := NewMarksHandler(svc, &authorizerStub{owner: "fac-1"})
	body := dto.UpsertMarksRequest{AssessmentNumber: 1, Marks: []dto.MarkInput{{Question: 1, Part: "a", MaxMarks: 10, MarksObtained: 7}}}
	params := offeringParams(gin.Param{Key: "rollNo", Value: "S1"}, gin.Param{Key: "family", Value: "TCA"})

	c, w := newTestContext(http.MethodPut, "/offerings/off-1/students/S1/marks/TCA", body, facultyUser("fac-1"), params)
	handler.UpsertMarks(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"off-1/S1/TCA"}, svc.upserts)

	c, w = newTestContext(http.MethodPut, "/offerings/off-1/students/S1/marks/TCA", body, facultyUser("fac-2"), params)
	handler.UpsertMarks(c)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Len(t, svc.upserts, 1)
}

func TestMarksHandlerImportRoster(t *testing.T) {
	svc := &marksServiceStub{}
	handler := NewMarksHandler(svc, &authorizerStub{owner: "fac-1"})
	body := dto.ImportRosterRequest{Students: []dto.RosterStudent{{RollNo: "S1", Name: "Asha"}, {RollNo: "S2", Name: "Ravi"}}}

	c, w := newTestContext(http.MethodPut, "/offerings/off-1/roster", body, facultyUser("fac-1"), offeringParams())
	handler.ImportRoster(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, svc.roster, 2)
	assert.Contains(t, w.Body.String(), `"imported":2`)
}

func TestMarksHandlerGetStudentNotFound(t *testing.T) {
	handler := NewMarksHandler(&marksServiceStub{}, &authorizerStub{})
	c, w := newTestContext(http.MethodGet, "/offerings/off-1/students/S9", nil, facultyUser("fac-1"), offeringParams(gin.Param{Key: "rollNo", Value: "S9"}))

	handler.GetStudent(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

type coMappingServiceStub struct {
	subjects []string
}

func (s *coMappingServiceStub) Upsert(ctx context.Context, offeringID string, req dto.UpsertCoMappingRequest) (*models.CoPoMapping, error) {
	return &models.CoPoMapping{OfferingID: offeringID}, nil
}

func (s *coMappingServiceStub) Get(ctx context.Context, offeringID string) (*models.CoPoMapping, error) {
	return &models.CoPoMapping{OfferingID: offeringID}, nil
}

func (s *coMappingServiceStub) List(ctx context.Context, subjectCode string) ([]models.CoPoMapping, error) {
	s.subjects = append(s.subjects, subjectCode)
	return []models.CoPoMapping{{OfferingID: "off-1"}, {OfferingID: "off-2"}}, nil
}

func TestCoMappingHandlerListing(t *testing.T) {
	svc := &coMappingServiceStub{}
	handler := NewCoMappingHandler(svc, &authorizerStub{})

	c, w := newTestContext(http.MethodGet, "/co-po-mappings", nil, facultyUser("fac-1"), nil)
	handler.ListBySubject(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = newTestContext(http.MethodGet, "/co-po-mappings?subjectCode=CS301", nil, facultyUser("fac-1"), nil)
	handler.ListBySubject(c)
	require.Equal(t, http.StatusOK, w.Code)

	c, w = newTestContext(http.MethodGet, "/copomap", nil, facultyUser("fac-1"), nil)
	handler.ListAll(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decodeEnvelope(t, w).Meta["count"])
	assert.Equal(t, []string{"CS301", ""}, svc.subjects)
}

func TestCoMappingHandlerUpsertChecksOwnership(t *testing.T) {
	handler := NewCoMappingHandler(&coMappingServiceStub{}, &authorizerStub{owner: "fac-1"})
	body := dto.UpsertCoMappingRequest{CourseOutcomes: []dto.CoDefinitionInput{{COIdentifier: "CO1", TargetAttainmentLevel: 2}}}

	c, w := newTestContext(http.MethodPut, "/offerings/off-1/co-mapping", body, facultyUser("fac-2"), offeringParams())
	handler.Upsert(c)
	assert.Equal(t, http.StatusForbidden, w.Code)

	c, w = newTestContext(http.MethodPut, "/offerings/off-1/co-mapping", body, facultyUser("fac-1"), offeringParams())
	handler.Upsert(c)
	assert.Equal(t, http.StatusOK, w.Code)
}
