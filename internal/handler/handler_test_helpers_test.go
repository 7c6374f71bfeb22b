package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/AnshulGoyal589/NS-Acad-Backend/internal/middleware"
	"github.com/AnshulGoyal589/NS-Acad-Backend/internal/models"
	appErrors "github.com/AnshulGoyal589/NS-Acad-Backend/pkg/errors"
)

type authorizerStub struct {
	owner string
	calls []string
}

func (s *authorizerStub) Authorize(ctx context.Context, id string, claims *models.JWTClaims) (*models.CourseOffering, error) {
	s.calls = append(s.calls, id)
	if id == "missing" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "offering not found")
	}
	if !claims.CanManageOffering(s.owner) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not your offering")
	}
	return &models.CourseOffering{ID: id, FacultyID: s.owner}, nil
}

func facultyUser(id string) *models.JWTClaims {
	return &models.JWTClaims{UserID: id, Role: models.RoleFaculty}
}

func newTestContext(method, path string, body interface{}, claims *models.JWTClaims, params gin.Params) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}
	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = params
	if claims != nil {
		c.Set(middleware.ContextUserKey, claims)
	}
	return c, w
}

type envelope struct {
	Data  json.RawMessage        `json:"data"`
	Error *appErrors.Error       `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}
