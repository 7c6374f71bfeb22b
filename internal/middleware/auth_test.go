package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshulGoyal589/NS-Acad-Backend/internal/models"
	appErrors "github.com/AnshulGoyal589/NS-Acad-Backend/pkg/errors"
)

type tokenValidatorStub struct {
	tokens map[string]*models.JWTClaims
}

func (s tokenValidatorStub) ValidateToken(token string) (*models.JWTClaims, error) {
	claims, ok := s.tokens[token]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
	}
	return claims, nil
}

func newProtectedRouter(roles ...models.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	validator := tokenValidatorStub{tokens: map[string]*models.JWTClaims{
		"faculty": {UserID: "fac-1", Role: models.RoleFaculty},
		"student": {UserID: "stu-1", Role: models.RoleStudent},
	}}
	router := gin.New()
	router.Use(JWT(validator), RequireRoles(roles...))
	router.GET("/offerings", func(c *gin.Context) {
		c.String(http.StatusOK, CurrentUser(c).UserID)
	})
	return router
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body, &envelope))
	return envelope.Error.Code
}

func TestJWTAndRolesAllowFaculty(t *testing.T) {
	router := newProtectedRouter(models.RoleFaculty, models.RoleAdmin)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/offerings", nil)
	req.Header.Set("Authorization", "bearer faculty")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "fac-1", w.Body.String())
}

func TestJWTRejectsMissingOrInvalidTokens(t *testing.T) {
	router := newProtectedRouter(models.RoleFaculty)

	for name, header := range map[string]string{
		"missing":   "",
		"malformed": "Token faculty",
		"empty":     "Bearer ",
		"unknown":   "Bearer nope",
	} {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/offerings", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, appErrors.ErrUnauthorized.Code, errorCode(t, w.Body.Bytes()))
		})
	}
}

func TestRequireRolesForbidsOtherRoles(t *testing.T) {
	router := newProtectedRouter(models.RoleFaculty, models.RoleAdmin)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/offerings", nil)
	req.Header.Set("Authorization", "Bearer student")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, appErrors.ErrForbidden.Code, errorCode(t, w.Body.Bytes()))
}

func TestRequireRolesWithoutClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/", RequireRoles(models.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
