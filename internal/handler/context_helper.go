package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/AnshulGoyal589/NS-Acad-Backend/internal/middleware"
	"github.com/AnshulGoyal589/NS-Acad-Backend/internal/models"
	appErrors "github.com/AnshulGoyal589/NS-Acad-Backend/pkg/errors"
	"github.com/AnshulGoyal589/NS-Acad-Backend/pkg/response"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	return middleware.CurrentUser(c)
}

func actorID(c *gin.Context) string {
	if claims := claimsFromContext(c); claims != nil {
		return claims.UserID
	}
	return ""
}

// bindJSON writes a validation error and returns false when the body cannot be decoded.
func bindJSON(c *gin.Context, dest interface{}, message string) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message))
		return false
	}
	return true
}
