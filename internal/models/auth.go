package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims represents the access token payload issued by the auth service.
type JWTClaims struct {
	UserID   string   `json:"user_id"`
	Role     UserRole `json:"role"`
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	jwt.RegisteredClaims
}

// CanManageOffering reports whether the caller may modify an offering owned by facultyID.
// Admins and HODs may edit any offering; faculty only their own.
func (c *JWTClaims) CanManageOffering(facultyID string) bool {
	if c == nil {
		return false
	}
	switch c.Role {
	case RoleAdmin, RoleHOD:
		return true
	case RoleFaculty:
		return facultyID == "" || facultyID == c.UserID
	}
	return false
}
