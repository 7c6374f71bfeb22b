package models

// UserRole represents the roles carried in access tokens.
type UserRole string

const (
	RoleAdmin   UserRole = "ADMIN"
	RoleHOD     UserRole = "HOD"
	RoleFaculty UserRole = "FACULTY"
	RoleStudent UserRole = "STUDENT"
)

// ParseUserRole accepts the role names used by the auth service.
func ParseUserRole(raw string) (UserRole, bool) {
	switch r := UserRole(raw); r {
	case RoleAdmin, RoleHOD, RoleFaculty, RoleStudent:
		return r, true
	}
	return "", false
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
