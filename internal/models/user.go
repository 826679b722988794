package models

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleSuperAdmin     UserRole = "SUPERADMIN"
	RoleAdmin          UserRole = "ADMIN"
	RoleRegistrar      UserRole = "REGISTRAR"
	RoleDepartmentHead UserRole = "DEPARTMENT_HEAD"
	RoleTeacher        UserRole = "TEACHER"
	RoleStudent        UserRole = "STUDENT"
)

// SchedulingAuthorities are the roles allowed to create, change or remove schedule entries.
var SchedulingAuthorities = []UserRole{RoleSuperAdmin, RoleAdmin, RoleRegistrar, RoleDepartmentHead}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
