package domain

// UserRole - роль пользователя в системе
type UserRole string

const (
	RoleCitizen           UserRole = "citizen"
	RoleRSO               UserRole = "rso"
	RoleAdmin             UserRole = "admin"
	RoleComplianceOfficer UserRole = "compliance_officer"
)

// User - текущий пользователь сессии (из JWT)
type User struct {
	ID   string   `json:"id"`
	Role UserRole `json:"role"`
	Zone string   `json:"zone,omitempty"` // для RSO - закреплённая зона
}

// CanTriage проверяет право менять статус отчётов
func (u *User) CanTriage() bool {
	return u.Role == RoleRSO || u.Role == RoleAdmin
}
