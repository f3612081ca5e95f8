package user

import "gorm.io/gorm"

// Role is the CRM role a user acts under.
type Role string

const (
	RoleSalesman     Role = "salesman"
	RoleCallOperator Role = "call_operator"
	RoleTechnician   Role = "technician"
	RoleTeamLead     Role = "team_lead"
	RoleSuperAdmin   Role = "super_admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSalesman, RoleCallOperator, RoleTechnician, RoleTeamLead, RoleSuperAdmin:
		return true
	}
	return false
}

type User struct {
	gorm.Model
	Name              string `json:"name"`
	Email             string `json:"email" gorm:"unique"`
	Phone             string `json:"phone"`
	Role              Role   `json:"role" gorm:"type:varchar(20);index"`
	Active            bool   `json:"active" gorm:"default:true"`
	Password          string `json:"-"`
	MustResetPassword bool   `json:"-"`
}
