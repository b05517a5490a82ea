package domain

import "strings"

// ============================================================================
// Users and Groups
// ============================================================================

type Role string

const (
	RoleFuncionario   Role = "FUNCIONARIO"
	RoleAdministrador Role = "ADMINISTRADOR"
)

// Group names granted by each role.
const (
	GroupFuncionario   = "Funcionario"
	GroupAdministrador = "Administrador"
)

// StaffGroups are allowed to mutate the catalog.
var StaffGroups = []string{GroupFuncionario, GroupAdministrador}

// ParseRole accepts the full role name or its two-letter code.
func ParseRole(s string) (Role, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "FUNCIONARIO", "FN":
		return RoleFuncionario, nil
	case "ADMINISTRADOR", "AD":
		return RoleAdministrador, nil
	default:
		return "", ErrInvalidRole
	}
}

// GroupName returns the group a role maps to.
func (r Role) GroupName() string {
	if r == RoleAdministrador {
		return GroupAdministrador
	}
	return GroupFuncionario
}

type Group struct {
	ID   int64  `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:150;not null;uniqueIndex" json:"name"`
}

func (Group) TableName() string { return "auth_groups" }

type User struct {
	ID           int64   `gorm:"primaryKey" json:"id"`
	Username     string  `gorm:"size:150;not null;uniqueIndex" json:"username"`
	Email        string  `gorm:"size:254;not null;uniqueIndex" json:"email"`
	PasswordHash string  `gorm:"size:255;not null" json:"-"`
	FirstName    string  `gorm:"size:150" json:"first_name"`
	LastName     string  `gorm:"size:150" json:"last_name"`
	Role         Role    `gorm:"size:20;not null;default:FUNCIONARIO" json:"role"`
	Institution  string  `gorm:"size:100" json:"institution"`
	RUT          string  `gorm:"column:rut;size:9" json:"rut"`
	IsActive     bool    `gorm:"not null" json:"is_active"`
	Groups       []Group `gorm:"many2many:user_groups" json:"groups,omitempty"`
}

// FullName joins first and last name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// InGroup reports whether the user belongs to any of the named groups.
func (u *User) InGroup(names ...string) bool {
	for _, g := range u.Groups {
		for _, n := range names {
			if g.Name == n {
				return true
			}
		}
	}
	return false
}
