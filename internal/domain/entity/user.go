package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin      = "admin"
	RoleTeamLeader = "team_leader"
	RoleEmployee   = "employee"
)

// Estados de cuenta.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// IsValidRole indica si el rol es uno de los soportados.
func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleTeamLeader, RoleEmployee:
		return true
	}
	return false
}

// User representa un usuario del sistema.
// ManagerID solo aplica a empleados y apunta a un team_leader.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash
	Name         string
	Role         string
	ManagerID    *string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
