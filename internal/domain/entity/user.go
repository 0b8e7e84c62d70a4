package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleCSC      = "csc"
	RoleEngineer = "engineer"
)

// ValidRole indica si el rol es conocido.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleCSC || role == RoleEngineer
}

// User representa un usuario del sistema; opera en nombre de un Holder.
type User struct {
	ID           string
	HolderID     string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, csc, engineer
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
