package entity

import "time"

// Roles válidos para User. El rol solo aporta identidad de actor en el
// ledger; no hay modelo de permisos más allá de esto.
const (
	RoleAdmin     = "admin"
	RoleBodeguero = "bodeguero"
	RoleInstaller = "installer"
)

// User representa un usuario del sistema (identidad de actor en transacciones).
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, bodeguero, installer
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
