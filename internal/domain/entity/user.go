package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleOperador = "operador"
	RoleCalidad  = "calidad"
)

// User representa un usuario del sistema (operario de línea, inspector o admin).
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, operador, calidad
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
