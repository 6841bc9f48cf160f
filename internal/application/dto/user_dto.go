package dto

import "time"

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en use case).
type CreateUserRequest struct {
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=8"`
	Name      string  `json:"name" validate:"required,min=1,max=200"`
	Role      string  `json:"role" validate:"required,oneof=admin team_leader employee"`
	ManagerID *string `json:"assignedManager"`
}

// UpdateUserRequest entrada para editar un usuario; campos nil no cambian.
// Password vacío conserva el actual. ManagerID "" quita el jefe asignado.
type UpdateUserRequest struct {
	Email     *string `json:"email" validate:"omitempty,email"`
	Password  *string `json:"password" validate:"omitempty,min=8"`
	Name      *string `json:"name" validate:"omitempty,min=1,max=200"`
	Role      *string `json:"role" validate:"omitempty,oneof=admin team_leader employee"`
	ManagerID *string `json:"assignedManager"`
	Status    *string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	ManagerID *string   `json:"assignedManager,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
