package repository

import (
	"context"

	"github.com/jhoicas/sitetrack-api/internal/domain/entity"
)

// UserFilter filtros de listado de usuarios.
type UserFilter struct {
	Role      string
	ManagerID string
	Limit     int
	Offset    int
}

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	List(ctx context.Context, filter UserFilter) ([]*entity.User, error)
	CountByRole(ctx context.Context, role string) (int, error)
	// ClearManager quita la referencia a managerID de todos los empleados que la tengan.
	ClearManager(ctx context.Context, managerID string) error
	Delete(ctx context.Context, id string) error
}
