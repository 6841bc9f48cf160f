package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/sitetrack-api/internal/application/dto"
	"github.com/jhoicas/sitetrack-api/internal/domain"
	"github.com/jhoicas/sitetrack-api/internal/domain/entity"
	"github.com/jhoicas/sitetrack-api/internal/domain/repository"
)

// UserUseCase aplica reglas de negocio para usuarios.
// Solo los empleados pueden tener jefe asignado y el jefe debe ser team_leader.
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// Create crea un usuario: hashea password con bcrypt y persiste.
func (uc *UserUseCase) Create(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if !entity.IsValidRole(in.Role) {
		return nil, domain.ErrInvalidInput
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	existing, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	manager, err := uc.resolveManager(ctx, in.Role, in.ManagerID)
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(in.Name),
		Role:         in.Role,
		ManagerID:    manager,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	log.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("usuario creado")
	return ToUserResponse(user), nil
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return ToUserResponse(user), nil
}

// List lista usuarios, opcionalmente filtrados por rol.
func (uc *UserUseCase) List(ctx context.Context, role string, page dto.PageRequest) ([]dto.UserResponse, error) {
	if role != "" && !entity.IsValidRole(role) {
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPage()
	list, err := uc.repo.List(ctx, repository.UserFilter{Role: role, Limit: page.Limit, Offset: page.Offset})
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, *ToUserResponse(u))
	}
	return out, nil
}

// Update edita un usuario. Si deja de ser empleado se limpia su jefe; si deja de ser team_leader,
// sus empleados quedan sin jefe.
func (uc *UserUseCase) Update(ctx context.Context, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	prevRole := user.Role

	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if email != user.Email {
			other, err := uc.repo.GetByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if other != nil && other.ID != user.ID {
				return nil, domain.ErrEmailAlreadyExists
			}
		}
		user.Email = email
	}
	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if in.Status != nil {
		user.Status = *in.Status
	}
	if in.Role != nil {
		if !entity.IsValidRole(*in.Role) {
			return nil, domain.ErrInvalidInput
		}
		if prevRole == entity.RoleAdmin && *in.Role != entity.RoleAdmin {
			if err := uc.ensureNotLastAdmin(ctx); err != nil {
				return nil, err
			}
		}
		user.Role = *in.Role
	}

	switch {
	case in.ManagerID != nil:
		manager, err := uc.resolveManager(ctx, user.Role, in.ManagerID)
		if err != nil {
			return nil, err
		}
		if manager != nil && *manager == user.ID {
			return nil, domain.ErrInvalidInput
		}
		user.ManagerID = manager
	case user.Role != entity.RoleEmployee:
		user.ManagerID = nil
	}

	// los empleados se liberan antes de guardar el rol; ninguno queda con un jefe que no sea team_leader
	if prevRole == entity.RoleTeamLeader && user.Role != entity.RoleTeamLeader {
		if err := uc.repo.ClearManager(ctx, user.ID); err != nil {
			return nil, err
		}
	}
	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	log.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("usuario actualizado")
	return ToUserResponse(user), nil
}

// Delete elimina un usuario. Un admin no puede eliminarse a sí mismo ni al último admin.
func (uc *UserUseCase) Delete(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return domain.ErrForbidden
	}
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if user.Role == entity.RoleAdmin {
		if err := uc.ensureNotLastAdmin(ctx); err != nil {
			return err
		}
	}
	if user.Role == entity.RoleTeamLeader {
		if err := uc.repo.ClearManager(ctx, user.ID); err != nil {
			return err
		}
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	log.Info().Str("user_id", id).Msg("usuario eliminado")
	return nil
}

// resolveManager valida el jefe pedido para el rol. "" o nil = sin jefe.
func (uc *UserUseCase) resolveManager(ctx context.Context, role string, managerID *string) (*string, error) {
	if managerID == nil || strings.TrimSpace(*managerID) == "" {
		return nil, nil
	}
	if role != entity.RoleEmployee {
		return nil, domain.ErrManagerNotAllowed
	}
	id := strings.TrimSpace(*managerID)
	manager, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if manager == nil || manager.Role != entity.RoleTeamLeader {
		return nil, fmt.Errorf("el jefe asignado debe ser un team_leader: %w", domain.ErrInvalidInput)
	}
	return &id, nil
}

func (uc *UserUseCase) ensureNotLastAdmin(ctx context.Context) error {
	n, err := uc.repo.CountByRole(ctx, entity.RoleAdmin)
	if err != nil {
		return err
	}
	if n <= 1 {
		return fmt.Errorf("debe existir al menos un administrador: %w", domain.ErrConflict)
	}
	return nil
}

// ToUserResponse convierte la entidad a DTO (sin password).
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		ManagerID: u.ManagerID,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
