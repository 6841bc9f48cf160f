package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sitetrack-api/internal/application/auth"
	"github.com/jhoicas/sitetrack-api/internal/application/dto"
	"github.com/jhoicas/sitetrack-api/internal/application/usecase"
	"github.com/jhoicas/sitetrack-api/internal/domain"
	"github.com/jhoicas/sitetrack-api/internal/domain/entity"
	"github.com/jhoicas/sitetrack-api/internal/infrastructure/memory"
	pkgjwt "github.com/jhoicas/sitetrack-api/pkg/jwt"
)

const testSecret = "test-secret-key-for-unit-tests"

func TestAuth_LoginAndMe(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewUserRepository(memory.NewStore())
	uc := auth.NewAuthUseCase(repo, auth.JWTConfig{Secret: testSecret, ExpMinutes: 60, Issuer: "sitetrack-test"})

	created, err := uc.EnsureAdmin(ctx, "Admin@Site.io", "secret-123", "Admin")
	require.NoError(t, err)
	assert.True(t, created)
	created, err = uc.EnsureAdmin(ctx, "other@site.io", "secret-123", "Other")
	require.NoError(t, err)
	assert.False(t, created, "con un admin existente no se crea otro")

	resp, err := uc.Login(ctx, dto.LoginRequest{Email: "admin@site.io", Password: "secret-123"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, resp.User.Role)

	userID, role, err := pkgjwt.Parse(testSecret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, userID)
	assert.Equal(t, entity.RoleAdmin, role)

	me, err := uc.Me(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "admin@site.io", me.Email)
}

func TestAuth_LoginFailures(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewUserRepository(memory.NewStore())
	users := usecase.NewUserUseCase(repo)
	uc := auth.NewAuthUseCase(repo, auth.JWTConfig{Secret: testSecret, ExpMinutes: 60})

	u, err := users.Create(ctx, dto.CreateUserRequest{Email: "emp@site.io", Password: "secret-123", Name: "E", Role: entity.RoleEmployee})
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "emp@site.io", Password: "wrong-pass"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ghost@site.io", Password: "secret-123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	inactive := entity.UserStatusInactive
	_, err = users.Update(ctx, u.ID, dto.UpdateUserRequest{Status: &inactive})
	require.NoError(t, err)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "emp@site.io", Password: "secret-123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Me(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
