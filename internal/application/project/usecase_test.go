package project_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sitetrack-api/internal/application/dto"
	"github.com/jhoicas/sitetrack-api/internal/application/inventory"
	"github.com/jhoicas/sitetrack-api/internal/application/project"
	"github.com/jhoicas/sitetrack-api/internal/application/usecase"
	"github.com/jhoicas/sitetrack-api/internal/domain"
	"github.com/jhoicas/sitetrack-api/internal/domain/entity"
	"github.com/jhoicas/sitetrack-api/internal/infrastructure/memory"
)

type fixture struct {
	projects *project.ProjectUseCase
	products *usecase.ProductUseCase
	users    *usecase.UserUseCase
	ledger   *inventory.LedgerUseCase
	stores   *usecase.WarehouseUseCase
	taskRepo *memory.TaskRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	tx := memory.NewTxRunner(store)
	productRepo := memory.NewProductRepository(store)
	stockRepo := memory.NewStockRepository(store)
	warehouseRepo := memory.NewWarehouseRepository(store)
	userRepo := memory.NewUserRepository(store)
	taskRepo := memory.NewTaskRepository(store)
	return &fixture{
		projects: project.NewProjectUseCase(
			tx,
			memory.NewProjectRepository(store),
			taskRepo,
			productRepo,
			userRepo,
			inventory.NewStockCheckUseCase(productRepo, stockRepo),
			nil,
			nil,
		),
		products: usecase.NewProductUseCase(productRepo, stockRepo, warehouseRepo),
		users:    usecase.NewUserUseCase(userRepo),
		ledger:   inventory.NewLedgerUseCase(tx, productRepo, warehouseRepo, memory.NewStockLogRepository(store), nil),
		stores:   usecase.NewWarehouseUseCase(warehouseRepo, stockRepo, productRepo),
		taskRepo: taskRepo,
	}
}

func (f *fixture) user(t *testing.T, email, role string) string {
	t.Helper()
	u, err := f.users.Create(context.Background(), dto.CreateUserRequest{
		Email: email, Password: "secret-123", Name: email, Role: role,
	})
	require.NoError(t, err)
	return u.ID
}

func (f *fixture) product(t *testing.T, name string, steps ...string) string {
	t.Helper()
	in := dto.CreateProductRequest{Name: name}
	for _, s := range steps {
		in.Steps = append(in.Steps, dto.ProcessStepDTO{Title: s, RequiredPhotos: []string{entity.PhotoAfter}})
	}
	p, err := f.products.Create(context.Background(), in)
	require.NoError(t, err)
	return p.ID
}

func line(productID string, q int64) dto.LineItemRequest {
	return dto.LineItemRequest{ProductID: productID, PlannedQuantity: decimal.NewFromInt(q)}
}

func TestCreate_GeneratesOneTaskPerStep(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	leader := f.user(t, "lead@site.io", entity.RoleTeamLeader)
	panel := f.product(t, "Solar Panel", "Survey", "Mount", "Wire")
	cable := f.product(t, "Cable", "Lay")
	bare := f.product(t, "Screws")

	resp, err := f.projects.Create(ctx, dto.CreateProjectRequest{
		Name:      "Greenfield School",
		Category:  entity.CategorySecondary,
		LeaderID:  leader,
		LineItems: []dto.LineItemRequest{line(panel, 2), line(cable, 10), line(bare, 100)},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, resp.TasksCreated)
	assert.Equal(t, entity.ProjectStatusActive, resp.Project.Status)

	tasks, err := f.taskRepo.ListByProject(ctx, resp.Project.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 4)
	for _, tk := range tasks {
		assert.Equal(t, leader, tk.AssignedTo)
		if tk.Sequence == 1 {
			assert.Equal(t, entity.TaskStatusPending, tk.Status)
		} else {
			assert.Equal(t, entity.TaskStatusLocked, tk.Status)
		}
	}
}

func TestCreate_HardPreconditions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	leader := f.user(t, "lead@site.io", entity.RoleTeamLeader)
	employee := f.user(t, "emp@site.io", entity.RoleEmployee)
	panel := f.product(t, "Solar Panel", "Mount")

	tests := []struct {
		name string
		in   dto.CreateProjectRequest
		want error
	}{
		{"sin nombre", dto.CreateProjectRequest{Name: "  ", LeaderID: leader, LineItems: []dto.LineItemRequest{line(panel, 1)}}, domain.ErrInvalidInput},
		{"sin líder", dto.CreateProjectRequest{Name: "X", LineItems: []dto.LineItemRequest{line(panel, 1)}}, domain.ErrInvalidInput},
		{"sin líneas", dto.CreateProjectRequest{Name: "X", LeaderID: leader}, domain.ErrInvalidInput},
		{"líder no es team_leader", dto.CreateProjectRequest{Name: "X", LeaderID: employee, LineItems: []dto.LineItemRequest{line(panel, 1)}}, domain.ErrInvalidInput},
		{"líder inexistente", dto.CreateProjectRequest{Name: "X", LeaderID: "nope", LineItems: []dto.LineItemRequest{line(panel, 1)}}, domain.ErrUserNotFound},
		{"producto inexistente", dto.CreateProjectRequest{Name: "X", LeaderID: leader, LineItems: []dto.LineItemRequest{line("nope", 1)}}, domain.ErrNotFound},
		{"cantidad cero", dto.CreateProjectRequest{Name: "X", LeaderID: leader, LineItems: []dto.LineItemRequest{line(panel, 0)}}, domain.ErrInvalidInput},
		{"categoría inválida", dto.CreateProjectRequest{Name: "X", Category: "Mall", LeaderID: leader, LineItems: []dto.LineItemRequest{line(panel, 1)}}, domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.projects.Create(ctx, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	list, err := f.projects.List(ctx, "", "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Items, "ningún intento fallido debe persistir")
}

func TestCreate_StockWarningsDoNotBlock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	leader := f.user(t, "lead@site.io", entity.RoleTeamLeader)
	panel := f.product(t, "Solar Panel", "Mount")
	w, err := f.stores.Create(ctx, dto.CreateWarehouseRequest{Name: "Main"})
	require.NoError(t, err)
	_, err = f.ledger.AddStock(ctx, "u", dto.AddStockRequest{ProductID: panel, WarehouseID: w.ID, Quantity: decimal.NewFromInt(3)})
	require.NoError(t, err)

	warnings, err := f.projects.CheckStock(ctx, dto.StockCheckRequest{LineItems: []dto.LineItemRequest{line(panel, 5)}})
	require.NoError(t, err)
	require.Len(t, warnings, 1)

	resp, err := f.projects.Create(ctx, dto.CreateProjectRequest{
		Name: "Riverside", LeaderID: leader, LineItems: []dto.LineItemRequest{line(panel, 5)},
	})
	require.NoError(t, err)
	require.Len(t, resp.StockWarnings, 1)
	assert.Equal(t, panel, resp.StockWarnings[0].ProductID)
	assert.Equal(t, entity.CategoryPrimary, resp.Project.Category)
}

func TestGetDetails_Progress(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	leader := f.user(t, "lead@site.io", entity.RoleTeamLeader)
	panel := f.product(t, "Solar Panel", "Survey", "Mount", "Wire")
	resp, err := f.projects.Create(ctx, dto.CreateProjectRequest{
		Name: "Hilltop", LeaderID: leader, LineItems: []dto.LineItemRequest{line(panel, 1)},
	})
	require.NoError(t, err)

	tasks, err := f.taskRepo.ListByProject(ctx, resp.Project.ID)
	require.NoError(t, err)
	tasks[0].Status = entity.TaskStatusVerified
	require.NoError(t, f.taskRepo.Update(ctx, tasks[0]))

	details, err := f.projects.GetDetails(ctx, resp.Project.ID)
	require.NoError(t, err)
	assert.Equal(t, dto.ProgressDTO{Completed: 1, Total: 3, Percent: 33}, details.Progress)
	require.NotNil(t, details.Project.LineItems[0].Progress)
	assert.Equal(t, 33, details.Project.LineItems[0].Progress.Percent)
	assert.Equal(t, "Solar Panel", details.Project.LineItems[0].ProductName)
	assert.Equal(t, "lead@site.io", details.Project.LeaderName)
	assert.Len(t, details.Tasks, 3)
}

func TestUpdate_LeaderAndCompletionLetter(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	leader := f.user(t, "lead@site.io", entity.RoleTeamLeader)
	other := f.user(t, "lead2@site.io", entity.RoleTeamLeader)
	employee := f.user(t, "emp@site.io", entity.RoleEmployee)
	panel := f.product(t, "Solar Panel", "Mount")
	resp, err := f.projects.Create(ctx, dto.CreateProjectRequest{
		Name: "Hilltop", LeaderID: leader, LineItems: []dto.LineItemRequest{line(panel, 1)},
	})
	require.NoError(t, err)
	id := resp.Project.ID

	_, err = f.projects.Update(ctx, id, dto.UpdateProjectRequest{LeaderID: &employee})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	updated, err := f.projects.Update(ctx, id, dto.UpdateProjectRequest{LeaderID: &other})
	require.NoError(t, err)
	assert.Equal(t, other, updated.LeaderID)

	// las tareas ya generadas conservan su asignado
	tasks, err := f.taskRepo.ListByProject(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, leader, tasks[0].AssignedTo)

	withLetter, err := f.projects.AttachCompletionLetter(ctx, id, "uploads/letter.pdf")
	require.NoError(t, err)
	require.NotNil(t, withLetter.CompletionLetter)
	assert.Equal(t, "uploads/letter.pdf", withLetter.CompletionLetter.URL)
	assert.False(t, withLetter.CompletionLetter.UploadedAt.IsZero())

	_, err = f.projects.AttachCompletionLetter(ctx, id, " ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDelete_CascadesTasks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	leader := f.user(t, "lead@site.io", entity.RoleTeamLeader)
	panel := f.product(t, "Solar Panel", "Mount", "Wire")
	resp, err := f.projects.Create(ctx, dto.CreateProjectRequest{
		Name: "Hilltop", LeaderID: leader, LineItems: []dto.LineItemRequest{line(panel, 1)},
	})
	require.NoError(t, err)

	require.NoError(t, f.projects.Delete(ctx, resp.Project.ID))
	tasks, err := f.taskRepo.ListByProject(ctx, resp.Project.ID)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	_, err = f.projects.GetDetails(ctx, resp.Project.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, f.projects.Delete(ctx, resp.Project.ID), domain.ErrNotFound)
}
