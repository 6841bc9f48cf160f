package analytics_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sitetrack-api/internal/application/analytics"
	"github.com/jhoicas/sitetrack-api/internal/application/dto"
	"github.com/jhoicas/sitetrack-api/internal/domain/entity"
	"github.com/jhoicas/sitetrack-api/internal/domain/repository"
)

type fakeStats struct {
	calls    int
	tasksErr error
	counts   []repository.AssigneeTaskCounts
}

func (f *fakeStats) CountProjects(context.Context) (int, error) {
	f.calls++
	return 3, nil
}

func (f *fakeStats) CountUsersByRole(context.Context) (map[string]int, error) {
	return map[string]int{entity.RoleAdmin: 1, entity.RoleTeamLeader: 2, entity.RoleEmployee: 7}, nil
}

func (f *fakeStats) CountTasksByStatus(context.Context) (map[string]int, error) {
	if f.tasksErr != nil {
		return nil, f.tasksErr
	}
	return map[string]int{
		entity.TaskStatusLocked:     4,
		entity.TaskStatusPending:    2,
		entity.TaskStatusInProgress: 1,
		entity.TaskStatusSubmitted:  5,
		entity.TaskStatusCompleted:  6,
		entity.TaskStatusVerified:   9,
	}, nil
}

func (f *fakeStats) InventoryTotals(context.Context) ([]repository.ProductStockTotal, error) {
	return []repository.ProductStockTotal{{ProductID: "p1", Name: "Cable", TotalStock: decimal.NewFromInt(40)}}, nil
}

func (f *fakeStats) TaskCountsByAssignee(context.Context) ([]repository.AssigneeTaskCounts, error) {
	return f.counts, nil
}

type mapCache map[string][]byte

func (m mapCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m[key]
	return v, ok, nil
}

func (m mapCache) Set(_ context.Context, key string, value []byte) error {
	m[key] = value
	return nil
}

func TestDashboard_GetStats(t *testing.T) {
	stats := &fakeStats{}
	uc := analytics.NewDashboardUseCase(stats, nil)

	got, err := uc.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, got.TotalProjects)
	assert.Equal(t, 2, got.TotalTeamLeaders)
	assert.Equal(t, 7, got.TotalEmployees)
	assert.Equal(t, 7, got.PendingTasks, "locked + pending + in-progress")
	assert.Equal(t, 5, got.SubmittedTasks)
	assert.Equal(t, 6, got.CompletedTasks)
	assert.Equal(t, 9, got.VerifiedTasks)
	require.Len(t, got.InventoryStats, 1)
	assert.True(t, got.InventoryStats[0].TotalStock.Equal(decimal.NewFromInt(40)))
}

func TestDashboard_UsesCache(t *testing.T) {
	stats := &fakeStats{}
	uc := analytics.NewDashboardUseCase(stats, mapCache{})

	first, err := uc.GetStats(context.Background())
	require.NoError(t, err)
	second, err := uc.GetStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.calls, "la segunda lectura sale de la caché")
	assert.Equal(t, first.VerifiedTasks, second.VerifiedTasks)
}

func TestDashboard_PropagatesErrors(t *testing.T) {
	boom := errors.New("db caída")
	uc := analytics.NewDashboardUseCase(&fakeStats{tasksErr: boom}, nil)
	_, err := uc.GetStats(context.Background())
	assert.ErrorIs(t, err, boom)
}

type captureExporter struct{ rows []dto.EmployeePerformanceDTO }

func (c *captureExporter) ExportPerformance(rows []dto.EmployeePerformanceDTO) ([]byte, error) {
	c.rows = rows
	return []byte("xlsx"), nil
}

func TestPerformance_SortedByCompletionRate(t *testing.T) {
	stats := &fakeStats{counts: []repository.AssigneeTaskCounts{
		{UserID: "a", Name: "Ana", Total: 4, Completed: 1},
		{UserID: "b", Name: "Beto", Total: 3, Completed: 3},
		{UserID: "c", Name: "Caro", Total: 3, Completed: 2},
	}}
	exp := &captureExporter{}
	uc := analytics.NewPerformanceUseCase(stats, exp)

	rows, err := uc.EmployeePerformance(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "b", rows[0].ID)
	assert.Equal(t, 100, rows[0].CompletionRate)
	assert.Equal(t, 67, rows[1].CompletionRate)
	assert.Equal(t, 25, rows[2].CompletionRate)
	assert.Equal(t, 3, rows[2].Pending)

	out, err := uc.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("xlsx"), out)
	assert.Len(t, exp.rows, 3)
}
