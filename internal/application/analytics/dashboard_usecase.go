// Package analytics contiene los casos de uso de reportes del dashboard.
package analytics

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/jhoicas/sitetrack-api/internal/application/dto"
	"github.com/jhoicas/sitetrack-api/internal/domain/entity"
	"github.com/jhoicas/sitetrack-api/internal/domain/repository"
)

const statsCacheKey = "dashboard:stats"

// DashboardUseCase genera los contadores del dashboard.
//
// Fuente de datos: StatsRepository (consultas read-only). Con caché configurada
// el resultado se reutiliza hasta que expire su TTL.
type DashboardUseCase struct {
	statsRepo repository.StatsRepository
	cache     StatsCache
}

// NewDashboardUseCase construye el caso de uso. cache puede ser nil.
func NewDashboardUseCase(statsRepo repository.StatsRepository, cache StatsCache) *DashboardUseCase {
	return &DashboardUseCase{statsRepo: statsRepo, cache: cache}
}

// GetStats construye el DashboardStatsDTO.
//
// Cuatro consultas en paralelo:
//  1. CountProjects       → TotalProjects
//  2. CountUsersByRole    → TotalTeamLeaders + TotalEmployees
//  3. CountTasksByStatus  → Pending/Submitted/Completed/Verified
//  4. InventoryTotals     → InventoryStats
func (uc *DashboardUseCase) GetStats(ctx context.Context) (*dto.DashboardStatsDTO, error) {
	if cached, ok := uc.fromCache(ctx); ok {
		return cached, nil
	}

	type countResult struct {
		n   int
		err error
	}
	type mapResult struct {
		m   map[string]int
		err error
	}
	type totalsResult struct {
		totals []repository.ProductStockTotal
		err    error
	}

	projectsCh := make(chan countResult, 1)
	usersCh := make(chan mapResult, 1)
	tasksCh := make(chan mapResult, 1)
	stockCh := make(chan totalsResult, 1)

	go func() {
		n, err := uc.statsRepo.CountProjects(ctx)
		projectsCh <- countResult{n, err}
	}()
	go func() {
		m, err := uc.statsRepo.CountUsersByRole(ctx)
		usersCh <- mapResult{m, err}
	}()
	go func() {
		m, err := uc.statsRepo.CountTasksByStatus(ctx)
		tasksCh <- mapResult{m, err}
	}()
	go func() {
		t, err := uc.statsRepo.InventoryTotals(ctx)
		stockCh <- totalsResult{t, err}
	}()

	projects := <-projectsCh
	users := <-usersCh
	tasks := <-tasksCh
	stock := <-stockCh

	if projects.err != nil {
		return nil, fmt.Errorf("dashboard: proyectos: %w", projects.err)
	}
	if users.err != nil {
		return nil, fmt.Errorf("dashboard: usuarios: %w", users.err)
	}
	if tasks.err != nil {
		return nil, fmt.Errorf("dashboard: tareas: %w", tasks.err)
	}
	if stock.err != nil {
		return nil, fmt.Errorf("dashboard: inventario: %w", stock.err)
	}

	out := &dto.DashboardStatsDTO{
		TotalProjects:    projects.n,
		TotalTeamLeaders: users.m[entity.RoleTeamLeader],
		TotalEmployees:   users.m[entity.RoleEmployee],
		PendingTasks: tasks.m[entity.TaskStatusLocked] +
			tasks.m[entity.TaskStatusPending] +
			tasks.m[entity.TaskStatusInProgress],
		SubmittedTasks: tasks.m[entity.TaskStatusSubmitted],
		CompletedTasks: tasks.m[entity.TaskStatusCompleted],
		VerifiedTasks:  tasks.m[entity.TaskStatusVerified],
		InventoryStats: make([]dto.InventoryStatsDTO, 0, len(stock.totals)),
	}
	for _, t := range stock.totals {
		out.InventoryStats = append(out.InventoryStats, dto.InventoryStatsDTO{Name: t.Name, TotalStock: t.TotalStock})
	}

	uc.toCache(ctx, out)
	return out, nil
}

func (uc *DashboardUseCase) fromCache(ctx context.Context) (*dto.DashboardStatsDTO, bool) {
	if uc.cache == nil {
		return nil, false
	}
	raw, ok, err := uc.cache.Get(ctx, statsCacheKey)
	if err != nil {
		log.Warn().Err(err).Msg("dashboard: lectura de caché falló")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var out dto.DashboardStatsDTO
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false
	}
	return &out, true
}

func (uc *DashboardUseCase) toCache(ctx context.Context, stats *dto.DashboardStatsDTO) {
	if uc.cache == nil {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := uc.cache.Set(ctx, statsCacheKey, raw); err != nil {
		log.Warn().Err(err).Msg("dashboard: escritura de caché falló")
	}
}
