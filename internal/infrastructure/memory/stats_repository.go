package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/sitetrack-api/internal/domain/entity"
	"github.com/jhoicas/sitetrack-api/internal/domain/repository"
)

var _ repository.StatsRepository = (*StatsRepo)(nil)

// StatsRepo consultas del dashboard sobre el store en memoria.
type StatsRepo struct {
	store *Store
}

func NewStatsRepository(store *Store) *StatsRepo {
	return &StatsRepo{store: store}
}

func (r *StatsRepo) CountProjects(_ context.Context) (int, error) {
	n := 0
	err := r.store.view(false, func(st *state) error {
		n = len(st.projects)
		return nil
	})
	return n, err
}

func (r *StatsRepo) CountUsersByRole(_ context.Context) (map[string]int, error) {
	out := map[string]int{}
	err := r.store.view(false, func(st *state) error {
		for _, u := range st.users {
			out[u.Role]++
		}
		return nil
	})
	return out, err
}

func (r *StatsRepo) CountTasksByStatus(_ context.Context) (map[string]int, error) {
	out := map[string]int{}
	err := r.store.view(false, func(st *state) error {
		for _, t := range st.tasks {
			out[t.Status]++
		}
		return nil
	})
	return out, err
}

func (r *StatsRepo) InventoryTotals(_ context.Context) ([]repository.ProductStockTotal, error) {
	var out []repository.ProductStockTotal
	err := r.store.view(false, func(st *state) error {
		totals := map[string]decimal.Decimal{}
		for k, e := range st.stock {
			totals[k.productID] = totals[k.productID].Add(e.Quantity)
		}
		for id, p := range st.products {
			out = append(out, repository.ProductStockTotal{ProductID: id, Name: p.Name, TotalStock: totals[id]})
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

func (r *StatsRepo) TaskCountsByAssignee(_ context.Context) ([]repository.AssigneeTaskCounts, error) {
	var out []repository.AssigneeTaskCounts
	err := r.store.view(false, func(st *state) error {
		byUser := map[string]*repository.AssigneeTaskCounts{}
		for _, t := range st.tasks {
			u, ok := st.users[t.AssignedTo]
			if !ok {
				continue
			}
			c, ok := byUser[u.ID]
			if !ok {
				c = &repository.AssigneeTaskCounts{UserID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
				byUser[u.ID] = c
			}
			c.Total++
			if entity.IsDone(t.Status) {
				c.Completed++
			}
		}
		for _, c := range byUser {
			out = append(out, *c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, err
}
