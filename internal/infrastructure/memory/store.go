// Package memory implementa los repositorios en memoria del proceso.
// Se usa con DB_DRIVER=memory y como doble de prueba de los casos de uso.
package memory

import (
	"sync"

	"github.com/jhoicas/sitetrack-api/internal/domain/entity"
)

type stockKey struct {
	productID   string
	warehouseID string
}

type state struct {
	products   map[string]*entity.Product
	warehouses map[string]*entity.Warehouse
	stock      map[stockKey]entity.StockEntry
	logs       []*entity.StockLog
	users      map[string]*entity.User
	projects   map[string]*entity.Project
	tasks      map[string]*entity.Task
}

func newState() *state {
	return &state{
		products:   map[string]*entity.Product{},
		warehouses: map[string]*entity.Warehouse{},
		stock:      map[stockKey]entity.StockEntry{},
		users:      map[string]*entity.User{},
		projects:   map[string]*entity.Project{},
		tasks:      map[string]*entity.Task{},
	}
}

// Store estado compartido por todos los repositorios en memoria.
// Un único mutex serializa el acceso; las transacciones lo mantienen tomado durante todo fn.
type Store struct {
	mu   sync.Mutex
	data *state
}

// NewStore construye un store vacío.
func NewStore() *Store {
	return &Store{data: newState()}
}

// view ejecuta fn con el estado; toma el mutex salvo dentro de una transacción (que ya lo tiene).
func (s *Store) view(inTx bool, fn func(st *state) error) error {
	if !inTx {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	return fn(s.data)
}

func (st *state) clone() *state {
	c := newState()
	for k, v := range st.products {
		c.products[k] = cloneProduct(v)
	}
	for k, v := range st.warehouses {
		w := *v
		c.warehouses[k] = &w
	}
	for k, v := range st.stock {
		c.stock[k] = v
	}
	c.logs = make([]*entity.StockLog, len(st.logs))
	for i, l := range st.logs {
		cp := *l
		c.logs[i] = &cp
	}
	for k, v := range st.users {
		c.users[k] = cloneUser(v)
	}
	for k, v := range st.projects {
		c.projects[k] = cloneProject(v)
	}
	for k, v := range st.tasks {
		c.tasks[k] = cloneTask(v)
	}
	return c
}

func cloneProduct(p *entity.Product) *entity.Product {
	c := *p
	c.Steps = make([]entity.ProcessStep, len(p.Steps))
	for i, s := range p.Steps {
		s.RequiredPhotos = append([]string(nil), s.RequiredPhotos...)
		c.Steps[i] = s
	}
	return &c
}

func cloneUser(u *entity.User) *entity.User {
	c := *u
	if u.ManagerID != nil {
		m := *u.ManagerID
		c.ManagerID = &m
	}
	return &c
}

func cloneProject(p *entity.Project) *entity.Project {
	c := *p
	c.LineItems = append([]entity.ProjectLineItem(nil), p.LineItems...)
	if p.CompletionLetter != nil {
		l := *p.CompletionLetter
		c.CompletionLetter = &l
	}
	c.StartDate = cloneTime(p.StartDate)
	c.Deadline = cloneTime(p.Deadline)
	return &c
}

func cloneTask(t *entity.Task) *entity.Task {
	c := *t
	c.RequiredPhotos = append([]string(nil), t.RequiredPhotos...)
	c.Photos = make(map[string]string, len(t.Photos))
	for k, v := range t.Photos {
		c.Photos[k] = v
	}
	c.SubmittedAt = cloneTime(t.SubmittedAt)
	c.CompletedAt = cloneTime(t.CompletedAt)
	c.VerifiedAt = cloneTime(t.VerifiedAt)
	return &c
}

func page[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
