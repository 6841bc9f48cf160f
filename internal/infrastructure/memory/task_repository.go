package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/sitetrack-api/internal/domain"
	"github.com/jhoicas/sitetrack-api/internal/domain/entity"
	"github.com/jhoicas/sitetrack-api/internal/domain/repository"
)

var _ repository.TaskRepository = (*TaskRepo)(nil)

// TaskRepo implementación en memoria de TaskRepository.
type TaskRepo struct {
	store *Store
	inTx  bool
}

func NewTaskRepository(store *Store) *TaskRepo {
	return &TaskRepo{store: store}
}

func (r *TaskRepo) CreateBatch(_ context.Context, tasks []*entity.Task) error {
	return r.store.view(r.inTx, func(st *state) error {
		for _, t := range tasks {
			if _, ok := st.tasks[t.ID]; ok {
				return domain.ErrDuplicate
			}
		}
		for _, t := range tasks {
			st.tasks[t.ID] = cloneTask(t)
		}
		return nil
	})
}

func (r *TaskRepo) GetByID(_ context.Context, id string) (*entity.Task, error) {
	var out *entity.Task
	err := r.store.view(r.inTx, func(st *state) error {
		if t, ok := st.tasks[id]; ok {
			out = cloneTask(t)
		}
		return nil
	})
	return out, err
}

func (r *TaskRepo) ListLineForUpdate(_ context.Context, projectID string, lineIndex int) ([]*entity.Task, error) {
	return r.collect(func(t *entity.Task) bool { return t.ProjectID == projectID && t.LineIndex == lineIndex })
}

func (r *TaskRepo) ListByProject(_ context.Context, projectID string) ([]*entity.Task, error) {
	return r.collect(func(t *entity.Task) bool { return t.ProjectID == projectID })
}

func (r *TaskRepo) List(_ context.Context, f repository.TaskFilter) ([]*entity.Task, error) {
	statuses := make(map[string]bool, len(f.Statuses))
	for _, s := range f.Statuses {
		statuses[s] = true
	}
	out, err := r.collect(func(t *entity.Task) bool {
		if len(statuses) > 0 && !statuses[t.Status] {
			return false
		}
		if f.ProjectID != "" && t.ProjectID != f.ProjectID {
			return false
		}
		return f.AssignedTo == "" || t.AssignedTo == f.AssignedTo
	})
	return page(out, f.Limit, f.Offset), err
}

func (r *TaskRepo) Update(_ context.Context, t *entity.Task) error {
	return r.store.view(r.inTx, func(st *state) error {
		if _, ok := st.tasks[t.ID]; !ok {
			return domain.ErrNotFound
		}
		st.tasks[t.ID] = cloneTask(t)
		return nil
	})
}

// collect ordena por proyecto, línea y secuencia.
func (r *TaskRepo) collect(match func(*entity.Task) bool) ([]*entity.Task, error) {
	var out []*entity.Task
	err := r.store.view(r.inTx, func(st *state) error {
		for _, t := range st.tasks {
			if match(t) {
				out = append(out, cloneTask(t))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.ProjectID != b.ProjectID {
			return a.ProjectID < b.ProjectID
		}
		if a.LineIndex != b.LineIndex {
			return a.LineIndex < b.LineIndex
		}
		return a.Sequence < b.Sequence
	})
	return out, err
}
