package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/sitetrack-api/internal/domain"
	"github.com/jhoicas/sitetrack-api/internal/domain/entity"
	"github.com/jhoicas/sitetrack-api/internal/domain/repository"
)

var _ repository.ProjectRepository = (*ProjectRepo)(nil)

// ProjectRepo implementación en memoria de ProjectRepository.
type ProjectRepo struct {
	store *Store
	inTx  bool
}

func NewProjectRepository(store *Store) *ProjectRepo {
	return &ProjectRepo{store: store}
}

func (r *ProjectRepo) Create(_ context.Context, p *entity.Project) error {
	return r.store.view(r.inTx, func(st *state) error {
		if _, ok := st.projects[p.ID]; ok {
			return domain.ErrDuplicate
		}
		st.projects[p.ID] = cloneProject(p)
		return nil
	})
}

func (r *ProjectRepo) GetByID(_ context.Context, id string) (*entity.Project, error) {
	var out *entity.Project
	err := r.store.view(r.inTx, func(st *state) error {
		if p, ok := st.projects[id]; ok {
			out = cloneProject(p)
		}
		return nil
	})
	return out, err
}

func (r *ProjectRepo) Update(_ context.Context, p *entity.Project) error {
	return r.store.view(r.inTx, func(st *state) error {
		if _, ok := st.projects[p.ID]; !ok {
			return domain.ErrNotFound
		}
		st.projects[p.ID] = cloneProject(p)
		return nil
	})
}

func (r *ProjectRepo) List(_ context.Context, f repository.ProjectFilter) ([]*entity.Project, error) {
	var out []*entity.Project
	err := r.store.view(r.inTx, func(st *state) error {
		for _, p := range st.projects {
			if f.Status != "" && p.Status != f.Status {
				continue
			}
			if f.LeaderID != "" && p.LeaderID != f.LeaderID {
				continue
			}
			out = append(out, cloneProject(p))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, f.Limit, f.Offset), err
}

func (r *ProjectRepo) Delete(_ context.Context, id string) error {
	return r.store.view(r.inTx, func(st *state) error {
		if _, ok := st.projects[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.projects, id)
		for tid, t := range st.tasks {
			if t.ProjectID == id {
				delete(st.tasks, tid)
			}
		}
		return nil
	})
}
