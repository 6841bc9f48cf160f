package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/sitetrack-api/internal/domain"
	"github.com/jhoicas/sitetrack-api/internal/domain/entity"
	"github.com/jhoicas/sitetrack-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación en memoria de UserRepository.
type UserRepo struct {
	store *Store
	inTx  bool
}

func NewUserRepository(store *Store) *UserRepo {
	return &UserRepo{store: store}
}

func emailTaken(st *state, email, exceptID string) bool {
	for _, u := range st.users {
		if u.ID != exceptID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	return r.store.view(r.inTx, func(st *state) error {
		if emailTaken(st, user.Email, "") {
			return domain.ErrEmailAlreadyExists
		}
		st.users[user.ID] = cloneUser(user)
		return nil
	})
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.store.view(r.inTx, func(st *state) error {
		if u, ok := st.users[id]; ok {
			out = cloneUser(u)
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.store.view(r.inTx, func(st *state) error {
		for _, u := range st.users {
			if strings.EqualFold(u.Email, email) {
				out = cloneUser(u)
				break
			}
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) Update(_ context.Context, user *entity.User) error {
	return r.store.view(r.inTx, func(st *state) error {
		if _, ok := st.users[user.ID]; !ok {
			return domain.ErrNotFound
		}
		if emailTaken(st, user.Email, user.ID) {
			return domain.ErrEmailAlreadyExists
		}
		st.users[user.ID] = cloneUser(user)
		return nil
	})
}

func (r *UserRepo) List(_ context.Context, f repository.UserFilter) ([]*entity.User, error) {
	var out []*entity.User
	err := r.store.view(r.inTx, func(st *state) error {
		for _, u := range st.users {
			if f.Role != "" && u.Role != f.Role {
				continue
			}
			if f.ManagerID != "" && (u.ManagerID == nil || *u.ManagerID != f.ManagerID) {
				continue
			}
			out = append(out, cloneUser(u))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, f.Limit, f.Offset), err
}

func (r *UserRepo) CountByRole(_ context.Context, role string) (int, error) {
	n := 0
	err := r.store.view(r.inTx, func(st *state) error {
		for _, u := range st.users {
			if u.Role == role {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *UserRepo) ClearManager(_ context.Context, managerID string) error {
	return r.store.view(r.inTx, func(st *state) error {
		for _, u := range st.users {
			if u.ManagerID != nil && *u.ManagerID == managerID {
				u.ManagerID = nil
			}
		}
		return nil
	})
}

// Delete falla con ErrConflict si el usuario lidera algún proyecto.
func (r *UserRepo) Delete(_ context.Context, id string) error {
	return r.store.view(r.inTx, func(st *state) error {
		if _, ok := st.users[id]; !ok {
			return domain.ErrNotFound
		}
		for _, p := range st.projects {
			if p.LeaderID == id {
				return domain.ErrConflict
			}
		}
		delete(st.users, id)
		return nil
	})
}
