package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/project"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
)

type userRepositoryImpl struct {
	store *Store
}

func NewUserRepository(store *Store) user.UserRepository {
	return &userRepositoryImpl{store: store}
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, u user.User) (user.User, error) {
	err := r.store.run(ctx, func() error {
		r.store.users[u.ID] = u
		return nil
	})
	return u, err
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	var u user.User
	err := r.store.run(ctx, func() error {
		found, ok := r.store.users[id]
		if !ok {
			return user.ErrUserNotFound
		}
		u = found
		return nil
	})
	return u, err
}

// ListActive implements user.UserRepository.
func (r *userRepositoryImpl) ListActive(ctx context.Context) ([]user.User, error) {
	var users []user.User
	err := r.store.run(ctx, func() error {
		for _, u := range r.store.users {
			if u.IsActive {
				users = append(users, u)
			}
		}
		return nil
	})
	slices.SortFunc(users, func(a, b user.User) int { return strings.Compare(a.ID, b.ID) })
	return users, err
}

type projectRepositoryImpl struct {
	store *Store
}

func NewProjectRepository(store *Store) project.ProjectRepository {
	return &projectRepositoryImpl{store: store}
}

// Create implements project.ProjectRepository.
func (r *projectRepositoryImpl) Create(ctx context.Context, p project.Project) (project.Project, error) {
	err := r.store.run(ctx, func() error {
		r.store.projects[p.ID] = p
		return nil
	})
	return p, err
}

// GetByID implements project.ProjectRepository.
func (r *projectRepositoryImpl) GetByID(ctx context.Context, id string) (project.Project, error) {
	var p project.Project
	err := r.store.run(ctx, func() error {
		found, ok := r.store.projects[id]
		if !ok {
			return project.ErrProjectNotFound
		}
		p = found
		return nil
	})
	return p, err
}
