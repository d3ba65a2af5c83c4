package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/poofware/mono-repo/backend/shared/go-models"
	"github.com/poofware/mono-repo/backend/shared/go-store"
	"github.com/poofware/mono-repo/backend/shared/go-utils"
)

// UserRepository holds account holders. A user is its own owner, so it
// does not embed the owner-scoped contract.
type UserRepository interface {
	Create(ctx context.Context, input models.UserInput) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// Update returns *NotFoundError when the user does not exist.
	Update(ctx context.Context, id uuid.UUID, patch models.UserUpdate) (*models.User, error)
	RecordLogin(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type userRepo struct {
	*env
}

func NewUserRepository(s store.Store, opts ...Option) UserRepository {
	return &userRepo{env: newEnv(s, opts...)}
}

func indexUser(u *models.User) ([]string, *uniqueKey) {
	return nil, &uniqueKey{Field: "email", Value: utils.NormalizeEmail(u.Email)}
}

func (r *userRepo) Create(ctx context.Context, input models.UserInput) (*models.User, error) {
	if err := validateInput(input, input.Metadata); err != nil {
		return nil, err
	}
	u := &models.User{ID: uuid.New(), UserFields: input.UserFields}
	u.Metadata = input.Metadata.Clone()
	u.Email = utils.NormalizeEmail(u.Email)
	return r.users.insert(ctx, u)
}

func (r *userRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.users.get(ctx, id, false)
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.users.findUnique(ctx, uniqueKey{Field: "email", Value: utils.NormalizeEmail(email)})
}

func (r *userRepo) Update(ctx context.Context, id uuid.UUID, patch models.UserUpdate) (*models.User, error) {
	if err := validateInput(patch, patch.Metadata); err != nil {
		return nil, err
	}
	return r.users.mutate(ctx, id, func(u *models.User) error {
		patch.ApplyTo(u)
		u.Email = utils.NormalizeEmail(u.Email)
		return nil
	})
}

func (r *userRepo) RecordLogin(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.users.mutate(ctx, id, func(u *models.User) error {
		now := r.now()
		u.LastLoginAt = &now
		return nil
	})
}
