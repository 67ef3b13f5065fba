package users

import (
	"context"
	"fmt"
	"strings"

	pkgerrors "github.com/angelmondragon/bistro-backend/pkg/errors"
	"github.com/angelmondragon/bistro-backend/pkg/pagination"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Service covers self-service profiles and admin account management.
type Service interface {
	Profile(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input ProfileUpdate) (*UserDTO, error)

	List(ctx context.Context, search string, page pagination.Params) (*ListResult, error)
	Get(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	ToggleStatus(ctx context.Context, actorID, id uuid.UUID) (*UserDTO, error)
}

type service struct {
	repo     *Repository
	validate *validator.Validate
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo, validate: validator.New()}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return FromModel(user), nil
}

func (s *service) Profile(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	return s.Get(ctx, userID)
}

func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, input ProfileUpdate) (*UserDTO, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid profile")
	}
	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be blank")
		}
		updates["name"] = name
	}
	if input.Phone != nil {
		updates["phone"] = nullable(*input.Phone)
	}
	if input.Address != nil {
		updates["address"] = nullable(*input.Address)
	}
	if _, err := s.Get(ctx, userID); err != nil {
		return nil, err
	}
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, userID, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update profile")
		}
	}
	return s.Get(ctx, userID)
}

func nullable(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

// List serves the admin user table: search across name, email and phone,
// then page in memory.
func (s *service) List(ctx context.Context, search string, page pagination.Params) (*ListResult, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	all := make([]UserDTO, len(rows))
	for i := range rows {
		all[i] = *FromModel(&rows[i])
	}
	pageRows, meta := pagination.Slice(all, search, func(u UserDTO) []string {
		phone := ""
		if u.Phone != nil {
			phone = *u.Phone
		}
		return []string{u.Name, u.Email, phone, u.Role.String()}
	}, page)
	return &ListResult{Users: pageRows, Meta: meta}, nil
}

// ToggleStatus flips is_active. Admins cannot deactivate themselves.
func (s *service) ToggleStatus(ctx context.Context, actorID, id uuid.UUID) (*UserDTO, error) {
	if actorID == id {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cannot change your own account status")
	}
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetActive(ctx, id, !user.IsActive); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "toggle user status")
	}
	return s.Get(ctx, id)
}
