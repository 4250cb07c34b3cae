package service

import (
	"context"
	"errors"

	"github.com/Skotchmaster/summaries/internal/models"
	"github.com/Skotchmaster/summaries/internal/repo"
	"github.com/Skotchmaster/summaries/internal/tokens"
	"github.com/Skotchmaster/summaries/internal/transport"
)

type RoleService struct {
	Repo *repo.GormRepo
}

func requireAdmin(actor tokens.Identity) error {
	if actor.Role != models.RoleAdmin {
		return ErrForbidden
	}
	return nil
}

// builtin reports whether name is a role the service itself depends on.
func builtin(name string) bool {
	return name == models.RoleUser || name == models.RoleAdmin
}

func (s *RoleService) Get(ctx context.Context, id uint) (*models.Role, error) {
	role, err := s.Repo.GetRoleByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errRoleNotFound
		}
		return nil, err
	}
	return role, nil
}

func (s *RoleService) List(ctx context.Context, limit int) ([]models.Role, error) {
	return s.Repo.ListRoles(ctx, limit)
}

func (s *RoleService) Create(ctx context.Context, actor tokens.Identity, req transport.CreateRoleRequest) (*models.Role, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	role, err := s.Repo.CreateRole(ctx, &models.Role{Name: req.Name, Description: req.Description})
	if err != nil {
		if errors.Is(err, repo.ErrRoleNameTaken) {
			return nil, errRoleExists
		}
		return nil, err
	}
	return role, nil
}

func (s *RoleService) Update(ctx context.Context, actor tokens.Identity, id uint, req transport.PatchRoleRequest) (*models.Role, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Empty() {
		return nil, ErrEmptyUpdate
	}
	if builtin(current.Name) && req.Name != nil && *req.Name != current.Name {
		return nil, errBuiltinRole
	}

	role, err := s.Repo.UpdateRole(ctx, id, repo.RolePatch{Name: req.Name, Description: req.Description})
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return nil, errRoleNotFound
		case errors.Is(err, repo.ErrRoleNameTaken):
			return nil, errRoleExists
		}
		return nil, err
	}
	return role, nil
}

func (s *RoleService) Delete(ctx context.Context, actor tokens.Identity, id uint) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if builtin(current.Name) {
		return errBuiltinRole
	}
	if err := s.Repo.DeleteRole(ctx, id); err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return errRoleNotFound
		case errors.Is(err, repo.ErrRoleInUse):
			return errRoleInUse
		}
		return err
	}
	return nil
}
