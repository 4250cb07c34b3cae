package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Skotchmaster/summaries/internal/models"
)

type RolePatch struct {
	Name        *string
	Description *string
}

func (r *GormRepo) GetRoleByID(ctx context.Context, id uint) (*models.Role, error) {
	var role models.Role
	if err := r.DB.WithContext(ctx).Preload("Users").First(&role, id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &role, nil
}

func (r *GormRepo) GetRoleByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	if err := r.DB.WithContext(ctx).Where("name = ?", name).First(&role).Error; err != nil {
		return nil, mapErr(err)
	}
	return &role, nil
}

func (r *GormRepo) ListRoles(ctx context.Context, limit int) ([]models.Role, error) {
	roles := make([]models.Role, 0)
	if err := r.DB.WithContext(ctx).Preload("Users").Order("id ASC").Limit(limit).Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *GormRepo) CreateRole(ctx context.Context, role *models.Role) (*models.Role, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := roleNameFree(tx, role.Name, 0); err != nil {
			return err
		}
		if err := tx.Create(role).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrRoleNameTaken
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return role, nil
}

func (r *GormRepo) UpdateRole(ctx context.Context, id uint, patch RolePatch) (*models.Role, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var role models.Role
		if err := tx.First(&role, id).Error; err != nil {
			return mapErr(err)
		}

		updates := map[string]any{}
		if patch.Name != nil && *patch.Name != role.Name {
			if err := roleNameFree(tx, *patch.Name, id); err != nil {
				return err
			}
			updates["name"] = *patch.Name
		}
		if patch.Description != nil {
			updates["description"] = *patch.Description
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&role).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetRoleByID(ctx, id)
}

// DeleteRole refuses to remove a role that is still assigned.
func (r *GormRepo) DeleteRole(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := exists(tx, &models.Role{}, id)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotFound
		}

		var n int64
		if err := tx.Model(&models.User{}).Where("role_id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrRoleInUse
		}
		return tx.Delete(&models.Role{}, id).Error
	})
}

func roleNameFree(tx *gorm.DB, name string, exceptID uint) error {
	var n int64
	q := tx.Model(&models.Role{}).Where("name = ?", name)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ErrRoleNameTaken
	}
	return nil
}
