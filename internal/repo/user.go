package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/summaries/internal/models"
)

// UserPatch holds the columns to change; nil fields are left untouched.
type UserPatch struct {
	Username     *string
	PasswordHash *string
	Email        *string
	FIO          *string
}

func preloadUser(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Role").Preload("Summaries").Preload("Comments")
}

func (r *GormRepo) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := preloadUser(r.DB.WithContext(ctx)).First(&user, id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &user, nil
}

func (r *GormRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Preload("Role").Where("username = ?", username).First(&user).Error; err != nil {
		return nil, mapErr(err)
	}
	return &user, nil
}

func (r *GormRepo) ListUsers(ctx context.Context, limit int) ([]models.User, error) {
	users := make([]models.User, 0)
	if err := preloadUser(r.DB.WithContext(ctx)).Order("id ASC").Limit(limit).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *GormRepo) ListUserSummaries(ctx context.Context, userID uint) ([]models.Summary, error) {
	ok, err := exists(r.DB.WithContext(ctx), &models.User{}, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}

	summaries := make([]models.Summary, 0)
	if err := preloadSummary(r.DB.WithContext(ctx)).Where("user_id = ?", userID).Order("id ASC").Find(&summaries).Error; err != nil {
		return nil, err
	}
	return summaries, nil
}

// CreateUser inserts user. A zero RoleID resolves to the default role.
func (r *GormRepo) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.usernameFree(tx, user.Username, 0); err != nil {
			return err
		}

		if user.RoleID == 0 {
			var role models.Role
			if err := tx.Where("name = ?", models.RoleUser).First(&role).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrMissingRole
				}
				return err
			}
			user.RoleID = role.ID
		} else {
			ok, err := exists(tx, &models.Role{}, user.RoleID)
			if err != nil {
				return err
			}
			if !ok {
				return ErrMissingRole
			}
		}

		if err := tx.Omit("Role", "Summaries", "Comments").Create(user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrUsernameTaken
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetUserByID(ctx, user.ID)
}

func (r *GormRepo) UpdateUser(ctx context.Context, id uint, patch UserPatch) (*models.User, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			return mapErr(err)
		}

		updates := map[string]any{}
		if patch.Username != nil && *patch.Username != user.Username {
			if err := r.usernameFree(tx, *patch.Username, id); err != nil {
				return err
			}
			updates["username"] = *patch.Username
		}
		if patch.PasswordHash != nil {
			updates["password_hash"] = *patch.PasswordHash
		}
		if patch.Email != nil {
			updates["email"] = *patch.Email
		}
		if patch.FIO != nil {
			updates["fio"] = *patch.FIO
		}
		if len(updates) == 0 {
			return nil
		}

		if err := tx.Model(&user).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrUsernameTaken
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetUserByID(ctx, id)
}

// DeleteUser removes the user together with their summaries and every
// comment that belongs to them or to their summaries.
func (r *GormRepo) DeleteUser(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := exists(tx, &models.User{}, id)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotFound
		}

		owned := tx.Model(&models.Summary{}).Select("id").Where("user_id = ?", id)
		if err := tx.Where("user_id = ? OR summary_id IN (?)", id, owned).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("delete comments of user %d: %w", id, err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Summary{}).Error; err != nil {
			return fmt.Errorf("delete summaries of user %d: %w", id, err)
		}
		if err := tx.Delete(&models.User{}, id).Error; err != nil {
			return fmt.Errorf("delete user %d: %w", id, err)
		}
		return nil
	})
}

func (r *GormRepo) usernameFree(tx *gorm.DB, username string, exceptID uint) error {
	var n int64
	q := tx.Model(&models.User{}).Where("username = ?", username)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ErrUsernameTaken
	}
	return nil
}
