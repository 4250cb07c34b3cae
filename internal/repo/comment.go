package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/summaries/internal/models"
)

func preloadComment(tx *gorm.DB) *gorm.DB {
	return tx.Preload("User").Preload("User.Role").Preload("Summary").Preload("Summary.User")
}

func (r *GormRepo) GetComment(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := preloadComment(r.DB.WithContext(ctx)).First(&comment, id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &comment, nil
}

func (r *GormRepo) ListComments(ctx context.Context, limit int) ([]models.Comment, error) {
	comments := make([]models.Comment, 0)
	if err := preloadComment(r.DB.WithContext(ctx)).Order("id ASC").Limit(limit).Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// CreateComment fails with ErrMissingUser or ErrMissingSummary when a
// referenced row does not exist.
func (r *GormRepo) CreateComment(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := exists(tx, &models.User{}, comment.UserID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrMissingUser
		}
		ok, err = exists(tx, &models.Summary{}, comment.SummaryID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrMissingSummary
		}
		return tx.Omit("User", "Summary").Create(comment).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetComment(ctx, comment.ID)
}

func (r *GormRepo) UpdateComment(ctx context.Context, id uint, text string) (*models.Comment, error) {
	res := r.DB.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", id).Update("text", text)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetComment(ctx, id)
}

func (r *GormRepo) DeleteComment(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Comment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
