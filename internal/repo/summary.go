package repo

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/summaries/internal/models"
)

type SummaryPatch struct {
	Title       *string
	Description *string
}

func preloadSummary(tx *gorm.DB) *gorm.DB {
	return tx.Preload("User").Preload("User.Role").Preload("Comments").Preload("Comments.User")
}

func (r *GormRepo) GetSummary(ctx context.Context, id uint) (*models.Summary, error) {
	var summary models.Summary
	if err := preloadSummary(r.DB.WithContext(ctx)).First(&summary, id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &summary, nil
}

func (r *GormRepo) ListSummaries(ctx context.Context, limit int) ([]models.Summary, error) {
	summaries := make([]models.Summary, 0)
	if err := preloadSummary(r.DB.WithContext(ctx)).Order("id ASC").Limit(limit).Find(&summaries).Error; err != nil {
		return nil, err
	}
	return summaries, nil
}

// ListSummariesByIDs returns the summaries with the given ids in the order of ids.
// Unknown ids are skipped.
func (r *GormRepo) ListSummariesByIDs(ctx context.Context, ids []uint) ([]models.Summary, error) {
	if len(ids) == 0 {
		return []models.Summary{}, nil
	}
	var found []models.Summary
	if err := preloadSummary(r.DB.WithContext(ctx)).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]models.Summary, len(found))
	for _, s := range found {
		byID[s.ID] = s
	}
	out := make([]models.Summary, 0, len(found))
	for _, id := range ids {
		if s, ok := byID[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *GormRepo) CreateSummary(ctx context.Context, summary *models.Summary) (*models.Summary, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := exists(tx, &models.User{}, summary.UserID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrMissingUser
		}
		return tx.Omit("User", "Comments").Create(summary).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetSummary(ctx, summary.ID)
}

func (r *GormRepo) UpdateSummary(ctx context.Context, id uint, patch SummaryPatch) (*models.Summary, error) {
	updates := map[string]any{}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}

	res := r.DB.WithContext(ctx).Model(&models.Summary{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetSummary(ctx, id)
}

// DeleteSummary removes the summary and its comments.
func (r *GormRepo) DeleteSummary(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("summary_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("delete comments of summary %d: %w", id, err)
		}
		res := tx.Delete(&models.Summary{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// SearchSummaries does a case-insensitive substring match on title and description.
func (r *GormRepo) SearchSummaries(ctx context.Context, q string, limit int) ([]models.Summary, error) {
	pattern := "%" + escapeLike(strings.ToLower(q)) + "%"
	summaries := make([]models.Summary, 0)
	err := preloadSummary(r.DB.WithContext(ctx)).
		Where("LOWER(title) LIKE ? ESCAPE '\\' OR LOWER(COALESCE(description, '')) LIKE ? ESCAPE '\\'", pattern, pattern).
		Order("id ASC").
		Limit(limit).
		Find(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
