package services

import (
	"context"

	"github.com/justsurfingit/talent-crm/internal/models"
	"gorm.io/gorm"
)

// recordActivity appends a timeline entry. Callers log the error; a missing
// activity never fails the operation that produced it.
func recordActivity(ctx context.Context, db *gorm.DB, a *models.Activity) error {
	return db.WithContext(ctx).Create(a).Error
}

// listActivities returns the timeline entries whose column references id,
// newest first. column is one of candidate_id, job_id or deal_id.
func listActivities(ctx context.Context, db *gorm.DB, column string, id uint) ([]models.Activity, error) {
	var out []models.Activity
	err := db.WithContext(ctx).
		Where(column+" = ?", id).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func uintPtr(v uint) *uint { return &v }
