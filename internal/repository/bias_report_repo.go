package repository

import (
	"context"
	"errors"
	"fmt"

	"alphadesk/internal/model"

	"gorm.io/gorm"
)

// BiasReportRepository archives generated bias reports per user.
type BiasReportRepository interface {
	Append(ctx context.Context, record *model.BiasReportRecord) error
	GetLatestByUser(ctx context.Context, userID uint) (*model.BiasReportRecord, error)
}

type biasReportRepository struct {
	db *gorm.DB
}

func NewBiasReportRepository(db *gorm.DB) BiasReportRepository {
	return &biasReportRepository{db: db}
}

func (r *biasReportRepository) Append(ctx context.Context, record *model.BiasReportRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to append bias report: %w", err)
	}
	return nil
}

func (r *biasReportRepository) GetLatestByUser(ctx context.Context, userID uint) (*model.BiasReportRecord, error) {
	var record model.BiasReportRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("generated_at DESC, id DESC").
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest bias report: %w", err)
	}
	return &record, nil
}
