package repository

import (
	"context"
	"errors"
	"fmt"

	"alphadesk/internal/model"

	"gorm.io/gorm"
)

// PortfolioRepository is the record store behind the scoring pipeline. All
// score/history tables are append-only; "latest" queries order by timestamp
// with id as the insertion-order tie break.
type PortfolioRepository interface {
	GetHoldings(ctx context.Context, userID uint) ([]model.Holding, error)
	CreateHolding(ctx context.Context, holding *model.Holding) error
	DeleteHolding(ctx context.Context, userID uint, symbol string) error

	GetPriceHistory(ctx context.Context, symbol string, limit int) ([]model.PriceHistoryPoint, error)
	AppendPricePoint(ctx context.Context, point *model.PriceHistoryPoint) error

	GetLatestSentiment(ctx context.Context, symbol string) (*model.SentimentRecord, error)
	GetRecentSentiments(ctx context.Context, limit int) ([]model.SentimentRecord, error)
	AppendSentiment(ctx context.Context, record *model.SentimentRecord) error

	AppendAlphaSignature(ctx context.Context, signature *model.AlphaSignature) error
	GetLatestAlphaSignature(ctx context.Context, symbol string) (*model.AlphaSignature, error)
	GetAlphaHistory(ctx context.Context, symbol string, limit int) ([]model.AlphaSignature, error)
}

type portfolioRepository struct {
	db *gorm.DB
}

func NewPortfolioRepository(db *gorm.DB) PortfolioRepository {
	return &portfolioRepository{db: db}
}

func (r *portfolioRepository) GetHoldings(ctx context.Context, userID uint) ([]model.Holding, error) {
	var holdings []model.Holding
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("symbol ASC").
		Find(&holdings).Error; err != nil {
		return nil, fmt.Errorf("failed to get holdings: %w", err)
	}
	return holdings, nil
}

func (r *portfolioRepository) CreateHolding(ctx context.Context, holding *model.Holding) error {
	if err := r.db.WithContext(ctx).Create(holding).Error; err != nil {
		return fmt.Errorf("failed to create holding: %w", err)
	}
	return nil
}

func (r *portfolioRepository) DeleteHolding(ctx context.Context, userID uint, symbol string) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND symbol = ?", userID, symbol).
		Delete(&model.Holding{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete holding: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *portfolioRepository) GetPriceHistory(ctx context.Context, symbol string, limit int) ([]model.PriceHistoryPoint, error) {
	var points []model.PriceHistoryPoint
	if err := r.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		Order("timestamp DESC, id DESC").
		Limit(limit).
		Find(&points).Error; err != nil {
		return nil, fmt.Errorf("failed to get price history: %w", err)
	}
	return points, nil
}

func (r *portfolioRepository) AppendPricePoint(ctx context.Context, point *model.PriceHistoryPoint) error {
	if err := r.db.WithContext(ctx).Create(point).Error; err != nil {
		return fmt.Errorf("failed to append price point: %w", err)
	}
	return nil
}

func (r *portfolioRepository) GetLatestSentiment(ctx context.Context, symbol string) (*model.SentimentRecord, error) {
	var record model.SentimentRecord
	err := r.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		Order("timestamp DESC, id DESC").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest sentiment: %w", err)
	}
	return &record, nil
}

func (r *portfolioRepository) GetRecentSentiments(ctx context.Context, limit int) ([]model.SentimentRecord, error) {
	var records []model.SentimentRecord
	if err := r.db.WithContext(ctx).
		Order("timestamp DESC, id DESC").
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to get recent sentiments: %w", err)
	}
	return records, nil
}

func (r *portfolioRepository) AppendSentiment(ctx context.Context, record *model.SentimentRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to append sentiment record: %w", err)
	}
	return nil
}

func (r *portfolioRepository) AppendAlphaSignature(ctx context.Context, signature *model.AlphaSignature) error {
	if err := r.db.WithContext(ctx).Create(signature).Error; err != nil {
		return fmt.Errorf("failed to append alpha signature: %w", err)
	}
	return nil
}

func (r *portfolioRepository) GetLatestAlphaSignature(ctx context.Context, symbol string) (*model.AlphaSignature, error) {
	var signature model.AlphaSignature
	err := r.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		Order("timestamp DESC, id DESC").
		First(&signature).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest alpha signature: %w", err)
	}
	return &signature, nil
}

func (r *portfolioRepository) GetAlphaHistory(ctx context.Context, symbol string, limit int) ([]model.AlphaSignature, error) {
	var signatures []model.AlphaSignature
	if err := r.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		Order("timestamp DESC, id DESC").
		Limit(limit).
		Find(&signatures).Error; err != nil {
		return nil, fmt.Errorf("failed to get alpha history: %w", err)
	}
	return signatures, nil
}
