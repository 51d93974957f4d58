package repository

import (
	"context"
	"errors"
	"fmt"

	"alphadesk/internal/model"

	"gorm.io/gorm"
)

type WatchlistRepository interface {
	Add(ctx context.Context, item *model.WatchlistItem) error
	Remove(ctx context.Context, userID uint, symbol string) error
	ListByUser(ctx context.Context, userID uint) ([]model.WatchlistItem, error)
	// DistinctSymbols feeds the periodic refresh across all users.
	DistinctSymbols(ctx context.Context) ([]string, error)
}

type watchlistRepository struct {
	db *gorm.DB
}

func NewWatchlistRepository(db *gorm.DB) WatchlistRepository {
	return &watchlistRepository{db: db}
}

func (r *watchlistRepository) Add(ctx context.Context, item *model.WatchlistItem) error {
	err := r.db.WithContext(ctx).Create(item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return fmt.Errorf("failed to add watchlist item: %w", err)
	}
	return nil
}

func (r *watchlistRepository) Remove(ctx context.Context, userID uint, symbol string) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND symbol = ?", userID, symbol).
		Delete(&model.WatchlistItem{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove watchlist item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *watchlistRepository) ListByUser(ctx context.Context, userID uint) ([]model.WatchlistItem, error) {
	var items []model.WatchlistItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("symbol ASC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list watchlist: %w", err)
	}
	return items, nil
}

func (r *watchlistRepository) DistinctSymbols(ctx context.Context) ([]string, error) {
	var symbols []string
	if err := r.db.WithContext(ctx).
		Model(&model.WatchlistItem{}).
		Distinct("symbol").
		Order("symbol ASC").
		Pluck("symbol", &symbols).Error; err != nil {
		return nil, fmt.Errorf("failed to get watchlist symbols: %w", err)
	}
	return symbols, nil
}
