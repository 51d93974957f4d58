package repository

import (
	"context"
	"fmt"

	"alphadesk/internal/model"

	"gorm.io/gorm"
)

// TransactionRepository is the append-only trade ledger the bias detectors
// read. Returned slices are in chronological order.
type TransactionRepository interface {
	GetByUser(ctx context.Context, userID uint) ([]model.Transaction, error)
	Create(ctx context.Context, transaction *model.Transaction) error
}

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) GetByUser(ctx context.Context, userID uint) ([]model.Transaction, error) {
	var transactions []model.Transaction
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp ASC, id ASC").
		Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}
	return transactions, nil
}

func (r *transactionRepository) Create(ctx context.Context, transaction *model.Transaction) error {
	if err := r.db.WithContext(ctx).Create(transaction).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}
