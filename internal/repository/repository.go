package repository

import (
	"alphadesk/config"
	"alphadesk/pkg/logger"

	"gorm.io/gorm"
)

type Repository struct {
	PortfolioRepo   PortfolioRepository
	TransactionRepo TransactionRepository
	WatchlistRepo   WatchlistRepository
	BiasReportRepo  BiasReportRepository
	FinnhubRepo     QuoteProvider
	YahooRepo       QuoteProvider
	GeminiAIRepo    LLMRepository
}

func NewRepository(cfg *config.Config, db *gorm.DB, log *logger.Logger) (*Repository, error) {
	geminiAIRepo, err := NewGeminiAIRepository(cfg, log)
	if err != nil {
		return nil, err
	}

	return &Repository{
		PortfolioRepo:   NewPortfolioRepository(db),
		TransactionRepo: NewTransactionRepository(db),
		WatchlistRepo:   NewWatchlistRepository(db),
		BiasReportRepo:  NewBiasReportRepository(db),
		FinnhubRepo:     NewFinnhubRepository(cfg, log),
		YahooRepo:       NewYahooFinanceRepository(cfg, log),
		GeminiAIRepo:    geminiAIRepo,
	}, nil
}
