package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"alphadesk/config"
	"alphadesk/internal/dto"
	"alphadesk/internal/model"
	"alphadesk/internal/repository"
	"alphadesk/pkg/logger"
)

// PortfolioService manages holdings, the transaction ledger, and watchlists.
// Reads enrich holdings with live quotes through the resolver waterfall.
type PortfolioService interface {
	GetPortfolio(ctx context.Context, userID uint) (*dto.PortfolioSummary, error)
	AddHolding(ctx context.Context, userID uint, req dto.AddHoldingRequest) (*model.Holding, error)
	RemoveHolding(ctx context.Context, userID uint, symbol string) error

	AddTransaction(ctx context.Context, userID uint, req dto.AddTransactionRequest) (*model.Transaction, error)
	GetTransactions(ctx context.Context, userID uint) ([]model.Transaction, error)

	AddToWatchlist(ctx context.Context, userID uint, symbol string) (*model.WatchlistItem, error)
	RemoveFromWatchlist(ctx context.Context, userID uint, symbol string) error
	GetWatchlist(ctx context.Context, userID uint) ([]model.WatchlistItem, error)
}

type portfolioService struct {
	cfg             *config.Config
	log             *logger.Logger
	portfolioRepo   repository.PortfolioRepository
	transactionRepo repository.TransactionRepository
	watchlistRepo   repository.WatchlistRepository
	quoteResolver   QuoteResolverService
}

func NewPortfolioService(
	cfg *config.Config,
	log *logger.Logger,
	portfolioRepo repository.PortfolioRepository,
	transactionRepo repository.TransactionRepository,
	watchlistRepo repository.WatchlistRepository,
	quoteResolver QuoteResolverService,
) PortfolioService {
	return &portfolioService{
		cfg:             cfg,
		log:             log,
		portfolioRepo:   portfolioRepo,
		transactionRepo: transactionRepo,
		watchlistRepo:   watchlistRepo,
		quoteResolver:   quoteResolver,
	}
}

func (s *portfolioService) GetPortfolio(ctx context.Context, userID uint) (*dto.PortfolioSummary, error) {
	holdings, err := s.portfolioRepo.GetHoldings(ctx, userID)
	if err != nil {
		return nil, err
	}

	symbols := make([]string, 0, len(holdings))
	for _, h := range holdings {
		symbols = append(symbols, h.Symbol)
	}
	quotes := s.quoteResolver.ResolveMany(ctx, symbols)

	priceBySymbol := make(map[string]float64, len(quotes))
	for _, q := range quotes {
		priceBySymbol[q.Symbol] = q.Price
	}

	summary := &dto.PortfolioSummary{
		Holdings:             holdings,
		DiversificationScore: DiversificationScore(holdings),
	}
	for i := range holdings {
		h := &summary.Holdings[i]
		h.CurrentPrice = priceBySymbol[h.Symbol]
		summary.TotalValue += h.CurrentPrice * h.Shares
		summary.TotalCost += h.AvgCost * h.Shares
	}
	summary.TotalGain = summary.TotalValue - summary.TotalCost
	if summary.TotalCost > 0 {
		summary.TotalGainPercent = summary.TotalGain / summary.TotalCost * 100
	}

	return summary, nil
}

// AddHolding classifies the symbol and snapshots company metadata so the bias
// detectors can later score sector diversification without provider calls.
func (s *portfolioService) AddHolding(ctx context.Context, userID uint, req dto.AddHoldingRequest) (*model.Holding, error) {
	symbol := normalizeSymbol(req.Symbol)

	holding := &model.Holding{
		UserID:    userID,
		Symbol:    symbol,
		Shares:    req.Shares,
		AvgCost:   req.AvgCost,
		AssetType: string(s.quoteResolver.ClassifyAssetType(symbol)),
	}

	info := s.quoteResolver.CompanyInfo(ctx, symbol)
	holding.CompanyName = info.Name
	holding.Sector = info.Sector

	if err := s.portfolioRepo.CreateHolding(ctx, holding); err != nil {
		return nil, err
	}
	return holding, nil
}

func (s *portfolioService) RemoveHolding(ctx context.Context, userID uint, symbol string) error {
	return s.portfolioRepo.DeleteHolding(ctx, userID, normalizeSymbol(symbol))
}

func (s *portfolioService) AddTransaction(ctx context.Context, userID uint, req dto.AddTransactionRequest) (*model.Transaction, error) {
	transactionType := strings.ToLower(req.Type)
	if transactionType != dto.TransactionTypeBuy && transactionType != dto.TransactionTypeSell {
		return nil, fmt.Errorf("invalid transaction type: %s", req.Type)
	}

	transaction := &model.Transaction{
		UserID:    userID,
		Symbol:    normalizeSymbol(req.Symbol),
		Type:      transactionType,
		Quantity:  req.Quantity,
		Price:     req.Price,
		Timestamp: time.Now(),
	}

	if err := s.transactionRepo.Create(ctx, transaction); err != nil {
		return nil, err
	}
	return transaction, nil
}

func (s *portfolioService) GetTransactions(ctx context.Context, userID uint) ([]model.Transaction, error) {
	return s.transactionRepo.GetByUser(ctx, userID)
}

func (s *portfolioService) AddToWatchlist(ctx context.Context, userID uint, symbol string) (*model.WatchlistItem, error) {
	item := &model.WatchlistItem{
		UserID: userID,
		Symbol: normalizeSymbol(symbol),
	}
	if err := s.watchlistRepo.Add(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *portfolioService) RemoveFromWatchlist(ctx context.Context, userID uint, symbol string) error {
	return s.watchlistRepo.Remove(ctx, userID, normalizeSymbol(symbol))
}

func (s *portfolioService) GetWatchlist(ctx context.Context, userID uint) ([]model.WatchlistItem, error) {
	return s.watchlistRepo.ListByUser(ctx, userID)
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
