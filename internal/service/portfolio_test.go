package service

import (
	"context"
	"testing"

	"alphadesk/internal/dto"
	"alphadesk/internal/model"
	"alphadesk/internal/repository"
	"alphadesk/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPortfolioService(portfolioRepo *fakePortfolioRepo, transactionRepo *fakeTransactionRepo, watchlistRepo *fakeWatchlistRepo) PortfolioService {
	cfg := newTestConfig()
	log := newTestLogger()
	resolver := NewQuoteResolverService(cfg, log, cache.NewCache(cfg.Cache.QuoteTTL, cfg.Cache.CleanupInterval), []repository.QuoteProvider{})
	return NewPortfolioService(cfg, log, portfolioRepo, transactionRepo, watchlistRepo, resolver)
}

func TestPortfolioService_AddHolding(t *testing.T) {
	portfolioRepo := newFakePortfolioRepo()
	svc := newTestPortfolioService(portfolioRepo, &fakeTransactionRepo{}, &fakeWatchlistRepo{})

	holding, err := svc.AddHolding(context.Background(), 1, dto.AddHoldingRequest{
		Symbol:  " aapl ",
		Shares:  10,
		AvgCost: 150,
	})
	require.NoError(t, err)

	assert.Equal(t, "AAPL", holding.Symbol)
	assert.Equal(t, string(dto.AssetTypeStock), holding.AssetType)
	assert.Equal(t, "Apple Inc.", holding.CompanyName)
	assert.Equal(t, "Technology", holding.Sector)

	stored, err := portfolioRepo.GetHoldings(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestPortfolioService_GetPortfolio(t *testing.T) {
	portfolioRepo := newFakePortfolioRepo()
	portfolioRepo.holdings = []model.Holding{
		{UserID: 1, Symbol: "AAPL", Shares: 10, AvgCost: 150, Sector: "Technology", AssetType: "stock"},
	}
	svc := newTestPortfolioService(portfolioRepo, &fakeTransactionRepo{}, &fakeWatchlistRepo{})

	summary, err := svc.GetPortfolio(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, summary.Holdings, 1)
	// no providers configured, the synthetic tier still prices the holding
	assert.Equal(t, 175.43, summary.Holdings[0].CurrentPrice)
	assert.InDelta(t, 1754.3, summary.TotalValue, 0.001)
	assert.InDelta(t, 1500.0, summary.TotalCost, 0.001)
	assert.InDelta(t, 254.3, summary.TotalGain, 0.001)
	assert.Equal(t, 3.5, summary.DiversificationScore)
}

func TestPortfolioService_AddTransaction(t *testing.T) {
	transactionRepo := &fakeTransactionRepo{}
	svc := newTestPortfolioService(newFakePortfolioRepo(), transactionRepo, &fakeWatchlistRepo{})

	transaction, err := svc.AddTransaction(context.Background(), 1, dto.AddTransactionRequest{
		Symbol:   "aapl",
		Type:     "BUY",
		Quantity: 5,
		Price:    180,
	})
	require.NoError(t, err)
	assert.Equal(t, "AAPL", transaction.Symbol)
	assert.Equal(t, dto.TransactionTypeBuy, transaction.Type)
	assert.False(t, transaction.Timestamp.IsZero())

	_, err = svc.AddTransaction(context.Background(), 1, dto.AddTransactionRequest{
		Symbol:   "AAPL",
		Type:     "short",
		Quantity: 5,
		Price:    180,
	})
	assert.Error(t, err)
}

func TestPortfolioService_Watchlist(t *testing.T) {
	watchlistRepo := &fakeWatchlistRepo{}
	svc := newTestPortfolioService(newFakePortfolioRepo(), &fakeTransactionRepo{}, watchlistRepo)

	ctx := context.Background()

	item, err := svc.AddToWatchlist(ctx, 1, "aapl")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", item.Symbol)

	_, err = svc.AddToWatchlist(ctx, 1, "MSFT")
	require.NoError(t, err)

	items, err := svc.GetWatchlist(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	require.NoError(t, svc.RemoveFromWatchlist(ctx, 1, "AAPL"))

	items, err = svc.GetWatchlist(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, "MSFT", items[0].Symbol)
}
