package service

import (
	"context"
	"testing"

	"alphadesk/internal/model"
	"alphadesk/internal/repository"
	"alphadesk/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerService_RefreshAll(t *testing.T) {
	cfg := newTestConfig()
	log := newTestLogger()

	portfolioRepo := newFakePortfolioRepo()
	watchlistRepo := &fakeWatchlistRepo{
		items: []model.WatchlistItem{
			{UserID: 1, Symbol: "AAPL"},
			{UserID: 2, Symbol: "AAPL"},
			{UserID: 1, Symbol: "MSFT"},
		},
	}

	resolver := NewQuoteResolverService(cfg, log, cache.NewCache(cfg.Cache.QuoteTTL, cfg.Cache.CleanupInterval), []repository.QuoteProvider{})
	alpha := NewAlphaService(cfg, log, portfolioRepo)
	svc := NewSchedulerService(cfg, log, watchlistRepo, portfolioRepo, resolver, alpha)

	require.NoError(t, svc.RefreshAll(context.Background()))

	// one price point per distinct symbol
	aapl, err := portfolioRepo.GetPriceHistory(context.Background(), "AAPL", 10)
	require.NoError(t, err)
	assert.Len(t, aapl, 1)

	msft, err := portfolioRepo.GetPriceHistory(context.Background(), "MSFT", 10)
	require.NoError(t, err)
	assert.Len(t, msft, 1)

	// alpha signatures follow the refresh
	signature, err := portfolioRepo.GetLatestAlphaSignature(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.NotNil(t, signature)
}

func TestSchedulerService_RefreshAll_EmptyWatchlist(t *testing.T) {
	cfg := newTestConfig()
	log := newTestLogger()

	portfolioRepo := newFakePortfolioRepo()
	resolver := NewQuoteResolverService(cfg, log, cache.NewCache(cfg.Cache.QuoteTTL, cfg.Cache.CleanupInterval), []repository.QuoteProvider{})
	alpha := NewAlphaService(cfg, log, portfolioRepo)
	svc := NewSchedulerService(cfg, log, &fakeWatchlistRepo{}, portfolioRepo, resolver, alpha)

	require.NoError(t, svc.RefreshAll(context.Background()))
	assert.Empty(t, portfolioRepo.signatures)
}
