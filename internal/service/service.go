package service

import (
	"alphadesk/config"
	"alphadesk/internal/repository"
	"alphadesk/pkg/cache"
	"alphadesk/pkg/logger"
)

type Service struct {
	QuoteResolverService QuoteResolverService
	SentimentService     SentimentService
	AlphaService         AlphaService
	BiasService          BiasService
	PortfolioService     PortfolioService
	SchedulerService     SchedulerService
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	inmemoryCache cache.Cache,
) *Service {
	// Waterfall order: Finnhub is the primary tier, Yahoo the secondary.
	providers := []repository.QuoteProvider{
		repo.FinnhubRepo,
		repo.YahooRepo,
	}

	quoteResolverService := NewQuoteResolverService(cfg, log, inmemoryCache, providers)
	sentimentService := NewSentimentService(cfg, log, repo.GeminiAIRepo, repo.PortfolioRepo)
	alphaService := NewAlphaService(cfg, log, repo.PortfolioRepo)
	biasService := NewBiasService(cfg, log, repo.PortfolioRepo, repo.TransactionRepo, repo.BiasReportRepo, repo.GeminiAIRepo)
	portfolioService := NewPortfolioService(cfg, log, repo.PortfolioRepo, repo.TransactionRepo, repo.WatchlistRepo, quoteResolverService)
	schedulerService := NewSchedulerService(cfg, log, repo.WatchlistRepo, repo.PortfolioRepo, quoteResolverService, alphaService)

	return &Service{
		QuoteResolverService: quoteResolverService,
		SentimentService:     sentimentService,
		AlphaService:         alphaService,
		BiasService:          biasService,
		PortfolioService:     portfolioService,
		SchedulerService:     schedulerService,
	}
}
