package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"alphadesk/config"
	"alphadesk/internal/model"
	"alphadesk/internal/repository"
	"alphadesk/pkg/logger"
	"alphadesk/pkg/utils"

	"github.com/robfig/cron/v3"
)

// SchedulerService refreshes quotes and alpha signatures for every
// watchlisted symbol on a cron schedule.
type SchedulerService interface {
	Start() error
	Stop()
	RefreshAll(ctx context.Context) error
}

type schedulerService struct {
	cfg           *config.Config
	log           *logger.Logger
	watchlistRepo repository.WatchlistRepository
	portfolioRepo repository.PortfolioRepository
	quoteResolver QuoteResolverService
	alphaService  AlphaService
	runner        *cron.Cron
	semaphore     chan struct{}
}

func NewSchedulerService(
	cfg *config.Config,
	log *logger.Logger,
	watchlistRepo repository.WatchlistRepository,
	portfolioRepo repository.PortfolioRepository,
	quoteResolver QuoteResolverService,
	alphaService AlphaService,
) SchedulerService {
	return &schedulerService{
		cfg:           cfg,
		log:           log,
		watchlistRepo: watchlistRepo,
		portfolioRepo: portfolioRepo,
		quoteResolver: quoteResolver,
		alphaService:  alphaService,
		runner:        cron.New(),
		semaphore:     make(chan struct{}, cfg.Scheduler.MaxConcurrency),
	}
}

func (s *schedulerService) Start() error {
	_, err := s.runner.AddFunc(s.cfg.Scheduler.RefreshCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Scheduler.Timeout)
		defer cancel()

		if err := s.RefreshAll(ctx); err != nil {
			s.log.ErrorContextWithAlert(ctx, "Scheduled refresh failed", logger.ErrorField(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to register refresh schedule: %w", err)
	}

	s.runner.Start()
	s.log.Info("Scheduler started", logger.StringField("refresh_cron", s.cfg.Scheduler.RefreshCron))
	return nil
}

func (s *schedulerService) Stop() {
	stopCtx := s.runner.Stop()
	<-stopCtx.Done()
	s.log.Info("Scheduler stopped")
}

// RefreshAll resolves every watchlisted symbol, appends the quotes to price
// history, and recomputes alpha signatures from the extended history.
func (s *schedulerService) RefreshAll(ctx context.Context) error {
	symbols, err := s.watchlistRepo.DistinctSymbols(ctx)
	if err != nil {
		return fmt.Errorf("failed to list watchlist symbols: %w", err)
	}

	if len(symbols) == 0 {
		s.log.InfoContext(ctx, "No watchlisted symbols to refresh")
		return nil
	}

	s.log.InfoContext(ctx, "Start refreshing watchlisted symbols",
		logger.IntField("symbol_count", len(symbols)),
		logger.IntField("max_concurrency", s.cfg.Scheduler.MaxConcurrency),
	)

	quotes := s.quoteResolver.ResolveMany(ctx, symbols)

	var wg sync.WaitGroup
	for _, quote := range quotes {
		if !utils.ShouldContinue(ctx, s.log) {
			break
		}

		s.semaphore <- struct{}{}
		wg.Add(1)
		utils.GoSafe(func() {
			defer func() {
				<-s.semaphore
				wg.Done()
			}()

			point := &model.PriceHistoryPoint{
				Symbol:        quote.Symbol,
				Price:         quote.Price,
				Change:        quote.Change,
				ChangePercent: quote.ChangePercent,
				Volume:        quote.Volume,
				Timestamp:     time.Now(),
			}
			if err := s.portfolioRepo.AppendPricePoint(ctx, point); err != nil {
				s.log.ErrorContext(ctx, "Failed to append price point",
					logger.StringField("symbol", quote.Symbol),
					logger.ErrorField(err),
				)
			}
		})
	}
	wg.Wait()

	s.alphaService.UpdateAll(ctx, symbols)

	s.log.InfoContext(ctx, "Finished refreshing watchlisted symbols",
		logger.IntField("symbol_count", len(symbols)),
	)
	return nil
}
