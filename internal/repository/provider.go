package repository

import (
	"context"
	"errors"

	"alphadesk/internal/dto"
)

// ErrProviderUnavailable marks any provider-side failure (network, timeout,
// malformed response, missing credential). Callers treat every variant the
// same: log it and move to the next tier.
var ErrProviderUnavailable = errors.New("provider unavailable")

// QuoteProvider is one tier in the resolver waterfall. Adapters own their own
// wire-level symbol formatting and return the normalized shapes.
type QuoteProvider interface {
	Name() string
	Configured() bool
	GetQuote(ctx context.Context, param dto.GetQuoteParam) (*dto.Quote, error)
	GetCompanyInfo(ctx context.Context, symbol string) (*dto.CompanyInfo, error)
	GetNews(ctx context.Context, limit int) ([]dto.NewsItem, error)
}
