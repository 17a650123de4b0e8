package ports

import (
	"context"
	"time"

	"equityLens/internal/domain"
)

// TradeHistorySource defines the interface for pulling executed fills from an exchange.
// This abstraction keeps the import flow independent of a specific exchange API.
type TradeHistorySource interface {
	// Ping checks the connectivity to the exchange API.
	Ping(ctx context.Context) error

	// FetchFills retrieves every fill for a symbol executed within [start, end),
	// ordered by execution time.
	FetchFills(ctx context.Context, symbol string, start, end time.Time) ([]domain.Fill, error)
}
