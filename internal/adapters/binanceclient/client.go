package binanceclient

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"equityLens/internal/domain"
	"equityLens/internal/ports"

	"github.com/adshao/go-binance/v2/common"
	"github.com/adshao/go-binance/v2/futures"
	"github.com/shopspring/decimal"
)

const (
	baseURLProduction = "https://fapi.binance.com"
	baseURLTestnet    = "https://testnet.binancefuture.com"

	// The account trade endpoint accepts at most 7 days per request and 1000 rows per page.
	maxTradeWindow = 7 * 24 * time.Hour
	maxTradeLimit  = 1000
)

// Client implements ports.TradeHistorySource for Binance USD-M futures.
type Client struct {
	futuresClient *futures.Client
	logger        ports.Logger
}

// Config holds configuration specific to the Binance client adapter.
type Config struct {
	APIKey     string
	SecretKey  string
	UseTestnet bool
	Logger     ports.Logger
}

// New creates a new Binance client adapter.
func New(cfg Config) (*Client, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for Binance client")
	}
	if cfg.APIKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("%w: account trade history needs an API key and secret", ports.ErrConfigurationError)
	}

	client := futures.NewClient(cfg.APIKey, cfg.SecretKey)
	if cfg.UseTestnet {
		client.BaseURL = baseURLTestnet
	} else {
		client.BaseURL = baseURLProduction
	}
	cfg.Logger.Info(context.Background(), "Binance client configured", map[string]interface{}{"baseURL": client.BaseURL, "testnet": cfg.UseTestnet})

	return &Client{futuresClient: client, logger: cfg.Logger}, nil
}

// handleError translates Binance API and transport errors into ports errors.
func (c *Client) handleError(ctx context.Context, err error, operation string) error {
	if err == nil {
		return nil
	}

	fields := map[string]interface{}{"operation": operation}

	var apiErr *common.APIError
	if errors.As(err, &apiErr) {
		fields["apiErrorCode"] = apiErr.Code
		fields["apiErrorMessage"] = apiErr.Message

		var mappedErr error
		switch apiErr.Code {
		case -1003: // Too many requests
			mappedErr = ports.ErrRateLimited
		case -1021: // Timestamp outside of recvWindow
			mappedErr = ports.ErrTimeout
		case -1022: // Invalid signature
			mappedErr = ports.ErrAuthenticationFailed
		case -1100, -1101, -1102, -1103, -1104, -1105, -1106, -1111, -1121, -1127, -1128, -1130:
			mappedErr = ports.ErrInvalidRequest
		case -2014, -2015: // Bad key format, or key lacks permission
			mappedErr = ports.ErrInvalidAPIKeys
		default:
			mappedErr = ports.ErrUnknown
		}
		c.logger.Error(ctx, err, operation+" failed with API error", fields)
		return fmt.Errorf("%s failed: %w: %w", operation, mappedErr, err)
	}

	var finalErr error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrTimeout, err)
	case errors.Is(err, context.Canceled):
		finalErr = fmt.Errorf("%s operation canceled: %w: %w", operation, ports.ErrContextCanceled, err)
	case strings.Contains(err.Error(), "connection refused"),
		strings.Contains(err.Error(), "connection reset by peer"),
		strings.Contains(err.Error(), "no such host"):
		finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrConnectionFailed, err)
	default:
		finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrUnknown, err)
	}

	c.logger.Error(ctx, err, operation+" failed", fields)
	return finalErr
}

// SetServerTime synchronizes the signing clock with the server.
func (c *Client) SetServerTime(ctx context.Context) error {
	op := "SetServerTime"
	if _, err := c.futuresClient.NewSetServerTimeService().Do(ctx); err != nil {
		return c.handleError(ctx, err, op)
	}
	c.logger.Debug(ctx, op+" successful")
	return nil
}

// Ping checks the connectivity to the exchange API.
func (c *Client) Ping(ctx context.Context) error {
	op := "Ping"
	if err := c.futuresClient.NewPingService().Do(ctx); err != nil {
		return c.handleError(ctx, err, op)
	}
	c.logger.Debug(ctx, op+" successful")
	return nil
}

// FetchFills pages through the account trade history of symbol in [start, end).
// Each 7-day window is opened by time; a full page continues by trade ID, since
// the remaining fills may share the last fill's millisecond.
func (c *Client) FetchFills(ctx context.Context, symbol string, start, end time.Time) ([]domain.Fill, error) {
	op := "FetchFills"
	if !end.After(start) {
		return nil, fmt.Errorf("%s: %w: end %v is not after start %v", op, ports.ErrInvalidRequest, end, start)
	}

	var fills []domain.Fill
	seen := make(map[int64]bool)
	for windowStart := start; windowStart.Before(end); {
		windowEnd := windowStart.Add(maxTradeWindow)
		if windowEnd.After(end) {
			windowEnd = end
		}

		// fromId cannot be combined with startTime/endTime on this endpoint.
		svc := c.futuresClient.NewListAccountTradeService().
			Symbol(symbol).
			StartTime(windowStart.UnixMilli()).
			EndTime(windowEnd.UnixMilli() - 1).
			Limit(maxTradeLimit)
		for {
			trades, err := svc.Do(ctx)
			if err != nil {
				return nil, c.handleError(ctx, err, op)
			}

			pastWindow := false
			for _, t := range trades {
				if t.Time >= windowEnd.UnixMilli() {
					pastWindow = true
					continue
				}
				if seen[t.ID] {
					continue
				}
				fill, err := translateAccountTrade(t)
				if err != nil {
					return nil, c.handleError(ctx, fmt.Errorf("failed to translate account trade %d: %w", t.ID, err), op)
				}
				seen[t.ID] = true
				fills = append(fills, fill)
			}
			if len(trades) < maxTradeLimit || pastWindow {
				break
			}
			svc = c.futuresClient.NewListAccountTradeService().
				Symbol(symbol).
				FromID(trades[len(trades)-1].ID + 1).
				Limit(maxTradeLimit)
		}
		windowStart = windowEnd
	}

	c.logger.Info(ctx, "Fetched account fills", map[string]interface{}{"symbol": symbol, "count": len(fills), "start": start, "end": end})
	return fills, nil
}

func translateAccountTrade(t *futures.AccountTrade) (domain.Fill, error) {
	price, err := decimal.NewFromString(t.Price)
	if err != nil {
		return domain.Fill{}, fmt.Errorf("price %q: %w", t.Price, err)
	}
	qty, err := decimal.NewFromString(t.Quantity)
	if err != nil {
		return domain.Fill{}, fmt.Errorf("quantity %q: %w", t.Quantity, err)
	}
	pnl, err := decimal.NewFromString(t.RealizedPnl)
	if err != nil {
		return domain.Fill{}, fmt.Errorf("realized pnl %q: %w", t.RealizedPnl, err)
	}
	commission, err := decimal.NewFromString(t.Commission)
	if err != nil {
		return domain.Fill{}, fmt.Errorf("commission %q: %w", t.Commission, err)
	}

	side := domain.Buy
	if t.Side == futures.SideTypeSell {
		side = domain.Sell
	}
	return domain.Fill{
		ID:          t.ID,
		Symbol:      t.Symbol,
		Side:        side,
		Price:       price,
		Quantity:    qty,
		RealizedPnl: pnl,
		Commission:  commission,
		Time:        time.UnixMilli(t.Time),
	}, nil
}
