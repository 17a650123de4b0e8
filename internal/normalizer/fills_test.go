package normalizer

import (
	"testing"
	"time"

	"equityLens/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fill(id int64, symbol string, side domain.OrderSide, price, qty, pnl, fee string, at time.Time) domain.Fill {
	return domain.Fill{
		ID:          id,
		Symbol:      symbol,
		Side:        side,
		Price:       decimal.RequireFromString(price),
		Quantity:    decimal.RequireFromString(qty),
		RealizedPnl: decimal.RequireFromString(pnl),
		Commission:  decimal.RequireFromString(fee),
		Time:        at,
	}
}

func TestFoldFillsRoundTrips(t *testing.T) {
	fills := []domain.Fill{
		fill(2, "ETHUSDT", domain.Sell, "110", "1", "10", "0.5", days(1)),
		fill(1, "ETHUSDT", domain.Buy, "100", "1", "0", "0.5", days(0)),
		fill(3, "ETHUSDT", domain.Sell, "200", "2", "0", "0.1", days(2)),
		fill(4, "ETHUSDT", domain.Buy, "190", "2", "20", "0.1", days(3)),
	}

	rows := FoldFills(fills)
	require.Len(t, rows, 4)

	assert.Equal(t, domain.TypeEntryLong, rows[0].Type)
	assert.Equal(t, 100.0, rows[0].Price)
	assert.Equal(t, domain.TypeExitLong, rows[1].Type)
	assert.Equal(t, 110.0, rows[1].Price)
	assert.InDelta(t, 9.0, rows[1].Profit, 1e-9)
	assert.InDelta(t, 9.0, rows[1].ProfitPct, 1e-9)

	assert.Equal(t, domain.TypeEntryShort, rows[2].Type)
	assert.Equal(t, domain.SignalShort, rows[3].Signal)
	assert.Equal(t, 2.0, rows[3].Contracts)
	assert.InDelta(t, 19.8, rows[3].Profit, 1e-9)

	trades, err := Normalize(rows)
	require.NoError(t, err)
	assert.Len(t, trades, 2)
}

func TestFoldFillsScalingInAveragesPrice(t *testing.T) {
	rows := FoldFills([]domain.Fill{
		fill(1, "BTCUSDT", domain.Buy, "100", "1", "0", "0", days(0)),
		fill(2, "BTCUSDT", domain.Buy, "200", "1", "0", "0", days(1)),
		fill(3, "BTCUSDT", domain.Sell, "160", "1", "10", "0", days(2)),
		fill(4, "BTCUSDT", domain.Sell, "180", "1", "30", "0", days(3)),
	})
	require.Len(t, rows, 2)
	assert.Equal(t, 150.0, rows[0].Price)
	assert.Equal(t, 170.0, rows[1].Price)
	assert.Equal(t, 2.0, rows[1].Contracts)
	assert.Equal(t, 40.0, rows[1].Profit)
	assert.Equal(t, days(3), rows[1].DateTime)
}

func TestFoldFillsFlipAndOpenRemainder(t *testing.T) {
	rows := FoldFills([]domain.Fill{
		fill(1, "SOLUSDT", domain.Buy, "10", "1", "0", "0", days(0)),
		fill(2, "SOLUSDT", domain.Sell, "12", "3", "2", "0", days(1)),
	})
	// The long closes; the short remainder stays open and is not emitted.
	require.Len(t, rows, 2)
	assert.Equal(t, domain.TypeExitLong, rows[1].Type)
	assert.Equal(t, 1.0, rows[1].Contracts)
	assert.Equal(t, 12.0, rows[1].Price)
	assert.Equal(t, 2.0, rows[1].Profit)
}

func TestFoldFillsSeparatesSymbols(t *testing.T) {
	rows := FoldFills([]domain.Fill{
		fill(1, "ETHUSDT", domain.Buy, "100", "1", "0", "0", days(0)),
		fill(2, "BTCUSDT", domain.Buy, "100", "1", "0", "0", days(0)),
		fill(3, "ETHUSDT", domain.Sell, "101", "1", "1", "0", days(1)),
	})
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].TradeNo)
	assert.Equal(t, 1.0, rows[1].Profit)
}
