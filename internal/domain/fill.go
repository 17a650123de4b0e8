package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fill is a single execution reported by an exchange.
type Fill struct {
	ID          int64           // Exchange trade ID
	Symbol      string          // Trading symbol (e.g., "ETHUSDT")
	Side        OrderSide       // BUY or SELL
	Price       decimal.Decimal // Execution price
	Quantity    decimal.Decimal // Executed quantity, always positive
	RealizedPnl decimal.Decimal // Realized PnL reported for this fill
	Commission  decimal.Decimal // Commission charged for this fill
	Time        time.Time       // Execution time
}

// SignedQuantity returns the quantity with the position direction applied:
// positive for buys, negative for sells.
func (f Fill) SignedQuantity() decimal.Decimal {
	if f.Side == Sell {
		return f.Quantity.Neg()
	}
	return f.Quantity
}
