package normalizer

import (
	"sort"
	"time"

	"equityLens/internal/domain"

	"github.com/shopspring/decimal"
)

// openTrade accumulates the fills of one position from flat back to flat.
type openTrade struct {
	long       bool
	entryTime  time.Time
	entryQty   decimal.Decimal // Total quantity that grew the position
	entryValue decimal.Decimal // Sum of price*qty over opening fills
	exitQty    decimal.Decimal
	exitValue  decimal.Decimal
	pnl        decimal.Decimal // Realized PnL net of commissions
}

// FoldFills reconstructs round-trip trades from exchange fills and returns them
// as raw entry/exit rows ready for Normalize. A trade opens when a fill moves
// a symbol's net position away from zero and closes when it returns to zero.
// A fill that flips the position closes the current trade and opens a new one
// with the remaining quantity. Positions still open after the last fill are
// not emitted.
func FoldFills(fills []domain.Fill) []domain.RawTradeRow {
	bySymbol := make(map[string][]domain.Fill)
	symbols := make([]string, 0)
	for _, f := range fills {
		if _, ok := bySymbol[f.Symbol]; !ok {
			symbols = append(symbols, f.Symbol)
		}
		bySymbol[f.Symbol] = append(bySymbol[f.Symbol], f)
	}
	sort.Strings(symbols)

	var rows []domain.RawTradeRow
	tradeNo := 0
	for _, symbol := range symbols {
		symbolFills := bySymbol[symbol]
		sort.SliceStable(symbolFills, func(i, j int) bool {
			if symbolFills[i].Time.Equal(symbolFills[j].Time) {
				return symbolFills[i].ID < symbolFills[j].ID
			}
			return symbolFills[i].Time.Before(symbolFills[j].Time)
		})

		position := decimal.Zero
		var current *openTrade
		for _, f := range symbolFills {
			signed := f.SignedQuantity()
			if current == nil {
				current = &openTrade{long: signed.IsPositive(), entryTime: f.Time}
			}
			current.pnl = current.pnl.Add(f.RealizedPnl).Sub(f.Commission)

			next := position.Add(signed)
			growing := position.IsZero() || position.Sign() == signed.Sign()
			switch {
			case growing:
				current.entryQty = current.entryQty.Add(f.Quantity)
				current.entryValue = current.entryValue.Add(f.Price.Mul(f.Quantity))
				position = next
				continue
			case next.IsZero() || next.Sign() == position.Sign():
				current.exitQty = current.exitQty.Add(f.Quantity)
				current.exitValue = current.exitValue.Add(f.Price.Mul(f.Quantity))
				position = next
				if !position.IsZero() {
					continue
				}
			default:
				// Flip: close the whole position, the remainder opens a new trade.
				closing := position.Abs()
				current.exitQty = current.exitQty.Add(closing)
				current.exitValue = current.exitValue.Add(f.Price.Mul(closing))
			}

			tradeNo++
			rows = append(rows, current.rows(tradeNo, f)...)
			current = nil
			position = next
			if !position.IsZero() {
				remainder := position.Abs()
				current = &openTrade{
					long:       position.IsPositive(),
					entryTime:  f.Time,
					entryQty:   remainder,
					entryValue: f.Price.Mul(remainder),
				}
			}
		}
	}
	return rows
}

func (t *openTrade) rows(tradeNo int, closing domain.Fill) []domain.RawTradeRow {
	entryType, exitType, signal := domain.TypeEntryLong, domain.TypeExitLong, domain.SignalLong
	if !t.long {
		entryType, exitType, signal = domain.TypeEntryShort, domain.TypeExitShort, domain.SignalShort
	}

	entryPrice := t.entryValue.Div(t.entryQty)
	exitPrice := t.exitValue.Div(t.exitQty)
	profit := t.pnl.InexactFloat64()
	profitPct := 0.0
	if !t.entryValue.IsZero() {
		profitPct = t.pnl.Div(t.entryValue).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}
	qty := t.entryQty.InexactFloat64()

	return []domain.RawTradeRow{
		{
			TradeNo:   tradeNo,
			Type:      entryType,
			Signal:    signal,
			DateTime:  t.entryTime,
			Price:     entryPrice.InexactFloat64(),
			Contracts: qty,
		},
		{
			TradeNo:   tradeNo,
			Type:      exitType,
			Signal:    signal,
			DateTime:  closing.Time,
			Price:     exitPrice.InexactFloat64(),
			Contracts: qty,
			Profit:    profit,
			ProfitPct: profitPct,
		},
	}
}
