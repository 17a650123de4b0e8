package domain

import "time"

// RawTradeRow is one side (entry or exit) of a trade as delivered by the
// header-mapping layer. Two rows sharing TradeNo make up one round trip.
type RawTradeRow struct {
	TradeNo      int       // Source trade number, used only as a grouping key
	Type         string    // e.g. "Entry long", "Exit short"
	Signal       string    // e.g. "Long", "Short"
	DateTime     time.Time // Fill timestamp of this side
	Price        float64   // Fill price
	Contracts    float64   // Quantity traded
	Profit       float64   // Realized profit (meaningful on the exit row)
	ProfitPct    float64   // Realized profit in percent
	CumProfit    float64   // Cumulative profit as reported by the source
	CumProfitPct float64   // Cumulative profit percent as reported by the source
	RunUp        float64   // Maximum favorable excursion, absolute
	RunUpPct     float64   // Maximum favorable excursion, percent
	Drawdown     float64   // Maximum adverse excursion, absolute
	DrawdownPct  float64   // Maximum adverse excursion, percent
}

// TradeRecord represents one normalized round-trip trade.
type TradeRecord struct {
	TradeNo int    // 1-based rank by exit date
	Source  string // Trade log file or exchange symbol the trade was imported from

	EntryType         string
	EntrySignal       string
	EntryDate         time.Time
	EntryPrice        float64
	EntryContracts    float64
	EntryProfit       float64
	EntryProfitPct    float64
	EntryCumProfit    float64
	EntryCumProfitPct float64
	EntryRunUp        float64
	EntryRunUpPct     float64
	EntryDrawdown     float64
	EntryDrawdownPct  float64

	ExitType         string
	ExitSignal       string
	ExitDate         time.Time
	ExitPrice        float64
	ExitContracts    float64
	ExitProfit       float64 // Net profit of the trade, drives the equity curve
	ExitProfitPct    float64
	ExitCumProfit    float64
	ExitCumProfitPct float64
	ExitRunUp        float64
	ExitRunUpPct     float64
	ExitDrawdown     float64
	ExitDrawdownPct  float64
}

// Duration returns how long the trade was held.
func (t TradeRecord) Duration() time.Duration {
	return t.ExitDate.Sub(t.EntryDate)
}
