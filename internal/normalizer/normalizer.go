// Package normalizer turns raw entry/exit rows into ordered round-trip trades
// and provides the filters applied to trade sets before analysis.
package normalizer

import (
	"fmt"
	"sort"
	"strings"

	"equityLens/internal/domain"
	"equityLens/internal/ports"
)

// MalformedTradeError reports every source trade number whose rows could not
// be paired into exactly one entry and one exit.
type MalformedTradeError struct {
	TradeNos []int
	Reasons  map[int]string
}

func (e *MalformedTradeError) Error() string {
	parts := make([]string, 0, len(e.TradeNos))
	for _, no := range e.TradeNos {
		parts = append(parts, fmt.Sprintf("#%d: %s", no, e.Reasons[no]))
	}
	return fmt.Sprintf("%v: %s", ports.ErrMalformedTrade, strings.Join(parts, "; "))
}

// Is lets errors.Is match ports.ErrMalformedTrade.
func (e *MalformedTradeError) Is(target error) bool {
	return target == ports.ErrMalformedTrade
}

// HeaderMismatchError is returned when source headers do not cover the raw row schema.
type HeaderMismatchError struct {
	Missing []string
}

func (e *HeaderMismatchError) Error() string {
	return fmt.Sprintf("%v: missing %s", ports.ErrHeaderMismatch, strings.Join(e.Missing, ", "))
}

// Is lets errors.Is match ports.ErrHeaderMismatch.
func (e *HeaderMismatchError) Is(target error) bool {
	return target == ports.ErrHeaderMismatch
}

// RawHeaders are the normalized column names of a raw trade row.
var RawHeaders = []string{
	"trade_no", "type", "signal", "date_time", "price", "contracts",
	"profit", "profit_pct", "cum_profit", "cum_profit_pct",
	"run_up", "run_up_pct", "drawdown", "drawdown_pct",
}

// CheckHeaders verifies that every raw row column is present in headers.
func CheckHeaders(headers []string) error {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}
	var missing []string
	for _, h := range RawHeaders {
		if !present[h] {
			missing = append(missing, h)
		}
	}
	if len(missing) > 0 {
		return &HeaderMismatchError{Missing: missing}
	}
	return nil
}

func isEntry(row domain.RawTradeRow) bool {
	return strings.Contains(row.Type, "Entry")
}

// Normalize pairs raw rows sharing a trade number into TradeRecords, sorts them
// by exit date and renumbers them 1..N. Source trade numbers only group rows.
// Any group that does not resolve to one entry and one exit fails the whole batch.
func Normalize(rows []domain.RawTradeRow) ([]domain.TradeRecord, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	groups := make(map[int][]domain.RawTradeRow)
	order := make([]int, 0, len(rows)/2)
	for _, row := range rows {
		if _, seen := groups[row.TradeNo]; !seen {
			order = append(order, row.TradeNo)
		}
		groups[row.TradeNo] = append(groups[row.TradeNo], row)
	}

	malformed := &MalformedTradeError{Reasons: make(map[int]string)}
	trades := make([]domain.TradeRecord, 0, len(order))
	for _, no := range order {
		group := groups[no]
		if len(group) != 2 {
			malformed.add(no, fmt.Sprintf("expected 2 rows, got %d", len(group)))
			continue
		}
		entry, exit := group[0], group[1]
		switch {
		case isEntry(entry) && !isEntry(exit):
		case isEntry(exit) && !isEntry(entry):
			entry, exit = exit, entry
		case isEntry(entry):
			malformed.add(no, "two entry rows")
			continue
		default:
			malformed.add(no, "no entry row")
			continue
		}
		if exit.DateTime.Before(entry.DateTime) {
			malformed.add(no, "exit precedes entry")
			continue
		}
		trades = append(trades, pair(entry, exit))
	}

	if len(malformed.TradeNos) > 0 {
		sort.Ints(malformed.TradeNos)
		return nil, malformed
	}

	SortByExitDate(trades)
	Renumber(trades)
	return trades, nil
}

func (e *MalformedTradeError) add(tradeNo int, reason string) {
	e.TradeNos = append(e.TradeNos, tradeNo)
	e.Reasons[tradeNo] = reason
}

func pair(entry, exit domain.RawTradeRow) domain.TradeRecord {
	return domain.TradeRecord{
		TradeNo: entry.TradeNo,

		EntryType:         entry.Type,
		EntrySignal:       entry.Signal,
		EntryDate:         entry.DateTime,
		EntryPrice:        entry.Price,
		EntryContracts:    entry.Contracts,
		EntryProfit:       entry.Profit,
		EntryProfitPct:    entry.ProfitPct,
		EntryCumProfit:    entry.CumProfit,
		EntryCumProfitPct: entry.CumProfitPct,
		EntryRunUp:        entry.RunUp,
		EntryRunUpPct:     entry.RunUpPct,
		EntryDrawdown:     entry.Drawdown,
		EntryDrawdownPct:  entry.DrawdownPct,

		ExitType:         exit.Type,
		ExitSignal:       exit.Signal,
		ExitDate:         exit.DateTime,
		ExitPrice:        exit.Price,
		ExitContracts:    exit.Contracts,
		ExitProfit:       exit.Profit,
		ExitProfitPct:    exit.ProfitPct,
		ExitCumProfit:    exit.CumProfit,
		ExitCumProfitPct: exit.CumProfitPct,
		ExitRunUp:        exit.RunUp,
		ExitRunUpPct:     exit.RunUpPct,
		ExitDrawdown:     exit.Drawdown,
		ExitDrawdownPct:  exit.DrawdownPct,
	}
}
