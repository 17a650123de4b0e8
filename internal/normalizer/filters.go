package normalizer

import (
	"fmt"
	"sort"
	"time"

	"equityLens/internal/domain"
	"equityLens/internal/ports"
)

// SortByExitDate orders trades by exit date ascending, keeping the relative
// order of trades that closed at the same instant.
func SortByExitDate(trades []domain.TradeRecord) {
	sort.SliceStable(trades, func(i, j int) bool {
		return trades[i].ExitDate.Before(trades[j].ExitDate)
	})
}

// Renumber assigns TradeNo 1..N in slice order.
func Renumber(trades []domain.TradeRecord) {
	for i := range trades {
		trades[i].TradeNo = i + 1
	}
}

func clone(trades []domain.TradeRecord) []domain.TradeRecord {
	out := make([]domain.TradeRecord, len(trades))
	copy(out, trades)
	return out
}

// Merge combines several normalized batches into one exit-ordered, renumbered set.
func Merge(batches ...[]domain.TradeRecord) []domain.TradeRecord {
	total := 0
	for _, b := range batches {
		total += len(b)
	}
	merged := make([]domain.TradeRecord, 0, total)
	for _, b := range batches {
		merged = append(merged, b...)
	}
	SortByExitDate(merged)
	Renumber(merged)
	return merged
}

// RemoveBest drops the n most profitable trades.
func RemoveBest(trades []domain.TradeRecord, n int) ([]domain.TradeRecord, error) {
	return removeExtremes(trades, n, func(a, b float64) bool { return a > b })
}

// RemoveWorst drops the n least profitable trades.
func RemoveWorst(trades []domain.TradeRecord, n int) ([]domain.TradeRecord, error) {
	return removeExtremes(trades, n, func(a, b float64) bool { return a < b })
}

func removeExtremes(trades []domain.TradeRecord, n int, first func(a, b float64) bool) ([]domain.TradeRecord, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: cannot remove %d trades", ports.ErrInvalidRequest, n)
	}
	if n >= len(trades) {
		return []domain.TradeRecord{}, nil
	}

	ranked := clone(trades)
	sort.SliceStable(ranked, func(i, j int) bool {
		return first(ranked[i].ExitProfit, ranked[j].ExitProfit)
	})
	kept := ranked[n:]

	SortByExitDate(kept)
	Renumber(kept)
	return kept, nil
}

// TagSource records source on every trade.
func TagSource(trades []domain.TradeRecord, source string) {
	for i := range trades {
		trades[i].Source = source
	}
}

// FilterBySource keeps the trades imported from one of sources, renumbered.
// With no sources every trade is kept.
func FilterBySource(trades []domain.TradeRecord, sources ...string) []domain.TradeRecord {
	if len(sources) == 0 {
		return trades
	}
	wanted := make(map[string]bool, len(sources))
	for _, s := range sources {
		wanted[s] = true
	}
	kept := make([]domain.TradeRecord, 0, len(trades))
	for _, t := range trades {
		if wanted[t.Source] {
			kept = append(kept, t)
		}
	}
	Renumber(kept)
	return kept
}

// FilterByDateRange keeps trades whose exit date lies in [from, to].
// A zero from or to leaves that side open.
func FilterByDateRange(trades []domain.TradeRecord, from, to time.Time) []domain.TradeRecord {
	kept := make([]domain.TradeRecord, 0, len(trades))
	for _, t := range trades {
		if !from.IsZero() && t.ExitDate.Before(from) {
			continue
		}
		if !to.IsZero() && t.ExitDate.After(to) {
			continue
		}
		kept = append(kept, t)
	}
	Renumber(kept)
	return kept
}
