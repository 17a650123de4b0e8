package analytics

import (
	"sort"
	"time"

	"equityLens/internal/domain"
)

// MonthlyProfit sums trade profit per calendar month (UTC) of the exit date,
// sorted by month.
func MonthlyProfit(trades []domain.TradeRecord) []domain.MonthlyProfit {
	byMonth := make(map[time.Time]float64)
	for _, t := range trades {
		exit := t.ExitDate.UTC()
		month := time.Date(exit.Year(), exit.Month(), 1, 0, 0, 0, 0, time.UTC)
		byMonth[month] += t.ExitProfit
	}

	out := make([]domain.MonthlyProfit, 0, len(byMonth))
	for month, profit := range byMonth {
		out = append(out, domain.MonthlyProfit{Month: month, Profit: profit})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Month.Before(out[j].Month)
	})
	return out
}
