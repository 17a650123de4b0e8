package utils

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"equityLens/internal/domain"
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteEquityCSV writes one row per trade: date, net profit, cumulative profit,
// equity and z-score.
func WriteEquityCSV(w io.Writer, m *domain.TradeMetrics) error {
	if m == nil {
		return fmt.Errorf("write equity csv: nil metrics")
	}
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"date", "net_profit", "cum_net_profit", "equity", "z_score"}); err != nil {
		return err
	}
	// Row 0 is the synthetic pre-trade point and carries no trade values.
	for i := range m.Dates {
		net, cum, z := "", "", ""
		if i > 0 {
			net = formatFloat(m.NetProfit[i-1])
			cum = formatFloat(m.CumNetProfit[i-1])
			if i-1 < len(m.ZScores) {
				z = formatFloat(m.ZScores[i-1])
			}
		}
		if err := writer.Write([]string{
			m.Dates[i].Format(time.RFC3339),
			net,
			cum,
			formatFloat(m.Equity[i]),
			z,
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteConeCSV writes the future dates with the upper and lower bounds of a cone.
func WriteConeCSV(w io.Writer, cone *domain.ProbabilityConeData) error {
	if cone == nil {
		return fmt.Errorf("write cone csv: nil cone")
	}
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"date", "upper", "lower"}); err != nil {
		return err
	}
	for i := 0; i < cone.Len(); i++ {
		if err := writer.Write([]string{
			cone.FutureDates[i].Format(time.RFC3339),
			formatFloat(cone.UpperCone[i]),
			formatFloat(cone.LowerCone[i]),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteMonteCarloCSV writes paths in long format: run, step, equity.
func WriteMonteCarloCSV(w io.Writer, paths domain.MonteCarloData) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"run", "step", "equity"}); err != nil {
		return err
	}
	for run, path := range paths {
		for step, v := range path {
			if err := writer.Write([]string{strconv.Itoa(run), strconv.Itoa(step), formatFloat(v)}); err != nil {
				return err
			}
		}
	}
	writer.Flush()
	return writer.Error()
}
