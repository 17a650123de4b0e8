package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"equityLens/internal/app"
	"equityLens/internal/ports"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printReport(w io.Writer, r *app.Report) error {
	s := r.Summary
	tw := newTable(w)
	fmt.Fprintln(tw, "SUMMARY\t")
	fmt.Fprintf(tw, "Trades\t%d (%d won, %d lost)\n", s.TotalTrades, s.WinningTrades, s.LosingTrades)
	fmt.Fprintf(tw, "Win rate\t%.2f%%\n", s.WinRate*100)
	fmt.Fprintf(tw, "Max consecutive wins / losses\t%d / %d\n", s.MaxConsecutiveWins, s.MaxConsecutiveLosses)
	fmt.Fprintf(tw, "Total profit\t%.2f\n", s.TotalProfit)
	fmt.Fprintf(tw, "Average profit (win / loss)\t%.2f (%.2f / %.2f)\n", s.AverageProfit, s.AverageProfitWin, s.AverageProfitLoss)
	fmt.Fprintf(tw, "Median profit (win / loss)\t%.2f (%.2f / %.2f)\n", s.MedianProfit, s.MedianProfitWin, s.MedianProfitLoss)
	fmt.Fprintf(tw, "Std dev (1σ / 2σ)\t%.2f / %.2f\n", s.FirstStdDev, s.SecondStdDev)
	fmt.Fprintf(tw, "Best / worst trade\t%.2f / %.2f\n", s.MaxProfit, s.MinProfit)
	fmt.Fprintf(tw, "Profit factor\t%.2f\n", s.ProfitFactor)
	fmt.Fprintf(tw, "Expectancy\t%.2f\n", s.Expectancy)
	fmt.Fprintf(tw, "Final equity\t%.2f\n", s.FinalEquity)
	fmt.Fprintf(tw, "Total return\t%.2f%%\n", s.TotalReturnPercent)
	fmt.Fprintf(tw, "Annualized return\t%.2f%%\n", s.AnnualizedReturnPercent)
	fmt.Fprintf(tw, "Max drawdown\t%.2f (%.2f%%)\n", s.MaxDrawdown, s.MaxDrawdownPercent*100)
	fmt.Fprintf(tw, "Average drawdown\t%.2f\n", s.AverageDrawdown)
	fmt.Fprintf(tw, "MAR\t%.3f\n", s.MAR)
	fmt.Fprintf(tw, "Net profit / avg drawdown\t%.3f\n", s.NetProfitByAvgDrawdown)
	fmt.Fprintf(tw, "Sharpe ratio\t%.3f\n", s.SharpeRatio)
	if r.SummaryErr != nil {
		fmt.Fprintf(tw, "Undefined ratios\t%v\n", r.SummaryErr)
	}

	fmt.Fprintln(tw, "\t")
	fmt.Fprintln(tw, "MONTH\tPROFIT")
	for _, m := range r.Monthly {
		fmt.Fprintf(tw, "%s\t%.2f\n", m.Month.Format("2006-01"), m.Profit)
	}

	fmt.Fprintln(tw, "\t")
	fmt.Fprintln(tw, "DRAWDOWN START\tEND\tPEAK\tTROUGH\tDEPTH\tRECOVERED")
	for _, d := range r.DrawdownPeriods {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%.2f\t%.2f%%\t%t\n",
			d.StartTime.Format(dateLayout), d.EndTime.Format(dateLayout),
			d.PeakValue, d.TroughValue, d.Depth*100, d.Recovered)
	}
	return tw.Flush()
}

func printMonteCarlo(w io.Writer, r *app.MonteCarloResult) error {
	s := r.Stats
	tw := newTable(w)
	if r.RunID > 0 {
		fmt.Fprintf(tw, "Run\t#%d\n", r.RunID)
	}
	fmt.Fprintf(tw, "Paths kept\t%d\n", len(r.Paths))
	fmt.Fprintf(tw, "Positive / negative\t%d / %d\n", s.PositiveRuns, s.NegativeRuns)
	fmt.Fprintf(tw, "Success rate\t%.2f%%\n", s.SuccessRate*100)
	fmt.Fprintf(tw, "Best final equity\t%.2f (%+.2f%%)\n", s.MaxEquity, s.MaxEquityPercent*100)
	fmt.Fprintf(tw, "Worst final equity\t%.2f (%+.2f%%)\n", s.MinEquity, s.MinEquityPercent*100)
	fmt.Fprintf(tw, "Max drawdown\t%.2f (%.2f%%)\n", s.MaxDrawdown, s.MaxDrawdownPercent*100)
	if len(r.Percentiles) == 3 {
		fmt.Fprintf(tw, "Final equity p5 / p50 / p95\t%.2f / %.2f / %.2f\n", r.Percentiles[0], r.Percentiles[1], r.Percentiles[2])
	}
	if n := len(r.Average); n > 0 {
		fmt.Fprintf(tw, "Average path final equity\t%.2f\n", r.Average[n-1])
	}
	return tw.Flush()
}

func printRuns(w io.Writer, runs []*ports.MonteCarloRun) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tCREATED\tTRIALS\tPOINTS\tTRIMMED\tSEED\tSUCCESS\tMAX DD")
	for _, run := range runs {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d/%d\t%d\t%.2f%%\t%.2f%%\n",
			run.ID, run.CreatedAt.Format(time.RFC3339), run.Trials, run.Points,
			run.RemovedHigh, run.RemovedLow, run.Seed,
			run.Stats.SuccessRate*100, run.Stats.MaxDrawdownPercent*100)
	}
	return tw.Flush()
}

func printCones(w io.Writer, r *app.ConeResult, inner, outer float64) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "DATE\tLOWER %gσ\tLOWER %gσ\tUPPER %gσ\tUPPER %gσ\n", outer, inner, inner, outer)
	for i := 0; i < r.Outer.Len(); i++ {
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\t%.2f\n",
			r.Outer.FutureDates[i].Format(dateLayout),
			r.Outer.LowerCone[i], r.Inner.LowerCone[i], r.Inner.UpperCone[i], r.Outer.UpperCone[i])
	}
	return tw.Flush()
}
