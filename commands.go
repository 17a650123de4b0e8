package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"

	"equityLens/internal/adapters/tradelog"
	"equityLens/internal/app"
	"equityLens/internal/utils"
)

func importCommand() *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "normalize a JSON trade log and store it as a dataset",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dataset", Aliases: []string{"d"}, Value: "default", Usage: "dataset name"},
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Required: true, Usage: "JSON array of raw trade rows"},
			&cli.BoolFlag{Name: "merge", Usage: "merge into the existing dataset instead of replacing it"},
		},
		Action: func(c *cli.Context) error {
			f, err := os.Open(c.String("file"))
			if err != nil {
				return fmt.Errorf("open trade log: %w", err)
			}
			defer f.Close()
			rows, err := tradelog.ReadJSON(f)
			if err != nil {
				return fmt.Errorf("read %s: %w", c.String("file"), err)
			}

			rt, err := newRuntime(c, false)
			if err != nil {
				return err
			}
			defer rt.Close()

			trades, err := rt.service.ImportRows(c.Context, c.String("dataset"), filepath.Base(c.String("file")), rows, c.Bool("merge"))
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "Imported %d trades into dataset %q\n", len(trades), c.String("dataset"))
			return nil
		},
	}
}

func fetchCommand() *cli.Command {
	return &cli.Command{
		Name:  "fetch",
		Usage: "fold Binance futures fills into trades and store them as a dataset",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dataset", Aliases: []string{"d"}, Usage: "dataset name (defaults to the symbol)"},
			&cli.StringFlag{Name: "symbol", Aliases: []string{"s"}, Required: true, Usage: "futures symbol, e.g. ETHUSDT"},
			&cli.StringFlag{Name: "from", Usage: "start date YYYY-MM-DD (default 30 days ago)"},
			&cli.StringFlag{Name: "to", Usage: "end date YYYY-MM-DD, inclusive (default now)"},
			&cli.BoolFlag{Name: "merge", Usage: "merge into the existing dataset instead of replacing it"},
		},
		Action: func(c *cli.Context) error {
			end := time.Now().UTC()
			if c.String("to") != "" {
				var err error
				if end, err = parseDate(c.String("to"), true); err != nil {
					return err
				}
			}
			start := end.AddDate(0, 0, -30)
			if c.String("from") != "" {
				var err error
				if start, err = parseDate(c.String("from"), false); err != nil {
					return err
				}
			}
			dataset := c.String("dataset")
			if dataset == "" {
				dataset = c.String("symbol")
			}

			rt, err := newRuntime(c, true)
			if err != nil {
				return err
			}
			defer rt.Close()

			trades, err := rt.service.ImportFromExchange(c.Context, dataset, c.String("symbol"), start, end, c.Bool("merge"))
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "Fetched %d trades for %s into dataset %q\n", len(trades), c.String("symbol"), dataset)
			return nil
		},
	}
}

func datasetsCommand() *cli.Command {
	return &cli.Command{
		Name:  "datasets",
		Usage: "list stored datasets",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "delete", Usage: "delete the named dataset"},
		},
		Action: func(c *cli.Context) error {
			rt, err := newRuntime(c, false)
			if err != nil {
				return err
			}
			defer rt.Close()

			if name := c.String("delete"); name != "" {
				if err := rt.service.DeleteDataset(c.Context, name); err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "Deleted dataset %q\n", name)
				return nil
			}

			names, err := rt.service.Datasets(c.Context)
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(c.App.Writer, name)
			}
			return nil
		},
	}
}

func summaryCommand() *cli.Command {
	return &cli.Command{
		Name:  "summary",
		Usage: "print summary statistics, monthly profit and drawdown periods",
		Flags: filterFlags(),
		Action: func(c *cli.Context) error {
			rt, f, err := analysisRuntime(c)
			if err != nil {
				return err
			}
			defer rt.Close()

			report, err := rt.service.Analyze(c.Context, c.String("dataset"), f)
			if err != nil {
				return err
			}
			return printReport(c.App.Writer, report)
		},
	}
}

func monteCarloFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "trials", Usage: "number of simulated paths (overrides MC_TRIALS)"},
		&cli.IntFlag{Name: "points", Usage: "trades per path (overrides MC_POINTS)"},
		&cli.IntFlag{Name: "remove-high", Usage: "best paths dropped (overrides MC_REMOVE_HIGH)"},
		&cli.IntFlag{Name: "remove-low", Usage: "worst paths dropped (overrides MC_REMOVE_LOW)"},
		&cli.Int64Flag{Name: "seed", Usage: "random seed, 0 for time based (overrides MC_SEED)"},
	}
}

func monteCarloCommand() *cli.Command {
	return &cli.Command{
		Name:    "montecarlo",
		Aliases: []string{"mc"},
		Usage:   "resample trade profits into simulated equity paths",
		Flags:   append(filterFlags(), monteCarloFlags()...),
		Action: func(c *cli.Context) error {
			rt, f, err := analysisRuntime(c)
			if err != nil {
				return err
			}
			defer rt.Close()

			result, err := rt.service.RunMonteCarlo(c.Context, c.String("dataset"), f)
			if err != nil {
				return err
			}
			return printMonteCarlo(c.App.Writer, result)
		},
	}
}

func runsCommand() *cli.Command {
	return &cli.Command{
		Name:  "runs",
		Usage: "list stored Monte Carlo runs of a dataset",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dataset", Aliases: []string{"d"}, Value: "default", Usage: "dataset name"},
			&cli.IntFlag{Name: "limit", Value: 10, Usage: "maximum runs to show"},
		},
		Action: func(c *cli.Context) error {
			rt, err := newRuntime(c, false)
			if err != nil {
				return err
			}
			defer rt.Close()

			runs, err := rt.service.RecentRuns(c.Context, c.String("dataset"), c.Int("limit"))
			if err != nil {
				return err
			}
			return printRuns(c.App.Writer, runs)
		},
	}
}

func coneFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "method", Usage: "exponential or linear (overrides CONE_METHOD)"},
		&cli.IntFlag{Name: "future-points", Usage: "projected points (overrides CONE_FUTURE_POINTS)"},
		&cli.Float64Flag{Name: "start", Usage: "share of the curve used as history (overrides CONE_START_PERCENTAGE)"},
	}
}

func conesCommand() *cli.Command {
	return &cli.Command{
		Name:  "cones",
		Usage: "project inner and outer probability cones",
		Flags: append(filterFlags(), coneFlags()...),
		Action: func(c *cli.Context) error {
			rt, f, err := analysisRuntime(c)
			if err != nil {
				return err
			}
			defer rt.Close()

			result, err := rt.service.Cones(c.Context, c.String("dataset"), f)
			if err != nil {
				return err
			}
			return printCones(c.App.Writer, result, rt.cfg.ConeStdDevA, rt.cfg.ConeStdDevB)
		},
	}
}

func exportCommand() *cli.Command {
	flags := append(filterFlags(),
		&cli.StringFlag{Name: "kind", Value: "equity", Usage: "equity, cone or montecarlo"},
		&cli.StringFlag{Name: "band", Value: "outer", Usage: "cone band to export: inner or outer"},
		&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output CSV file (default stdout)"},
	)
	flags = append(flags, monteCarloFlags()...)
	flags = append(flags, coneFlags()...)

	return &cli.Command{
		Name:  "export",
		Usage: "write the equity curve, a cone band or Monte Carlo paths as CSV",
		Flags: flags,
		Action: func(c *cli.Context) error {
			rt, f, err := analysisRuntime(c)
			if err != nil {
				return err
			}
			defer rt.Close()

			var w io.Writer = c.App.Writer
			if path := c.String("out"); path != "" {
				file, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("create %s: %w", path, err)
				}
				defer file.Close()
				w = file
			}

			dataset := c.String("dataset")
			switch c.String("kind") {
			case "equity":
				report, err := rt.service.Analyze(c.Context, dataset, f)
				if err != nil {
					return err
				}
				return utils.WriteEquityCSV(w, report.Metrics)
			case "cone":
				result, err := rt.service.Cones(c.Context, dataset, f)
				if err != nil {
					return err
				}
				band := result.Outer
				if c.String("band") == "inner" {
					band = result.Inner
				}
				return utils.WriteConeCSV(w, &band)
			case "montecarlo":
				result, err := rt.service.RunMonteCarlo(c.Context, dataset, f)
				if err != nil {
					return err
				}
				return utils.WriteMonteCarloCSV(w, result.Paths)
			default:
				return fmt.Errorf("unknown export kind %q", c.String("kind"))
			}
		},
	}
}

func analysisRuntime(c *cli.Context) (*runtime, app.TradeFilter, error) {
	f, err := tradeFilter(c)
	if err != nil {
		return nil, f, err
	}
	rt, err := newRuntime(c, false)
	if err != nil {
		return nil, f, err
	}
	return rt, f, nil
}
