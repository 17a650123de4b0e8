// Package tradelog reads trade logs that have already been mapped to the
// normalized raw row columns (see normalizer.RawHeaders) and stored as a JSON
// array of objects.
package tradelog

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"equityLens/internal/domain"
	"equityLens/internal/normalizer"
	"equityLens/internal/ports"
)

// Accepted date_time layouts for string values. Numbers are Unix milliseconds.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ReadJSON decodes a JSON array of raw rows. Every object must carry all raw
// row columns; extra keys are ignored.
func ReadJSON(r io.Reader) ([]domain.RawTradeRow, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var objects []map[string]interface{}
	if err := dec.Decode(&objects); err != nil {
		return nil, fmt.Errorf("%w: decode trade log: %v", ports.ErrInvalidRequest, err)
	}

	rows := make([]domain.RawTradeRow, 0, len(objects))
	for i, obj := range objects {
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		if err := normalizer.CheckHeaders(keys); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}

		row, err := decodeRow(obj)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func decodeRow(obj map[string]interface{}) (domain.RawTradeRow, error) {
	var row domain.RawTradeRow

	tradeNo, err := number(obj, "trade_no")
	if err != nil {
		return row, err
	}
	row.TradeNo = int(tradeNo)
	row.Type = text(obj["type"])
	row.Signal = text(obj["signal"])
	if row.DateTime, err = timestamp(obj["date_time"]); err != nil {
		return row, err
	}

	floats := []struct {
		key string
		dst *float64
	}{
		{"price", &row.Price},
		{"contracts", &row.Contracts},
		{"profit", &row.Profit},
		{"profit_pct", &row.ProfitPct},
		{"cum_profit", &row.CumProfit},
		{"cum_profit_pct", &row.CumProfitPct},
		{"run_up", &row.RunUp},
		{"run_up_pct", &row.RunUpPct},
		{"drawdown", &row.Drawdown},
		{"drawdown_pct", &row.DrawdownPct},
	}
	for _, f := range floats {
		if *f.dst, err = number(obj, f.key); err != nil {
			return row, err
		}
	}
	return row, nil
}

func text(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	default:
		return fmt.Sprint(t)
	}
}

// number accepts JSON numbers and numeric strings; thousands separators and a
// trailing percent sign are stripped. Null and empty strings read as 0.
func number(obj map[string]interface{}, key string) (float64, error) {
	switch v := obj[key].(type) {
	case nil:
		return 0, nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %v", ports.ErrInvalidRequest, key, err)
		}
		return f, nil
	case string:
		s := strings.TrimSuffix(strings.ReplaceAll(strings.TrimSpace(v), ",", ""), "%")
		if s == "" {
			return 0, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %q is not a number", ports.ErrInvalidRequest, key, v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%w: %s: unexpected %T", ports.ErrInvalidRequest, key, v)
	}
}

func timestamp(v interface{}) (time.Time, error) {
	switch t := v.(type) {
	case json.Number:
		ms, err := t.Int64()
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: date_time: %v", ports.ErrInvalidRequest, err)
		}
		return time.UnixMilli(ms).UTC(), nil
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range dateLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts, nil
			}
		}
		return time.Time{}, fmt.Errorf("%w: date_time: unrecognized format %q", ports.ErrInvalidRequest, t)
	default:
		return time.Time{}, fmt.Errorf("%w: date_time: unexpected %T", ports.ErrInvalidRequest, v)
	}
}
