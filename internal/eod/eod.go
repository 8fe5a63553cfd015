// Package eod aggregates each day's JSONL trade log into a CSV summary and
// into daily stats for the persistence sink. Crypto trades around the clock,
// so days roll at midnight UTC rather than at a market close.
package eod

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"crypto-trading-bot/internal/interfaces"
	"crypto-trading-bot/internal/types"
)

type tradeLine struct {
	Time        string
	Symbol      string
	Side        string
	Qty         float64
	Price       float64
	OrderID     string
	Reason      string
	RealizedPnL float64
}

type aggRow struct {
	Symbol      string
	BuyQty      float64
	BuyValue    float64
	SellQty     float64
	SellValue   float64
	RealizedPnL float64
	Wins        int
	Losses      int
	Trades      int
}

type eodSummarizer struct{}

var _ interfaces.EodSummarizer = (*eodSummarizer)(nil)

// readDay parses the day's trade log into per-symbol aggregates. A missing
// file is not an error; it just means no trades happened.
func readDay(t time.Time) (map[string]*aggRow, error) {
	inPath := tradeFile(t)
	f, err := os.Open(inPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	aggs := map[string]*aggRow{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var tl tradeLine
		if err := json.Unmarshal(sc.Bytes(), &tl); err != nil {
			continue
		}
		row := aggs[tl.Symbol]
		if row == nil {
			row = &aggRow{Symbol: tl.Symbol}
			aggs[tl.Symbol] = row
		}
		row.Trades++
		switch tl.Side {
		case "BUY":
			row.BuyQty += tl.Qty
			row.BuyValue += tl.Qty * tl.Price
		case "SELL":
			row.SellQty += tl.Qty
			row.SellValue += tl.Qty * tl.Price
			row.RealizedPnL += tl.RealizedPnL
			if tl.RealizedPnL > 0 {
				row.Wins++
			} else if tl.RealizedPnL < 0 {
				row.Losses++
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return aggs, nil
}

func (s *eodSummarizer) SummarizeDay(t time.Time) (string, error) {
	aggs, err := readDay(t)
	if err != nil {
		return "", err
	}
	if len(aggs) == 0 {
		return "", nil
	}

	keys := make([]string, 0, len(aggs))
	for k := range aggs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	outPath := eodCSVPath(t)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", err
	}
	out, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	w := csv.NewWriter(out)
	defer w.Flush()

	headers := []string{"symbol", "trades", "buy_qty", "buy_avg", "sell_qty", "sell_avg", "realized_pnl", "wins", "losses", "gross_buy_value", "gross_sell_value"}
	if err := w.Write(headers); err != nil {
		return "", err
	}

	var totalBuy, totalSell, totalPnL float64
	for _, k := range keys {
		r := aggs[k]
		var buyAvg, sellAvg float64
		if r.BuyQty > 0 {
			buyAvg = r.BuyValue / r.BuyQty
		}
		if r.SellQty > 0 {
			sellAvg = r.SellValue / r.SellQty
		}
		rec := []string{
			r.Symbol,
			fmt.Sprintf("%d", r.Trades),
			fmt.Sprintf("%g", r.BuyQty),
			fmt.Sprintf("%.4f", buyAvg),
			fmt.Sprintf("%g", r.SellQty),
			fmt.Sprintf("%.4f", sellAvg),
			fmt.Sprintf("%.2f", r.RealizedPnL),
			fmt.Sprintf("%d", r.Wins),
			fmt.Sprintf("%d", r.Losses),
			fmt.Sprintf("%.2f", r.BuyValue),
			fmt.Sprintf("%.2f", r.SellValue),
		}
		if err := w.Write(rec); err != nil {
			return "", err
		}
		totalBuy += r.BuyValue
		totalSell += r.SellValue
		totalPnL += r.RealizedPnL
	}
	_ = w.Write([]string{"TOTAL", "", "", "", "", "", fmt.Sprintf("%.2f", totalPnL), "", "", fmt.Sprintf("%.2f", totalBuy), fmt.Sprintf("%.2f", totalSell)})
	return outPath, nil
}

func (s *eodSummarizer) SummarizeToday() (string, error) {
	return s.SummarizeDay(time.Now().UTC())
}

// ShouldRunNow reports whether yesterday (UTC) has trades but no summary yet.
func (s *eodSummarizer) ShouldRunNow() (bool, time.Time) {
	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	if _, err := os.Stat(tradeFile(yesterday)); err != nil {
		return false, yesterday
	}
	if _, err := os.Stat(eodCSVPath(yesterday)); errors.Is(err, os.ErrNotExist) {
		return true, yesterday
	}
	return false, yesterday
}

func (s *eodSummarizer) DayStats(t time.Time) (types.DailyStats, error) {
	day := time.Date(t.UTC().Year(), t.UTC().Month(), t.UTC().Day(), 0, 0, 0, 0, time.UTC)
	stats := types.DailyStats{Day: day}

	aggs, err := readDay(t)
	if err != nil {
		return stats, err
	}
	for _, r := range aggs {
		stats.Trades += r.Trades
		stats.Wins += r.Wins
		stats.Losses += r.Losses
		stats.RealizedPnL += r.RealizedPnL
	}
	return stats, nil
}
