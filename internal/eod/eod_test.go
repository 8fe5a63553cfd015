package eod

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTradeLog(t *testing.T, dir string, day time.Time, entries []map[string]any) {
	t.Helper()
	path := filepath.Join(dir, day.UTC().Format("2006-01-02")+".txt")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create log: %v", err)
	}
	defer f.Close()
	for _, e := range entries {
		b, _ := json.Marshal(e)
		f.Write(append(b, '\n'))
	}
}

func TestSummarizeDay(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TRADER_LOG_DIR", dir)
	day := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	writeTradeLog(t, dir, day, []map[string]any{
		{"Symbol": "BTC-USD", "Side": "BUY", "Qty": 0.01, "Price": 40000.0, "RealizedPnL": 0.0},
		{"Symbol": "BTC-USD", "Side": "SELL", "Qty": 0.01, "Price": 44000.0, "RealizedPnL": 40.0},
		{"Symbol": "BTC-USD", "Side": "BUY", "Qty": 0.01, "Price": 43000.0, "RealizedPnL": 0.0},
	})

	path, err := SummarizeDay(day)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if path == "" {
		t.Fatal("Expected a CSV path")
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open csv: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}

	// header + BTC-USD + TOTAL
	if len(rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(rows))
	}
	if rows[1][0] != "BTC-USD" {
		t.Errorf("Expected BTC-USD row, got %s", rows[1][0])
	}
	if rows[1][1] != "3" {
		t.Errorf("Expected 3 trades, got %s", rows[1][1])
	}
	if rows[1][6] != "40.00" {
		t.Errorf("Expected realized pnl 40.00, got %s", rows[1][6])
	}
	if rows[2][0] != "TOTAL" {
		t.Errorf("Expected TOTAL row, got %s", rows[2][0])
	}
}

func TestSummarizeDayNoTrades(t *testing.T) {
	t.Setenv("TRADER_LOG_DIR", t.TempDir())

	path, err := SummarizeDay(time.Now())
	if err != nil {
		t.Fatalf("Expected no error for missing log, got %v", err)
	}
	if path != "" {
		t.Errorf("Expected empty path with no trades, got %s", path)
	}
}

func TestDayStats(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TRADER_LOG_DIR", dir)
	day := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	writeTradeLog(t, dir, day, []map[string]any{
		{"Symbol": "BTC-USD", "Side": "BUY", "Qty": 0.01, "Price": 40000.0, "RealizedPnL": 0.0},
		{"Symbol": "BTC-USD", "Side": "SELL", "Qty": 0.01, "Price": 44000.0, "RealizedPnL": 40.0},
		{"Symbol": "BTC-USD", "Side": "BUY", "Qty": 0.01, "Price": 43000.0, "RealizedPnL": 0.0},
		{"Symbol": "BTC-USD", "Side": "SELL", "Qty": 0.01, "Price": 41000.0, "RealizedPnL": -20.0},
	})

	stats, err := DayStats(day)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if stats.Trades != 4 {
		t.Errorf("Expected 4 trades, got %d", stats.Trades)
	}
	if stats.Wins != 1 || stats.Losses != 1 {
		t.Errorf("Expected 1 win and 1 loss, got %d/%d", stats.Wins, stats.Losses)
	}
	if stats.RealizedPnL != 20 {
		t.Errorf("Expected realized pnl 20, got %g", stats.RealizedPnL)
	}
	if !stats.Day.Equal(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected day truncated to midnight UTC, got %v", stats.Day)
	}
}

func TestShouldRunNow(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TRADER_LOG_DIR", dir)

	// No yesterday log: nothing to do.
	if ok, _ := ShouldRunNow(); ok {
		t.Error("Expected no run without a trade log")
	}

	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	writeTradeLog(t, dir, yesterday, []map[string]any{
		{"Symbol": "BTC-USD", "Side": "BUY", "Qty": 0.01, "Price": 40000.0},
	})

	ok, day := ShouldRunNow()
	if !ok {
		t.Fatal("Expected run with an unsummarized log")
	}

	if _, err := SummarizeDay(day); err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if ok, _ := ShouldRunNow(); ok {
		t.Error("Expected no second run once the CSV exists")
	}
}
