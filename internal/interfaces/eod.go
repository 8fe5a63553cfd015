package interfaces

import (
	"time"

	"crypto-trading-bot/internal/types"
)

// EodSummarizer generates end-of-day trade summaries from the trade log.
type EodSummarizer interface {
	// SummarizeDay aggregates the day's trade log into a CSV report and
	// returns its path. An empty path with a nil error means no trades.
	SummarizeDay(t time.Time) (csvPath string, err error)

	// SummarizeToday summarizes the current UTC day.
	SummarizeToday() (csvPath string, err error)

	// ShouldRunNow reports whether the previous UTC day still needs a
	// summary, along with the day to summarize.
	ShouldRunNow() (shouldRun bool, day time.Time)

	// DayStats aggregates the day's trade log into daily stats for the
	// persistence sink.
	DayStats(t time.Time) (types.DailyStats, error)
}
