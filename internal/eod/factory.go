package eod

import (
	"time"

	"crypto-trading-bot/internal/interfaces"
	"crypto-trading-bot/internal/types"
)

var defaultSummarizer interfaces.EodSummarizer = &eodSummarizer{}

func SetDefaultSummarizer(summarizer interfaces.EodSummarizer) {
	defaultSummarizer = summarizer
}

func NewSummarizer() interfaces.EodSummarizer {
	return &eodSummarizer{}
}

func SummarizeDay(t time.Time) (string, error) {
	return defaultSummarizer.SummarizeDay(t)
}

func SummarizeToday() (string, error) {
	return defaultSummarizer.SummarizeToday()
}

func ShouldRunNow() (bool, time.Time) {
	return defaultSummarizer.ShouldRunNow()
}

func DayStats(t time.Time) (types.DailyStats, error) {
	return defaultSummarizer.DayStats(t)
}
