package eodobs

import (
	"context"
	"time"

	"crypto-trading-bot/internal/interfaces"
	"crypto-trading-bot/internal/logger"
	"crypto-trading-bot/internal/trace"
	"crypto-trading-bot/internal/types"
)

type observableEodSummarizer struct {
	summarizer interfaces.EodSummarizer
}

var _ interfaces.EodSummarizer = (*observableEodSummarizer)(nil)

func Wrap(summarizer interfaces.EodSummarizer) interfaces.EodSummarizer {
	return &observableEodSummarizer{
		summarizer: summarizer,
	}
}

func (oes *observableEodSummarizer) SummarizeDay(t time.Time) (string, error) {
	ctx := context.Background()
	ctx, span := trace.StartSpan(ctx, "eod.SummarizeDay")
	defer span.End()

	logger.Info(ctx, "Starting EOD summary generation",
		"date", t.UTC().Format("2006-01-02"),
	)

	csvPath, err := oes.summarizer.SummarizeDay(t)
	if err != nil {
		logger.ErrorWithErr(ctx, "EOD summary generation failed", err,
			"date", t.UTC().Format("2006-01-02"),
		)
		return "", err
	}

	if csvPath == "" {
		logger.Info(ctx, "No trades found for EOD summary",
			"date", t.UTC().Format("2006-01-02"),
		)
		return "", nil
	}

	logger.Info(ctx, "EOD summary generated successfully",
		"date", t.UTC().Format("2006-01-02"),
		"csv_path", csvPath,
	)

	return csvPath, nil
}

func (oes *observableEodSummarizer) SummarizeToday() (string, error) {
	return oes.SummarizeDay(time.Now().UTC())
}

func (oes *observableEodSummarizer) ShouldRunNow() (bool, time.Time) {
	ctx := context.Background()
	ctx, span := trace.StartSpan(ctx, "eod.ShouldRunNow")
	defer span.End()

	shouldRun, day := oes.summarizer.ShouldRunNow()

	logger.Debug(ctx, "EOD check completed",
		"should_run", shouldRun,
		"day", day.UTC().Format("2006-01-02"),
	)

	return shouldRun, day
}

func (oes *observableEodSummarizer) DayStats(t time.Time) (types.DailyStats, error) {
	ctx := context.Background()
	ctx, span := trace.StartSpan(ctx, "eod.DayStats")
	defer span.End()

	stats, err := oes.summarizer.DayStats(t)
	if err != nil {
		logger.ErrorWithErr(ctx, "Daily stats aggregation failed", err,
			"date", t.UTC().Format("2006-01-02"),
		)
		return stats, err
	}
	return stats, nil
}
