package engine

import "time"

// DailyTradeCounter tracks how many fills were confirmed on a given calendar
// day. It only ever increments on confirmed fills, never on proposals or
// rejections.
type DailyTradeCounter struct {
	Date  time.Time // midnight UTC of the day the count applies to
	Count int
}

func NewDailyTradeCounter(now time.Time) DailyTradeCounter {
	return DailyTradeCounter{Date: dayOf(now)}
}

// Rollover returns the counter unchanged while the wall-clock date still
// matches Date, or a fresh zero counter once the date has advanced. Invoked
// before every risk evaluation so no date comparison leaks into the decision
// logic.
func Rollover(c DailyTradeCounter, now time.Time) DailyTradeCounter {
	if today := dayOf(now); !today.Equal(c.Date) {
		return DailyTradeCounter{Date: today}
	}
	return c
}

// Record returns the counter with one more confirmed fill.
func (c DailyTradeCounter) Record() DailyTradeCounter {
	c.Count++
	return c
}

func dayOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
