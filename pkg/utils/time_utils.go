package utils

import "time"

// Usage periods are keyed in UTC so a key never depends on the server's zone.

const (
	dailyKeyLayout   = "2006-01-02"
	monthlyKeyLayout = "2006-01"
)

// DailyPeriodKey formats t as YYYY-MM-DD in UTC.
func DailyPeriodKey(t time.Time) string {
	return t.UTC().Format(dailyKeyLayout)
}

// MonthlyPeriodKey formats t as YYYY-MM in UTC.
func MonthlyPeriodKey(t time.Time) string {
	return t.UTC().Format(monthlyKeyLayout)
}

// EndOfPeriod returns the first instant after the period containing t.
func EndOfPeriod(t time.Time, monthly bool) time.Time {
	t = t.UTC()
	if monthly {
		return time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(t.Year(), t.Month(), t.Day()+1, 0, 0, 0, 0, time.UTC)
}

func NowUnixSeconds() int64 { return time.Now().Unix() }

func NowUnixMillis() int64 { return time.Now().UnixMilli() }
