package domain

import "time"

// RefreshWindow is the contiguous date range a single refresh run covers, inclusive.
type RefreshWindow struct {
	StartDate time.Time
	EndDate   time.Time
}

// DefaultRefreshWindow spans from windowDays ago through yesterday, in whole days.
func DefaultRefreshWindow(now time.Time, windowDays int) RefreshWindow {
	today := Midnight(now)
	return RefreshWindow{
		StartDate: today.AddDate(0, 0, -windowDays),
		EndDate:   today.AddDate(0, 0, -1),
	}
}

// Dates enumerates every calendar day in the window, ascending.
func (w RefreshWindow) Dates() []time.Time {
	if w.EndDate.Before(w.StartDate) {
		return nil
	}
	var dates []time.Time
	for d := w.StartDate; !d.After(w.EndDate); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// Midnight truncates a timestamp to its calendar date in UTC.
func Midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
