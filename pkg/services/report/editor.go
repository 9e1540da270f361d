package report

import (
	"errors"
	"sort"
	"time"

	"github.com/de-tools/timesheet-atlas/pkg/models/domain"
	"github.com/de-tools/timesheet-atlas/pkg/services/reconcile"
)

var (
	ErrEntryIndexOutOfRange = errors.New("entry index out of range")
	ErrInvalidLocation      = errors.New("invalid location value")
	ErrNegativeHours        = errors.New("total hours must not be negative")
)

// EntryUpdate is a partial row edit. Nil fields are left untouched.
type EntryUpdate struct {
	Date       *time.Time
	Summary    *string
	Location   *domain.Location
	TotalHours *float64
}

// EditEntry applies a partial update to the entry at index and returns the
// report with both aggregates recomputed. Changing the location to On Leave
// marks the day as leave and forces its hours to zero, even when the same
// update also carries an hours value; changing it away clears the leave flag.
// ManualEntry and Weekend are never changed implicitly.
func EditEntry(r domain.WeeklyReport, index int, update EntryUpdate) (domain.WeeklyReport, error) {
	if index < 0 || index >= len(r.Entries) {
		return domain.WeeklyReport{}, ErrEntryIndexOutOfRange
	}

	entries := cloneEntries(r.Entries)
	entry := entries[index]

	if update.Date != nil {
		entry.Date = *update.Date
	}
	if update.Summary != nil {
		entry.Summary = *update.Summary
	}
	if update.TotalHours != nil {
		if *update.TotalHours < 0 {
			return domain.WeeklyReport{}, ErrNegativeHours
		}
		entry.TotalHours = reconcile.RoundHours(*update.TotalHours)
	}
	if update.Location != nil {
		if !update.Location.Valid() {
			return domain.WeeklyReport{}, ErrInvalidLocation
		}
		entry.Location = *update.Location
		entry.Leave = *update.Location == domain.LocationOnLeave
	}
	if entry.Leave {
		entry.TotalHours = 0
	}

	entries[index] = entry
	return withEntries(r, entries), nil
}

// AddEntry appends a manual row dated today and re-sorts the entries,
// keeping the original relative order of rows sharing a date.
func AddEntry(r domain.WeeklyReport, today time.Time) domain.WeeklyReport {
	entries := cloneEntries(r.Entries)
	entries = append(entries, domain.DayEntry{
		Date:        time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC),
		Location:    domain.LocationClientOffice,
		ManualEntry: true,
	})

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})
	return withEntries(r, entries)
}

// DeleteEntry removes the entry at index and recomputes the aggregates.
func DeleteEntry(r domain.WeeklyReport, index int) (domain.WeeklyReport, error) {
	if index < 0 || index >= len(r.Entries) {
		return domain.WeeklyReport{}, ErrEntryIndexOutOfRange
	}

	entries := cloneEntries(r.Entries)
	entries = append(entries[:index], entries[index+1:]...)
	return withEntries(r, entries), nil
}

// SetExecutiveSummary replaces the executive summary text.
func SetExecutiveSummary(r domain.WeeklyReport, text string) domain.WeeklyReport {
	r.ExecutiveSummary = text
	return r
}

// withEntries swaps the entry slice in and recomputes both derived totals.
// The report is never observed with aggregates stale relative to its entries.
func withEntries(r domain.WeeklyReport, entries []domain.DayEntry) domain.WeeklyReport {
	r.Entries = entries
	r.TotalHours, r.TotalLeaveDays = reconcile.Aggregates(entries)
	return r
}

func cloneEntries(entries []domain.DayEntry) []domain.DayEntry {
	cloned := make([]domain.DayEntry, len(entries))
	copy(cloned, entries)
	return cloned
}
