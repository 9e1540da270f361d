package reconcile

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/de-tools/timesheet-atlas/pkg/models/domain"
	"github.com/google/uuid"
)

const (
	placeholderClient   = "Client Name"
	placeholderEmployee = "Employee Name"
	weekendSummary      = "Weekend"
)

var emphasisPattern = regexp.MustCompile(`\*\*(.*?)\*\*`)

// StripEmphasis removes `**bold**` markup, keeping the inner text. Consumers
// that do not render the markup (summarizer input, plain-text export) must
// strip it before use.
func StripEmphasis(text string) string {
	return emphasisPattern.ReplaceAllString(text, "$1")
}

// RoundHours rounds to 2 decimals, half-up. Every point that derives an hour
// total goes through this so the different call sites cannot drift.
func RoundHours(hours float64) float64 {
	return math.Floor(hours*100+0.5) / 100
}

// Reconcile turns a sparse set of dated records plus a [start, end] window
// into a complete, gap-free report. Every calendar day in the range gets
// exactly one entry: days with records are populated from them, bare weekends
// become placeholders, and bare weekdays default to inferred leave until the
// user reclassifies them. Records dated on a weekend win over the weekend
// placeholder: the day is treated as worked and its hours count.
//
// The caller guarantees start <= end.
func Reconcile(records []domain.SourceRecord, client, employee string, start, end time.Time) domain.WeeklyReport {
	byDate := groupByDate(records)

	var entries []domain.DayEntry
	for date := midnight(start); !date.After(midnight(end)); date = date.AddDate(0, 0, 1) {
		group := byDate[dateKey(date)]
		switch {
		case len(group) > 0:
			entries = append(entries, domain.DayEntry{
				Date:          date,
				Summary:       DaySummary(group),
				Location:      domain.LocationClientOffice,
				TotalHours:    hoursFromMinutes(group),
				ManualEntry:   false,
				Weekend:       false,
				Leave:         false,
				SourceRecords: group,
			})
		case isWeekend(date):
			entries = append(entries, domain.DayEntry{
				Date:        date,
				Summary:     weekendSummary,
				Location:    domain.LocationOnLeave,
				ManualEntry: true,
				Weekend:     true,
			})
		default:
			// Weekday without records: provisional leave, user may override.
			entries = append(entries, domain.DayEntry{
				Date:        date,
				Location:    domain.LocationOnLeave,
				ManualEntry: true,
				Leave:       true,
			})
		}
	}

	totalHours, totalLeaveDays := Aggregates(entries)

	if client == "" {
		client = placeholderClient
	}
	if employee == "" {
		employee = placeholderEmployee
	}

	return domain.WeeklyReport{
		ID:             uuid.NewString(),
		StartDate:      midnight(start),
		EndDate:        midnight(end),
		ClientName:     client,
		EmployeeName:   employee,
		Entries:        entries,
		TotalHours:     totalHours,
		TotalLeaveDays: totalLeaveDays,
	}
}

// Aggregates derives the report totals from its entries: hours over worked
// days only, leave count over non-weekend leave-flagged days regardless of
// the location value.
func Aggregates(entries []domain.DayEntry) (totalHours float64, totalLeaveDays int) {
	var hours float64
	for _, entry := range entries {
		if entry.Weekend {
			continue
		}
		if entry.Leave {
			totalLeaveDays++
			continue
		}
		hours += entry.TotalHours
	}
	return RoundHours(hours), totalLeaveDays
}

// DaySummary merges a day's records into one human-readable block: one line
// per task name in first-seen order, each listing that task's distinct
// trimmed comments.
func DaySummary(records []domain.SourceRecord) string {
	if len(records) == 0 {
		return ""
	}

	var order []string
	comments := map[string][]string{}
	seen := map[string]map[string]struct{}{}

	for _, record := range records {
		task := record.TaskName
		if _, ok := seen[task]; !ok {
			order = append(order, task)
			seen[task] = map[string]struct{}{}
		}
		comment := strings.TrimSpace(record.Comment)
		if comment == "" {
			continue
		}
		if _, dup := seen[task][comment]; dup {
			continue
		}
		seen[task][comment] = struct{}{}
		comments[task] = append(comments[task], comment)
	}

	lines := make([]string, 0, len(order))
	for _, task := range order {
		if list := comments[task]; len(list) > 0 {
			lines = append(lines, fmt.Sprintf("**%s**: %s", task, strings.Join(list, ", ")))
		} else {
			lines = append(lines, fmt.Sprintf("**%s**", task))
		}
	}
	return strings.Join(lines, "\n")
}

// SummaryInput flattens the report's worked-day summaries into the single
// string handed to the summarizer. Weekend days, leave days and empty
// summaries are excluded; emphasis markup is stripped.
func SummaryInput(entries []domain.DayEntry) string {
	var parts []string
	for _, entry := range entries {
		if entry.Weekend || entry.Leave {
			continue
		}
		summary := strings.TrimSpace(StripEmphasis(entry.Summary))
		if summary == "" || summary == weekendSummary {
			continue
		}
		parts = append(parts, summary)
	}
	return strings.Join(parts, " | ")
}

func hoursFromMinutes(records []domain.SourceRecord) float64 {
	var minutes int
	for _, record := range records {
		minutes += record.Minutes
	}
	return RoundHours(float64(minutes) / 60)
}

func groupByDate(records []domain.SourceRecord) map[string][]domain.SourceRecord {
	grouped := map[string][]domain.SourceRecord{}
	for _, record := range records {
		key := dateKey(record.Date)
		grouped[key] = append(grouped[key], record)
	}
	return grouped
}

func isWeekend(date time.Time) bool {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return true
	}
	return false
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
