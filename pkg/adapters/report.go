package adapters

import (
	"github.com/de-tools/timesheet-atlas/pkg/models/api"
	"github.com/de-tools/timesheet-atlas/pkg/models/domain"
)

const dateLayout = "2006-01-02"

func MapDayEntryDomainToApi(e domain.DayEntry) api.DayEntry {
	entry := api.DayEntry{
		Date:        e.Date.Format(dateLayout),
		Summary:     e.Summary,
		Location:    string(e.Location),
		TotalHours:  e.TotalHours,
		ManualEntry: e.ManualEntry,
		Weekend:     e.Weekend,
		Leave:       e.Leave,
	}
	for _, record := range e.SourceRecords {
		entry.RecordIDs = append(entry.RecordIDs, record.ID)
	}
	return entry
}

func MapWeeklyReportDomainToApi(r domain.WeeklyReport) api.WeeklyReport {
	res := api.WeeklyReport{
		ID:               r.ID,
		StartDate:        r.StartDate.Format(dateLayout),
		EndDate:          r.EndDate.Format(dateLayout),
		ClientName:       r.ClientName,
		EmployeeName:     r.EmployeeName,
		Entries:          make([]api.DayEntry, 0, len(r.Entries)),
		TotalHours:       r.TotalHours,
		TotalLeaveDays:   r.TotalLeaveDays,
		ExecutiveSummary: r.ExecutiveSummary,
	}
	for _, entry := range r.Entries {
		res.Entries = append(res.Entries, MapDayEntryDomainToApi(entry))
	}
	return res
}
