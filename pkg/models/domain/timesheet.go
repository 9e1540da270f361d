package domain

import "time"

// Location is the closed set of work settings a day can carry.
type Location string

const (
	LocationClientOffice Location = "Client Office"
	LocationRemote       Location = "WFH"
	LocationOffice       Location = "Office"
	LocationOnLeave      Location = "On Leave"
)

// Locations lists every valid location value, in display order.
func Locations() []Location {
	return []Location{LocationClientOffice, LocationRemote, LocationOffice, LocationOnLeave}
}

// Valid reports whether l is one of the known location values.
func (l Location) Valid() bool {
	switch l {
	case LocationClientOffice, LocationRemote, LocationOffice, LocationOnLeave:
		return true
	}
	return false
}

// SourceRecord is one logged task-instance ingested from an external
// timesheet export. Immutable once ingested.
type SourceRecord struct {
	ID          int64
	Date        time.Time // calendar day, no time component
	TaskName    string
	ProjectName string
	ClientName  string
	Comment     string
	Minutes     int
	// Metadata carries passthrough fields from the export that the core
	// does not interpret.
	Metadata map[string]string
}

// DayEntry is one calendar day's reconciled state in a report.
type DayEntry struct {
	Date       time.Time
	Summary    string
	Location   Location
	TotalHours float64
	// ManualEntry is true when the day has no backing source records:
	// weekend placeholder, inferred leave, or a user-added row.
	ManualEntry bool
	Weekend     bool
	Leave       bool
	// SourceRecords back-references the records that produced this day.
	// Present only for auto-populated days; never mutated.
	SourceRecords []SourceRecord
}

// WeeklyReport is the aggregate root: a date-bounded, gap-free sequence of
// day entries plus derived totals. Owned exclusively by the editing session.
type WeeklyReport struct {
	ID           string
	StartDate    time.Time
	EndDate      time.Time
	ClientName   string
	EmployeeName string
	Entries      []DayEntry
	// TotalHours is the rounded sum over non-weekend, non-leave entries.
	TotalHours float64
	// TotalLeaveDays counts non-weekend entries flagged as leave,
	// regardless of their location value.
	TotalLeaveDays   int
	ExecutiveSummary string
}
