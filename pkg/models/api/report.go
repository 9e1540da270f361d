package api

import "encoding/json"

// DayEntry is the wire form of one reconciled day. Dates travel as
// YYYY-MM-DD strings.
type DayEntry struct {
	Date        string  `json:"date"`
	Summary     string  `json:"summary"`
	Location    string  `json:"location"`
	TotalHours  float64 `json:"totalHours"`
	ManualEntry bool    `json:"isManualEntry"`
	Weekend     bool    `json:"isWeekend"`
	Leave       bool    `json:"isLeave"`
	// RecordIDs traces an auto-populated day back to its source records.
	RecordIDs []int64 `json:"recordIds,omitempty"`
}

type WeeklyReport struct {
	ID                string     `json:"id"`
	StartDate         string     `json:"startDate"`
	EndDate           string     `json:"endDate"`
	ClientName        string     `json:"clientName"`
	EmployeeName      string     `json:"employeeName"`
	Entries           []DayEntry `json:"entries"`
	TotalHours        float64    `json:"totalHours"`
	TotalLeaveDays    int        `json:"totalLeaveDays"`
	ExecutiveSummary  string     `json:"executiveSummary,omitempty"`
	GeneratingSummary bool       `json:"isGeneratingSummary"`
	// SummarySource is set on generation responses: "model" or "local".
	SummarySource string `json:"summarySource,omitempty"`
}

type CreateReportRequest struct {
	ClientName   string `json:"clientName"`
	EmployeeName string `json:"employeeName"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	// Records is the raw export payload: a bare array of entries or an
	// object with a data array. May be absent for manual-entry flows.
	Records json.RawMessage `json:"records,omitempty"`
}

// EntryUpdateRequest is a partial row edit; absent fields stay untouched.
type EntryUpdateRequest struct {
	Date       *string  `json:"date,omitempty"`
	Summary    *string  `json:"summary,omitempty"`
	Location   *string  `json:"location,omitempty"`
	TotalHours *float64 `json:"totalHours,omitempty"`
}

type SetSummaryRequest struct {
	Summary string `json:"summary"`
}

type CredentialsRequest struct {
	APIKey string `json:"apiKey"`
}

type Error struct {
	Error string `json:"error"`
}
