package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/timesheet-atlas/pkg/models/domain"
	"github.com/de-tools/timesheet-atlas/pkg/services/reconcile"
)

// Renderer is the export boundary: it consumes a finished report whose
// aggregates are consistent and produces a visual artifact.
type Renderer interface {
	Handle(report *domain.WeeklyReport) error
}

type TableConfig struct {
	DateWidth     int
	DayWidth      int
	SummaryWidth  int
	LocationWidth int
	HoursWidth    int
	KindWidth     int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		DateWidth:     10,
		DayWidth:      3,
		SummaryWidth:  56,
		LocationWidth: 13,
		HoursWidth:    6,
		KindWidth:     7,
	}
}

// TextReporter renders a report as a fixed-width text document.
type TextReporter struct {
	writer io.Writer
	config TableConfig
}

func NewTextReporter(writer io.Writer) *TextReporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &TextReporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

type reportRow struct {
	Date     string
	Day      string
	Summary  string
	Location string
	Hours    string
	Kind     string
}

type reportView struct {
	ClientName       string
	EmployeeName     string
	Start            string
	End              string
	TotalHours       string
	TotalLeaveDays   int
	ExecutiveSummary string
	ReportID         string
	Rows             []reportRow
}

func (c *TextReporter) Handle(report *domain.WeeklyReport) error {
	funcMap := template.FuncMap{
		"formatRow": func(date, day, summary, location, hours, kind string) string {
			return fmt.Sprintf("| %-*s | %-*s | %-*s | %-*s | %*s | %-*s |",
				c.config.DateWidth, date,
				c.config.DayWidth, day,
				c.config.SummaryWidth, truncate(summary, c.config.SummaryWidth),
				c.config.LocationWidth, location,
				c.config.HoursWidth, hours,
				c.config.KindWidth, kind)
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+%s+%s+%s+",
				strings.Repeat("-", c.config.DateWidth+2),
				strings.Repeat("-", c.config.DayWidth+2),
				strings.Repeat("-", c.config.SummaryWidth+2),
				strings.Repeat("-", c.config.LocationWidth+2),
				strings.Repeat("-", c.config.HoursWidth+2),
				strings.Repeat("-", c.config.KindWidth+2))
		},
	}

	tmpl := `Weekly Timesheet Report

Client:     {{.ClientName}}
Employee:   {{.EmployeeName}}
Period:     {{.Start}} to {{.End}}
Total Hours: {{.TotalHours}}{{if .TotalLeaveDays}}
Leave Days:  {{.TotalLeaveDays}}{{end}}
{{if .ExecutiveSummary}}
Executive Summary:
{{.ExecutiveSummary}}
{{end}}
{{separator}}
{{formatRow "Date" "Day" "Summary" "Location" "Hours" ""}}
{{separator}}
{{range .Rows}}{{formatRow .Date .Day .Summary .Location .Hours .Kind}}
{{end}}{{separator}}

Report ID: {{.ReportID}}
`

	t, err := template.New("report").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, buildView(report))
}

func buildView(report *domain.WeeklyReport) reportView {
	view := reportView{
		ClientName:       report.ClientName,
		EmployeeName:     report.EmployeeName,
		Start:            report.StartDate.Format("2006-01-02"),
		End:              report.EndDate.Format("2006-01-02"),
		TotalHours:       fmt.Sprintf("%.2f", report.TotalHours),
		TotalLeaveDays:   report.TotalLeaveDays,
		ExecutiveSummary: reconcile.StripEmphasis(report.ExecutiveSummary),
		ReportID:         report.ID,
		Rows:             make([]reportRow, 0, len(report.Entries)),
	}

	for _, entry := range report.Entries {
		summary := reconcile.StripEmphasis(entry.Summary)
		summary = strings.ReplaceAll(summary, "\n", "; ")

		view.Rows = append(view.Rows, reportRow{
			Date:     entry.Date.Format("2006-01-02"),
			Day:      entry.Date.Format("Mon"),
			Summary:  summary,
			Location: string(entry.Location),
			Hours:    fmt.Sprintf("%.2f", entry.TotalHours),
			Kind:     entryKind(entry),
		})
	}
	return view
}

func entryKind(entry domain.DayEntry) string {
	switch {
	case entry.Weekend:
		return "Weekend"
	case entry.Leave:
		return "Leave"
	case entry.ManualEntry:
		return "Manual"
	}
	return ""
}

func truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}
	if width <= 3 {
		return s[:width]
	}
	return s[:width-3] + "..."
}
