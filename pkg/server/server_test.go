package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/de-tools/timesheet-atlas/pkg/models/api"
	"github.com/de-tools/timesheet-atlas/pkg/models/domain"
	"github.com/de-tools/timesheet-atlas/pkg/services/session"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSummarizer struct {
	result domain.SummaryResult
}

func (f *fixedSummarizer) Generate(context.Context, string, string) domain.SummaryResult {
	return f.result
}

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	s := session.New(session.Options{
		Summarizer: &fixedSummarizer{
			result: domain.SummaryResult{
				Text:   "Delivered design evals and review work.",
				Source: domain.SummarySourceModel,
			},
		},
		APIKey: "test-key",
		Now: func() time.Time {
			return time.Date(2025, 7, 8, 12, 0, 0, 0, time.UTC)
		},
	})

	router := ConfigureRouter(Config{
		Dependencies: Dependencies{
			Session: s,
			Logger:  zerolog.Nop(),
		},
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

const createReportBody = `{
	"clientName": "Acme",
	"employeeName": "Jordan",
	"startDate": "2025-07-07",
	"endDate": "2025-07-13",
	"records": [
		{"id": 1, "date": "2025-07-07", "totalMinutes": 480, "taskName": "Design",
		 "projectName": "Platform", "clientName": "Acme", "comments": "Evals"},
		{"id": 2, "date": "2025-07-08", "totalMinutes": 240, "taskName": "Review",
		 "projectName": "Platform", "clientName": "Acme"}
	]
}`

func createReport(t *testing.T, server *httptest.Server) api.WeeklyReport {
	t.Helper()
	resp, err := http.Post(server.URL+"/api/v1/reports", "application/json", strings.NewReader(createReportBody))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decodeReport(t, resp)
}

func decodeReport(t *testing.T, resp *http.Response) api.WeeklyReport {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	var report api.WeeklyReport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	return report
}

func decodeError(t *testing.T, resp *http.Response) api.Error {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	var apiErr api.Error
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&apiErr))
	return apiErr
}

func doRequest(t *testing.T, method, url string, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestCreateReport(t *testing.T) {
	server := setupTestServer(t)

	report := createReport(t, server)

	assert.NotEmpty(t, report.ID)
	assert.Equal(t, "Acme", report.ClientName)
	assert.Equal(t, "Jordan", report.EmployeeName)
	assert.Equal(t, "2025-07-07", report.StartDate)
	assert.Equal(t, "2025-07-13", report.EndDate)
	require.Len(t, report.Entries, 7)

	monday := report.Entries[0]
	assert.Equal(t, "2025-07-07", monday.Date)
	assert.Equal(t, 8.0, monday.TotalHours)
	assert.Equal(t, []int64{1}, monday.RecordIDs)
	assert.Contains(t, monday.Summary, "**Design**: Evals")

	saturday := report.Entries[5]
	assert.True(t, saturday.Weekend)
	assert.Zero(t, saturday.TotalHours)

	assert.Equal(t, 12.0, report.TotalHours)
	assert.Equal(t, 3, report.TotalLeaveDays)
	assert.False(t, report.GeneratingSummary)
}

func TestCreateReport_InvalidDates(t *testing.T) {
	server := setupTestServer(t)

	resp := doRequest(t, http.MethodPost, server.URL+"/api/v1/reports",
		`{"startDate":"07/07/2025","endDate":"2025-07-13"}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	apiErr := decodeError(t, resp)
	assert.Equal(t, "invalid 'startDate' format. Expected format: YYYY-MM-DD", apiErr.Error)
}

func TestCreateReport_InvalidRecords(t *testing.T) {
	server := setupTestServer(t)

	resp := doRequest(t, http.MethodPost, server.URL+"/api/v1/reports",
		`{"startDate":"2025-07-07","endDate":"2025-07-13",
		  "records":[{"date":"2025-07-07","totalMinutes":60,"taskName":"T","projectName":"P","clientName":"C"}]}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	apiErr := decodeError(t, resp)
	assert.Equal(t, "Entry 1 is missing required fields: id", apiErr.Error)
}

func TestGetReport_NotInitialized(t *testing.T) {
	server := setupTestServer(t)

	resp, err := http.Get(server.URL + "/api/v1/reports/current")
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	apiErr := decodeError(t, resp)
	assert.Equal(t, "report not initialized", apiErr.Error)
}

func TestUpdateEntry(t *testing.T) {
	server := setupTestServer(t)
	createReport(t, server)

	resp := doRequest(t, http.MethodPatch, server.URL+"/api/v1/reports/current/entries/0",
		`{"location":"On Leave","totalHours":4}`)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	report := decodeReport(t, resp)
	assert.Equal(t, "On Leave", report.Entries[0].Location)
	assert.True(t, report.Entries[0].Leave)
	assert.Zero(t, report.Entries[0].TotalHours)
	assert.Equal(t, 4.0, report.TotalHours)
	assert.Equal(t, 4, report.TotalLeaveDays)
}

func TestUpdateEntry_Errors(t *testing.T) {
	server := setupTestServer(t)
	createReport(t, server)

	tests := []struct {
		name           string
		target         string
		body           string
		expectedStatus int
	}{
		{"index out of range", "/entries/42", `{"summary":"x"}`, http.StatusNotFound},
		{"non-numeric index", "/entries/abc", `{"summary":"x"}`, http.StatusBadRequest},
		{"invalid location", "/entries/0", `{"location":"Moon"}`, http.StatusBadRequest},
		{"negative hours", "/entries/0", `{"totalHours":-1}`, http.StatusBadRequest},
		{"invalid date", "/entries/0", `{"date":"July 7"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, http.MethodPatch, server.URL+"/api/v1/reports/current"+tt.target, tt.body)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestAddAndDeleteEntry(t *testing.T) {
	server := setupTestServer(t)
	createReport(t, server)

	resp := doRequest(t, http.MethodPost, server.URL+"/api/v1/reports/current/entries", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	report := decodeReport(t, resp)
	require.Len(t, report.Entries, 8)

	// The manual row is dated "today" (2025-07-08) and sorts after the
	// auto-populated row for the same date.
	manual := report.Entries[2]
	assert.True(t, manual.ManualEntry)
	assert.Equal(t, "2025-07-08", manual.Date)
	assert.Equal(t, "Client Office", manual.Location)

	resp = doRequest(t, http.MethodDelete, server.URL+"/api/v1/reports/current/entries/2", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	report = decodeReport(t, resp)
	assert.Len(t, report.Entries, 7)
	assert.Equal(t, 12.0, report.TotalHours)
}

func TestSetSummary(t *testing.T) {
	server := setupTestServer(t)
	createReport(t, server)

	resp := doRequest(t, http.MethodPut, server.URL+"/api/v1/reports/current/summary",
		`{"summary":"Hand-written summary."}`)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	report := decodeReport(t, resp)
	assert.Equal(t, "Hand-written summary.", report.ExecutiveSummary)
}

func TestGenerateSummary(t *testing.T) {
	server := setupTestServer(t)
	createReport(t, server)

	resp := doRequest(t, http.MethodPost, server.URL+"/api/v1/reports/current/summary/generate", "")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	report := decodeReport(t, resp)
	assert.Equal(t, "Delivered design evals and review work.", report.ExecutiveSummary)
	assert.Equal(t, "model", report.SummarySource)
	assert.False(t, report.GeneratingSummary)
}

func TestGenerateSummary_NoActivities(t *testing.T) {
	server := setupTestServer(t)

	resp := doRequest(t, http.MethodPost, server.URL+"/api/v1/reports",
		`{"startDate":"2025-07-12","endDate":"2025-07-13"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doRequest(t, http.MethodPost, server.URL+"/api/v1/reports/current/summary/generate", "")
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestSetCredentials(t *testing.T) {
	server := setupTestServer(t)

	resp := doRequest(t, http.MethodPut, server.URL+"/api/v1/settings/credentials",
		`{"apiKey":"user-key"}`)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestExportReport(t *testing.T) {
	server := setupTestServer(t)
	createReport(t, server)

	resp, err := http.Get(server.URL + "/api/v1/reports/current/export")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/plain; charset=utf-8", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	text := string(body)
	assert.Contains(t, text, "Acme")
	assert.Contains(t, text, "Jordan")
	// Markdown emphasis is stripped in the plain-text rendering.
	assert.NotContains(t, text, "**")
	assert.Contains(t, text, "Design: Evals")
}
