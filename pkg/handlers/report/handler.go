package report

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/de-tools/timesheet-atlas/pkg/adapters"
	"github.com/de-tools/timesheet-atlas/pkg/export"
	"github.com/de-tools/timesheet-atlas/pkg/models/api"
	"github.com/de-tools/timesheet-atlas/pkg/models/domain"
	"github.com/de-tools/timesheet-atlas/pkg/services/ingest"
	reportsvc "github.com/de-tools/timesheet-atlas/pkg/services/report"
	"github.com/de-tools/timesheet-atlas/pkg/services/session"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const dateLayout = "2006-01-02"

type Handler struct {
	session *session.Session
}

func NewHandler(s *session.Session) *Handler {
	return &Handler{session: s}
}

// CreateReport ingests the records payload, reconciles it over the requested
// date range and replaces the live report.
func (h *Handler) CreateReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		writeError(ctx, w, http.StatusBadRequest, "invalid 'startDate' format. Expected format: YYYY-MM-DD")
		return
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		writeError(ctx, w, http.StatusBadRequest, "invalid 'endDate' format. Expected format: YYYY-MM-DD")
		return
	}

	var records []domain.SourceRecord
	if len(req.Records) > 0 {
		records, err = ingest.Parse(req.Records)
		if err != nil {
			writeError(ctx, w, http.StatusBadRequest, err.Error())
			return
		}
	}

	result, err := h.session.Initialize(records, req.ClientName, req.EmployeeName, start, end)
	if err != nil {
		writeError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	h.respondReport(ctx, w, http.StatusCreated, result)
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	result, err := h.session.Report()
	if err != nil {
		writeError(ctx, w, http.StatusNotFound, err.Error())
		return
	}

	h.respondReport(ctx, w, http.StatusOK, result)
}

// UpdateEntry applies a partial edit to the row at {index}.
func (h *Handler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(ctx, w, http.StatusBadRequest, "invalid entry index")
		return
	}

	var req api.EntryUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	update := reportsvc.EntryUpdate{
		Summary:    req.Summary,
		TotalHours: req.TotalHours,
	}
	if req.Date != nil {
		date, err := time.Parse(dateLayout, *req.Date)
		if err != nil {
			writeError(ctx, w, http.StatusBadRequest, "invalid 'date' format. Expected format: YYYY-MM-DD")
			return
		}
		update.Date = &date
	}
	if req.Location != nil {
		location := domain.Location(*req.Location)
		update.Location = &location
	}

	result, err := h.session.EditEntry(index, update)
	if err != nil {
		h.writeSessionError(ctx, w, err)
		return
	}

	h.respondReport(ctx, w, http.StatusOK, result)
}

func (h *Handler) AddEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	result, err := h.session.AddEntry()
	if err != nil {
		h.writeSessionError(ctx, w, err)
		return
	}

	h.respondReport(ctx, w, http.StatusCreated, result)
}

func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(ctx, w, http.StatusBadRequest, "invalid entry index")
		return
	}

	result, err := h.session.DeleteEntry(index)
	if err != nil {
		h.writeSessionError(ctx, w, err)
		return
	}

	h.respondReport(ctx, w, http.StatusOK, result)
}

// SetSummary stores a manually written executive summary.
func (h *Handler) SetSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.SetSummaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := h.session.SetExecutiveSummary(req.Summary)
	if err != nil {
		h.writeSessionError(ctx, w, err)
		return
	}

	h.respondReport(ctx, w, http.StatusOK, result)
}

// GenerateSummary runs one AI summary generation. The request blocks until
// the summarizer resolves; concurrent edits proceed against the session in
// the meantime.
func (h *Handler) GenerateSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	result, generated, err := h.session.GenerateSummary(ctx)
	if err != nil {
		h.writeSessionError(ctx, w, err)
		return
	}

	dto := adapters.MapWeeklyReportDomainToApi(result)
	dto.GeneratingSummary = h.session.Generating()
	dto.SummarySource = string(generated.Source)
	respondJSON(ctx, w, http.StatusOK, dto)
}

// SetCredentials stores a user-supplied summarizer key; an empty key clears
// the override.
func (h *Handler) SetCredentials(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	h.session.SetCredential(req.APIKey)
	w.WriteHeader(http.StatusNoContent)
}

// ExportReport renders the current report as plain text.
func (h *Handler) ExportReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	result, err := h.session.Report()
	if err != nil {
		writeError(ctx, w, http.StatusNotFound, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := export.NewTextReporter(w).Handle(&result); err != nil {
		logger.Error().Err(err).Msg("failed to render report export")
	}
}

func (h *Handler) respondReport(ctx context.Context, w http.ResponseWriter, status int, r domain.WeeklyReport) {
	dto := adapters.MapWeeklyReportDomainToApi(r)
	dto.GeneratingSummary = h.session.Generating()
	respondJSON(ctx, w, status, dto)
}

func (h *Handler) writeSessionError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrNotInitialized):
		writeError(ctx, w, http.StatusNotFound, err.Error())
	case errors.Is(err, reportsvc.ErrEntryIndexOutOfRange):
		writeError(ctx, w, http.StatusNotFound, err.Error())
	case errors.Is(err, session.ErrGenerationInProgress):
		writeError(ctx, w, http.StatusConflict, err.Error())
	case errors.Is(err, session.ErrNoActivities):
		writeError(ctx, w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(ctx, w, http.StatusBadRequest, err.Error())
	}
}

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	logger := zerolog.Ctx(ctx)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, status int, message string) {
	respondJSON(ctx, w, status, api.Error{Error: message})
}
