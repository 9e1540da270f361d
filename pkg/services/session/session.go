package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/de-tools/timesheet-atlas/pkg/models/domain"
	"github.com/de-tools/timesheet-atlas/pkg/services/reconcile"
	"github.com/de-tools/timesheet-atlas/pkg/services/report"
	"github.com/de-tools/timesheet-atlas/pkg/services/summary"
)

var (
	ErrNotInitialized       = errors.New("report not initialized")
	ErrInvalidRange         = errors.New("start date must not be after end date")
	ErrGenerationInProgress = errors.New("summary generation already in progress")
	ErrNoActivities         = errors.New("no task summaries available to summarize")
)

// GeneratingPlaceholder is the transient executive summary text while a
// generation request is in flight. It is never left as the final state.
const GeneratingPlaceholder = "Generating summary..."

const generationFailedText = "Failed to generate summary with AI."

// Summarizer is the summarization boundary as the session sees it: it
// always returns a usable result, never an error.
type Summarizer interface {
	Generate(ctx context.Context, activities, apiKey string) domain.SummaryResult
}

// Session owns the single live report of an editing run. All operations are
// synchronous except GenerateSummary, which releases the lock around the
// remote call; its eventual result overwrites whatever summary is present
// at completion time (last-write-wins, no staleness check).
type Session struct {
	mu         sync.Mutex
	report     *domain.WeeklyReport
	generating bool

	summarizer Summarizer
	defaultKey string
	userKey    string
	now        func() time.Time
}

type Options struct {
	Summarizer Summarizer
	// APIKey is the credential resolved at session start; a user-supplied
	// key set later takes precedence over it.
	APIKey string
	Now    func() time.Time
}

func New(opts Options) *Session {
	if opts.Summarizer == nil {
		opts.Summarizer = summary.NewGenerator(summary.NewClient(""))
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Session{
		summarizer: opts.Summarizer,
		defaultKey: opts.APIKey,
		now:        opts.Now,
	}
}

// Initialize reconciles the records over [start, end] and replaces the live
// report wholesale. Client and employee may be empty; the reconciler
// substitutes placeholder labels.
func (s *Session) Initialize(
	records []domain.SourceRecord,
	client, employee string,
	start, end time.Time,
) (domain.WeeklyReport, error) {
	if start.After(end) {
		return domain.WeeklyReport{}, ErrInvalidRange
	}

	r := reconcile.Reconcile(records, client, employee, start, end)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.report = &r
	return r, nil
}

// Report returns the current report, or ErrNotInitialized before the first
// successful Initialize.
func (s *Session) Report() (domain.WeeklyReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.report == nil {
		return domain.WeeklyReport{}, ErrNotInitialized
	}
	return *s.report, nil
}

// EditEntry applies a partial update to the row at index.
func (s *Session) EditEntry(index int, update report.EntryUpdate) (domain.WeeklyReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.report == nil {
		return domain.WeeklyReport{}, ErrNotInitialized
	}

	updated, err := report.EditEntry(*s.report, index, update)
	if err != nil {
		return domain.WeeklyReport{}, err
	}
	s.report = &updated
	return updated, nil
}

// AddEntry appends a manual row dated today.
func (s *Session) AddEntry() (domain.WeeklyReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.report == nil {
		return domain.WeeklyReport{}, ErrNotInitialized
	}

	updated := report.AddEntry(*s.report, s.now())
	s.report = &updated
	return updated, nil
}

// DeleteEntry removes the row at index.
func (s *Session) DeleteEntry(index int) (domain.WeeklyReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.report == nil {
		return domain.WeeklyReport{}, ErrNotInitialized
	}

	updated, err := report.DeleteEntry(*s.report, index)
	if err != nil {
		return domain.WeeklyReport{}, err
	}
	s.report = &updated
	return updated, nil
}

// SetExecutiveSummary replaces the summary text with a manual value.
func (s *Session) SetExecutiveSummary(text string) (domain.WeeklyReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.report == nil {
		return domain.WeeklyReport{}, ErrNotInitialized
	}

	updated := report.SetExecutiveSummary(*s.report, text)
	s.report = &updated
	return updated, nil
}

// SetCredential stores a user-supplied summarizer key. An empty key clears
// the override back to the configured default.
func (s *Session) SetCredential(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userKey = key
}

// GenerateSummary runs one executive-summary generation. Exactly one request
// may be outstanding; re-entry fails with ErrGenerationInProgress. The busy
// flag is always cleared on exit, and the placeholder text never survives a
// completed request.
func (s *Session) GenerateSummary(ctx context.Context) (domain.WeeklyReport, domain.SummaryResult, error) {
	s.mu.Lock()
	if s.report == nil {
		s.mu.Unlock()
		return domain.WeeklyReport{}, domain.SummaryResult{}, ErrNotInitialized
	}
	if s.generating {
		s.mu.Unlock()
		return domain.WeeklyReport{}, domain.SummaryResult{}, ErrGenerationInProgress
	}

	activities := reconcile.SummaryInput(s.report.Entries)
	if activities == "" {
		s.mu.Unlock()
		return domain.WeeklyReport{}, domain.SummaryResult{}, ErrNoActivities
	}

	prior := s.report.ExecutiveSummary
	s.generating = true
	updated := report.SetExecutiveSummary(*s.report, GeneratingPlaceholder)
	s.report = &updated
	key := s.userKey
	if key == "" {
		key = s.defaultKey
	}
	s.mu.Unlock()

	result := s.summarizer.Generate(ctx, activities, key)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.generating = false

	text := result.Text
	if text == "" {
		// The summarizer contract forbids this, but the placeholder must
		// never be the final state regardless.
		if prior != "" && prior != GeneratingPlaceholder {
			text = prior
		} else {
			text = generationFailedText
		}
		result = domain.SummaryResult{Text: text, Source: domain.SummarySourceLocal}
	}

	final := report.SetExecutiveSummary(*s.report, text)
	s.report = &final
	return final, result, nil
}

// Generating reports whether a summary request is outstanding.
func (s *Session) Generating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generating
}
