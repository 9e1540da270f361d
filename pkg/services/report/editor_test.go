package report

import (
	"testing"
	"time"

	"github.com/de-tools/timesheet-atlas/pkg/models/domain"
	"github.com/de-tools/timesheet-atlas/pkg/services/reconcile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t
}

// fixtureReport is Mon 2025-07-07 .. Wed 2025-07-09: one worked day, one
// inferred leave day, one worked day.
func fixtureReport() domain.WeeklyReport {
	records := []domain.SourceRecord{
		{ID: 1, Date: date("2025-07-07"), TaskName: "Design", Comment: "Evals", Minutes: 480},
		{ID: 2, Date: date("2025-07-09"), TaskName: "Review", Minutes: 240},
	}
	return reconcile.Reconcile(records, "Acme", "Jordan", date("2025-07-07"), date("2025-07-09"))
}

func floatPtr(v float64) *float64 { return &v }

func strPtr(v string) *string { return &v }

func locPtr(v domain.Location) *domain.Location { return &v }

func TestEditEntry_UpdatesFieldsAndAggregates(t *testing.T) {
	r := fixtureReport()
	require.Equal(t, 12.0, r.TotalHours)
	require.Equal(t, 1, r.TotalLeaveDays)

	updated, err := EditEntry(r, 0, EntryUpdate{
		Summary:    strPtr("Design review"),
		TotalHours: floatPtr(6),
	})

	require.NoError(t, err)
	assert.Equal(t, "Design review", updated.Entries[0].Summary)
	assert.Equal(t, 6.0, updated.Entries[0].TotalHours)
	assert.Equal(t, 10.0, updated.TotalHours)
	assert.Equal(t, 1, updated.TotalLeaveDays)
	// The input report is left untouched.
	assert.Equal(t, 12.0, r.TotalHours)
}

func TestEditEntry_OnLeaveForcesZeroHours(t *testing.T) {
	r := fixtureReport()

	// Hours supplied in the same update lose against the leave rule.
	updated, err := EditEntry(r, 0, EntryUpdate{
		Location:   locPtr(domain.LocationOnLeave),
		TotalHours: floatPtr(8),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.LocationOnLeave, updated.Entries[0].Location)
	assert.True(t, updated.Entries[0].Leave)
	assert.Zero(t, updated.Entries[0].TotalHours)
	assert.Equal(t, 4.0, updated.TotalHours)
	assert.Equal(t, 2, updated.TotalLeaveDays)
}

func TestEditEntry_LeavingOnLeaveClearsFlag(t *testing.T) {
	r := fixtureReport()
	require.True(t, r.Entries[1].Leave)

	updated, err := EditEntry(r, 1, EntryUpdate{
		Location:   locPtr(domain.LocationRemote),
		TotalHours: floatPtr(8),
	})

	require.NoError(t, err)
	assert.False(t, updated.Entries[1].Leave)
	assert.Equal(t, 8.0, updated.Entries[1].TotalHours)
	assert.Equal(t, 20.0, updated.TotalHours)
	assert.Equal(t, 0, updated.TotalLeaveDays)
}

func TestEditEntry_Idempotent(t *testing.T) {
	r := fixtureReport()
	entry := r.Entries[0]

	updated, err := EditEntry(r, 0, EntryUpdate{
		Date:       &entry.Date,
		Summary:    &entry.Summary,
		Location:   &entry.Location,
		TotalHours: &entry.TotalHours,
	})

	require.NoError(t, err)
	assert.Equal(t, r.TotalHours, updated.TotalHours)
	assert.Equal(t, r.TotalLeaveDays, updated.TotalLeaveDays)
	assert.Equal(t, r.Entries, updated.Entries)
}

func TestEditEntry_Errors(t *testing.T) {
	r := fixtureReport()

	tests := []struct {
		name     string
		index    int
		update   EntryUpdate
		expected error
	}{
		{"negative index", -1, EntryUpdate{}, ErrEntryIndexOutOfRange},
		{"index past end", len(r.Entries), EntryUpdate{}, ErrEntryIndexOutOfRange},
		{"unknown location", 0, EntryUpdate{Location: locPtr("Moon Base")}, ErrInvalidLocation},
		{"negative hours", 0, EntryUpdate{TotalHours: floatPtr(-1)}, ErrNegativeHours},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EditEntry(r, tt.index, tt.update)
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestAddEntry_SortsAndRecomputes(t *testing.T) {
	r := fixtureReport()

	updated := AddEntry(r, date("2025-07-08"))

	require.Len(t, updated.Entries, 4)
	added := updated.Entries[2]
	assert.Equal(t, date("2025-07-08"), added.Date)
	assert.True(t, added.ManualEntry)
	assert.False(t, added.Weekend)
	assert.False(t, added.Leave)
	assert.Equal(t, domain.LocationClientOffice, added.Location)
	// Stable sort: the inferred-leave row for the same date stays first.
	assert.True(t, updated.Entries[1].Leave)

	// Both aggregates stay consistent after the structural edit.
	assert.Equal(t, r.TotalHours, updated.TotalHours)
	assert.Equal(t, r.TotalLeaveDays, updated.TotalLeaveDays)
}

func TestDeleteEntry_RecomputesBothAggregates(t *testing.T) {
	r := fixtureReport()

	afterWorked, err := DeleteEntry(r, 0)
	require.NoError(t, err)
	assert.Len(t, afterWorked.Entries, 2)
	assert.Equal(t, 4.0, afterWorked.TotalHours)
	assert.Equal(t, 1, afterWorked.TotalLeaveDays)

	afterLeave, err := DeleteEntry(afterWorked, 0)
	require.NoError(t, err)
	assert.Equal(t, 4.0, afterLeave.TotalHours)
	assert.Equal(t, 0, afterLeave.TotalLeaveDays)

	_, err = DeleteEntry(afterLeave, 5)
	assert.ErrorIs(t, err, ErrEntryIndexOutOfRange)
}

func TestSetExecutiveSummary(t *testing.T) {
	r := fixtureReport()

	updated := SetExecutiveSummary(r, "Shipped the design review.")

	assert.Equal(t, "Shipped the design review.", updated.ExecutiveSummary)
	assert.Empty(t, r.ExecutiveSummary)
}
