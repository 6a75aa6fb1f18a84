package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakmed/clinic-ops/internal/clinic"
)

func TestWindowContainsInclusiveBounds(t *testing.T) {
	w := Window{
		Start: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
	}

	assert.True(t, w.Contains(w.Start))
	assert.True(t, w.Contains(w.End))
	assert.True(t, w.Contains(w.Start.Add(time.Hour)))
	assert.False(t, w.Contains(w.Start.Add(-time.Nanosecond)))
	assert.False(t, w.Contains(w.End.Add(time.Nanosecond)))
}

func TestResolveWindows(t *testing.T) {
	now := time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)
	w := resolveWindows(now)

	assert.Equal(t, now, w.last7d.End)
	assert.Equal(t, now.AddDate(0, 0, -7), w.last7d.Start)
	assert.Equal(t, now.AddDate(0, 0, -30), w.last30d.Start)
	assert.Equal(t, now.AddDate(0, 0, -90), w.last90d.Start)

	assert.True(t, w.today.Contains(now))
	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), w.today.Start)

	require.Len(t, w.days, 14)
	assert.Equal(t, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), w.days[0])
	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), w.days[13])

	require.Len(t, w.weeks, 4)
	assert.Equal(t, now.AddDate(0, 0, -28), w.weeks[0].Start)
	assert.Equal(t, now, w.weeks[3].End)
	for i := 1; i < len(w.weeks); i++ {
		assert.Equal(t, w.weeks[i-1].End, w.weeks[i].Start, "weekly spans must be contiguous")
	}

	// Month boundaries cross the year: Jan 15 anchors Nov, Dec, Jan.
	require.Len(t, w.months, 3)
	assert.Equal(t, time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC), w.months[0])
	assert.Equal(t, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), w.months[1])
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), w.months[2])
}

func TestFilterWindowUsesStartInstantOnly(t *testing.T) {
	w := Window{
		Start: time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC),
	}

	inside := appt(time.Date(2025, 6, 10, 23, 45, 0, 0, time.UTC), clinic.StatusScheduled, clinic.TypeCheckup)
	// Starts before the window even though it ends inside it.
	straddling := appt(time.Date(2025, 6, 9, 23, 45, 0, 0, time.UTC), clinic.StatusScheduled, clinic.TypeCheckup)

	got := filterWindow([]clinic.Appointment{inside, straddling}, w)
	require.Len(t, got, 1)
	assert.Equal(t, inside.ID, got[0].ID)
}

func TestFilterStatus(t *testing.T) {
	appts := []clinic.Appointment{
		appt(time.Now(), clinic.StatusCompleted, clinic.TypeCheckup),
		appt(time.Now(), clinic.StatusNoShow, clinic.TypeCheckup),
		appt(time.Now(), clinic.StatusScheduled, clinic.TypeCheckup),
	}

	got := filterStatus(appts, clinic.StatusCompleted, clinic.StatusScheduled)
	require.Len(t, got, 2)
	assert.Equal(t, 1, countStatus(got, clinic.StatusCompleted))
	assert.Equal(t, 1, countStatus(got, clinic.StatusScheduled))
}
