package analytics

import (
	"time"

	"github.com/oakmed/clinic-ops/internal/clinic"
)

// Window is a closed instant interval [Start, End]. Boundary ties are
// inclusive on both ends.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window. Membership is
// decided on the appointment's start instant only.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// windows holds every boundary the aggregators need, derived exactly
// once from a single anchor instant. Recomputing "today" per record
// would let the day boundary drift mid-pipeline, so none of the
// aggregators are allowed to touch the clock themselves.
type windows struct {
	now     time.Time
	last7d  Window
	last30d Window
	last90d Window
	today   Window

	// days are the last 14 calendar days, oldest first; each entry is
	// the start of that day in now's location.
	days []time.Time

	// weeks are 4 consecutive 7-day spans covering the last 28 days,
	// oldest first. These are half-open [Start, End) so that adjacent
	// spans never claim the same instant.
	weeks []Window

	// months are the first instants of now's calendar month and the
	// two preceding, oldest first.
	months []time.Time
}

func resolveWindows(now time.Time) windows {
	w := windows{
		now:     now,
		last7d:  Window{Start: now.AddDate(0, 0, -7), End: now},
		last30d: Window{Start: now.AddDate(0, 0, -30), End: now},
		last90d: Window{Start: now.AddDate(0, 0, -90), End: now},
	}

	dayStart := startOfDay(now)
	w.today = Window{Start: dayStart, End: dayStart.AddDate(0, 0, 1).Add(-time.Nanosecond)}

	for i := 13; i >= 0; i-- {
		w.days = append(w.days, startOfDay(now.AddDate(0, 0, -i)))
	}

	for week := 3; week >= 0; week-- {
		w.weeks = append(w.weeks, Window{
			Start: now.AddDate(0, 0, -(week+1)*7),
			End:   now.AddDate(0, 0, -week*7),
		})
	}

	for i := 2; i >= 0; i-- {
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		w.months = append(w.months, first.AddDate(0, -i, 0))
	}

	return w
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// dayWindow is the closed window covering the calendar day starting at
// dayStart.
func dayWindow(dayStart time.Time) Window {
	return Window{Start: dayStart, End: dayStart.AddDate(0, 0, 1).Add(-time.Nanosecond)}
}

// filterWindow selects the appointments whose start instant falls in w.
// Ordering of the result is whatever the input had; callers that need
// order sort explicitly.
func filterWindow(appts []clinic.Appointment, w Window) []clinic.Appointment {
	var out []clinic.Appointment
	for _, a := range appts {
		if w.Contains(a.StartTime) {
			out = append(out, a)
		}
	}
	return out
}

func filterStatus(appts []clinic.Appointment, statuses ...clinic.AppointmentStatus) []clinic.Appointment {
	var out []clinic.Appointment
	for _, a := range appts {
		for _, s := range statuses {
			if a.Status == s {
				out = append(out, a)
				break
			}
		}
	}
	return out
}

func countStatus(appts []clinic.Appointment, status clinic.AppointmentStatus) int {
	n := 0
	for _, a := range appts {
		if a.Status == status {
			n++
		}
	}
	return n
}
