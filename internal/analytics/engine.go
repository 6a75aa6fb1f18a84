// Package analytics computes the practice dashboard metrics. Everything
// in this package is a pure function over in-memory snapshots of the
// clinic collections; fetching those snapshots lives in Service.
package analytics

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/oakmed/clinic-ops/internal/clinic"
)

// Capacity approximation for utilization. These are assumed constants,
// not derived from any doctor's actual schedule configuration.
const (
	workingDaysPerMonth = 22
	slotsPerDay         = 8
)

var weekdayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Heatmap covers the clinic's working hours, the 10 whole-hour buckets
// from 08:00 through 17:00.
const (
	heatmapFirstHour = 8
	heatmapLastHour  = 17
)

var genderCategories = []clinic.Gender{
	clinic.GenderMale,
	clinic.GenderFemale,
	clinic.GenderOther,
}

// ageBands are fixed, non-overlapping and ordered. A max of -1 means
// unbounded. Patients younger than 18 fall outside every band; the
// clinic models an adult population only.
var ageBands = []struct {
	label string
	min   int
	max   int
}{
	{"18-30", 18, 30},
	{"31-45", 31, 45},
	{"46-60", 46, 60},
	{"61-75", 61, 75},
	{"75+", 76, -1},
}

// Inputs is one consistent snapshot of the clinic collections, fetched
// as of a single instant. The engine never mutates it.
type Inputs struct {
	Appointments []clinic.Appointment
	Patients     []clinic.Patient
	Doctors      []clinic.DoctorWorkload
}

// Compute derives the full dashboard snapshot from in, anchored to now.
// Identical inputs and an identical anchor always yield an identical
// snapshot. Empty collections produce zero-filled series, never nil or
// NaN.
func Compute(now time.Time, in Inputs) *Snapshot {
	w := resolveWindows(now)
	recent := filterWindow(in.Appointments, w.last30d)

	return &Snapshot{
		Summary:              composeSummary(w, in, recent),
		DailyTrend:           dailyTrend(w, in.Appointments),
		TypeDistribution:     typeDistribution(recent),
		HeatmapData:          heatmapData(w, in.Appointments),
		GenderDistribution:   genderDistribution(in.Patients),
		AgeDistribution:      ageDistribution(w.now, in.Patients),
		DoctorUtilization:    doctorUtilization(w, in.Doctors),
		MonthlyRegistrations: monthlyRegistrations(w, in.Patients),
		NoShowTrend:          noShowTrend(w, in.Appointments),
	}
}

func dailyTrend(w windows, appts []clinic.Appointment) []DailyTrendPoint {
	trend := make([]DailyTrendPoint, 0, len(w.days))
	for _, day := range w.days {
		bucket := filterWindow(appts, dayWindow(day))
		trend = append(trend, DailyTrendPoint{
			Date:         day.Format("Jan 02"),
			Appointments: len(bucket),
			Completed:    countStatus(bucket, clinic.StatusCompleted),
			NoShow:       countStatus(bucket, clinic.StatusNoShow),
		})
	}
	return trend
}

func typeDistribution(recent []clinic.Appointment) []TypeCount {
	dist := make([]TypeCount, 0, len(clinic.AppointmentTypes))
	for _, t := range clinic.AppointmentTypes {
		n := 0
		for _, a := range recent {
			if a.Type == t {
				n++
			}
		}
		dist = append(dist, TypeCount{
			Type:  strings.ReplaceAll(string(t), "_", " "),
			Count: n,
		})
	}
	return dist
}

func heatmapData(w windows, appts []clinic.Appointment) []HeatmapCell {
	// NO_SHOW and CANCELLED never occupied a slot, so they carry no
	// utilization signal here.
	week := filterStatus(filterWindow(appts, w.last7d),
		clinic.StatusCompleted, clinic.StatusScheduled)

	cells := make([]HeatmapCell, 0, 7*(heatmapLastHour-heatmapFirstHour+1))
	for d := 0; d < 7; d++ {
		for h := heatmapFirstHour; h <= heatmapLastHour; h++ {
			n := 0
			for _, a := range week {
				if int(a.StartTime.Weekday()) == d && a.StartTime.Hour() == h {
					n++
				}
			}
			cells = append(cells, HeatmapCell{Day: weekdayNames[d], Hour: h, Count: n})
		}
	}
	return cells
}

func genderDistribution(patients []clinic.Patient) []GenderCount {
	dist := make([]GenderCount, 0, len(genderCategories))
	for _, g := range genderCategories {
		n := 0
		for _, p := range patients {
			if p.Gender == g {
				n++
			}
		}
		label := strings.ToUpper(string(g)[:1]) + strings.ToLower(string(g)[1:])
		dist = append(dist, GenderCount{Gender: label, Count: n})
	}
	return dist
}

func ageDistribution(now time.Time, patients []clinic.Patient) []AgeBandCount {
	dist := make([]AgeBandCount, 0, len(ageBands))
	for _, band := range ageBands {
		n := 0
		for _, p := range patients {
			age := ageAt(now, p.DateOfBirth)
			if age >= band.min && (band.max < 0 || age <= band.max) {
				n++
			}
		}
		dist = append(dist, AgeBandCount{Range: band.label, Count: n})
	}
	return dist
}

// ageAt is completed years at now: calendar-year difference, minus one
// if the birthday has not occurred yet this year.
func ageAt(now, dob time.Time) int {
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() ||
		(now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age
}

func doctorUtilization(w windows, doctors []clinic.DoctorWorkload) []DoctorUtilization {
	capacity := float64(workingDaysPerMonth * slotsPerDay)

	util := make([]DoctorUtilization, 0, len(doctors))
	for _, doc := range doctors {
		appts := filterWindow(doc.Appointments, w.last30d)
		pct := float64(len(appts)) / capacity * 100
		// Overbooking can push the raw count past the assumed
		// capacity; a doctor is never reported beyond fully utilized.
		pct = math.Min(pct, 100)

		util = append(util, DoctorUtilization{
			Name:              doc.DisplayName(),
			Specialty:         doc.Specialty,
			TotalAppointments: len(appts),
			Completed:         countStatus(appts, clinic.StatusCompleted),
			Utilization:       pct,
		})
	}
	return util
}

func monthlyRegistrations(w windows, patients []clinic.Patient) []MonthCount {
	trend := make([]MonthCount, 0, len(w.months))
	for _, month := range w.months {
		n := 0
		for _, p := range patients {
			if p.CreatedAt.Year() == month.Year() && p.CreatedAt.Month() == month.Month() {
				n++
			}
		}
		trend = append(trend, MonthCount{Month: month.Format("Jan 2006"), Count: n})
	}
	return trend
}

func noShowTrend(w windows, appts []clinic.Appointment) []WeekRate {
	trend := make([]WeekRate, 0, len(w.weeks))
	for i, week := range w.weeks {
		var completed, noShows int
		for _, a := range appts {
			// Half-open on the right: the instant shared by two
			// adjacent weekly spans belongs to the newer one.
			if a.StartTime.Before(week.Start) || !a.StartTime.Before(week.End) {
				continue
			}
			switch a.Status {
			case clinic.StatusCompleted:
				completed++
			case clinic.StatusNoShow:
				noShows++
			}
		}
		trend = append(trend, WeekRate{
			Week: fmt.Sprintf("Week %d", i+1),
			Rate: attendanceRate(noShows, completed),
		})
	}
	return trend
}

func composeSummary(w windows, in Inputs, recent []clinic.Appointment) Summary {
	completed := countStatus(recent, clinic.StatusCompleted)
	noShows := countStatus(recent, clinic.StatusNoShow)

	var waitSum, waitN int
	for _, a := range recent {
		if a.Status == clinic.StatusCompleted && a.WaitTime != nil {
			waitSum += *a.WaitTime
			waitN++
		}
	}
	avgWait := 0.0
	if waitN > 0 {
		avgWait = round1(float64(waitSum) / float64(waitN))
	}

	return Summary{
		TotalPatients:     len(in.Patients),
		TotalDoctors:      len(in.Doctors),
		TotalAppointments: len(in.Appointments),
		TodayAppointments: len(filterWindow(in.Appointments, w.today)),
		CompletedCount:    completed,
		NoShowCount:       noShows,
		ScheduledCount:    countStatus(recent, clinic.StatusScheduled),
		CancelledCount:    countStatus(recent, clinic.StatusCancelled),
		NoShowRate:        attendanceRate(noShows, completed),
		AvgWaitTime:       avgWait,
	}
}

// attendanceRate is the no-show percentage over attendance-relevant
// appointments only. A zero denominator yields 0, never NaN.
func attendanceRate(noShows, completed int) float64 {
	attended := noShows + completed
	if attended == 0 {
		return 0
	}
	return round1(float64(noShows) / float64(attended) * 100)
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
