package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/oakmed/clinic-ops/internal/analytics"
	"github.com/oakmed/clinic-ops/internal/clinic"
)

// SnapshotProvider computes the dashboard snapshot. A zero anchor means
// "now" and allows the provider to serve a cached result.
type SnapshotProvider interface {
	Snapshot(ctx context.Context, now time.Time) (*analytics.Snapshot, error)
}

func analyticsHandler(svc SnapshotProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var anchor time.Time
		if at := r.URL.Query().Get("at"); at != "" {
			parsed, err := time.Parse(time.RFC3339, at)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_anchor", "at must be an RFC3339 timestamp")
				return
			}
			anchor = parsed
		}

		snap, err := svc.Snapshot(r.Context(), anchor)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "analytics_failed", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, snap)
	}
}

func listAppointmentsHandler(repo clinic.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var f clinic.AppointmentFilter
		q := r.URL.Query()

		if v := q.Get("doctor_id"); v != "" {
			id, err := uuid.Parse(v)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_doctor_id", "doctor_id must be a valid UUID")
				return
			}
			f.DoctorID = &id
		}

		if v := q.Get("status"); v != "" {
			status := clinic.AppointmentStatus(v)
			switch status {
			case clinic.StatusScheduled, clinic.StatusCompleted, clinic.StatusNoShow, clinic.StatusCancelled:
				f.Status = &status
			default:
				writeError(w, http.StatusBadRequest, "invalid_status", "unknown appointment status")
				return
			}
		}

		for param, dst := range map[string]**time.Time{"from": &f.From, "to": &f.To} {
			if v := q.Get(param); v != "" {
				t, err := time.Parse(time.RFC3339, v)
				if err != nil {
					writeError(w, http.StatusBadRequest, "invalid_"+param, param+" must be an RFC3339 timestamp")
					return
				}
				*dst = &t
			}
		}

		f.Limit = intParam(q.Get("limit"), 50)
		if f.Limit > 500 {
			f.Limit = 500
		}
		f.Offset = intParam(q.Get("offset"), 0)

		appts, err := repo.ListAppointments(r.Context(), f)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		resp := make([]AppointmentResponse, 0, len(appts))
		for _, a := range appts {
			resp = append(resp, toAppointmentResponse(a))
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func listPatientsHandler(repo clinic.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patients, err := repo.ListPatients(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		resp := make([]PatientResponse, 0, len(patients))
		for _, p := range patients {
			resp = append(resp, toPatientResponse(p))
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func listDoctorsHandler(repo clinic.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctors, err := repo.ListDoctors(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		resp := make([]DoctorResponse, 0, len(doctors))
		for _, d := range doctors {
			resp = append(resp, toDoctorResponse(d))
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func getPatientHandler(repo clinic.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_patient_id", "id must be a valid UUID")
			return
		}

		p, err := repo.GetPatientByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, clinic.ErrPatientNotFound) {
				writeError(w, http.StatusNotFound, "patient_not_found", err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, toPatientResponse(*p))
	}
}

func getDoctorHandler(repo clinic.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_doctor_id", "id must be a valid UUID")
			return
		}

		d, err := repo.GetDoctorByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, clinic.ErrDoctorNotFound) {
				writeError(w, http.StatusNotFound, "doctor_not_found", err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, toDoctorResponse(*d))
	}
}

func intParam(v string, def int) int {
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
