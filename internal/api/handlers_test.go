package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakmed/clinic-ops/internal/analytics"
	"github.com/oakmed/clinic-ops/internal/clinic"
)

type stubAnalytics struct {
	snap   *analytics.Snapshot
	err    error
	anchor time.Time
}

func (s *stubAnalytics) Snapshot(ctx context.Context, now time.Time) (*analytics.Snapshot, error) {
	s.anchor = now
	if s.err != nil {
		return nil, s.err
	}
	return s.snap, nil
}

type stubRepo struct {
	appointments []clinic.Appointment
	patients     []clinic.Patient
	doctors      []clinic.Doctor
	err          error
	lastFilter   clinic.AppointmentFilter
}

func (r *stubRepo) ListAppointments(ctx context.Context, f clinic.AppointmentFilter) ([]clinic.Appointment, error) {
	r.lastFilter = f
	return r.appointments, r.err
}

func (r *stubRepo) ListPatients(ctx context.Context) ([]clinic.Patient, error) {
	return r.patients, r.err
}

func (r *stubRepo) ListDoctors(ctx context.Context) ([]clinic.Doctor, error) {
	return r.doctors, r.err
}

func (r *stubRepo) GetPatientByID(ctx context.Context, id uuid.UUID) (*clinic.Patient, error) {
	for i := range r.patients {
		if r.patients[i].ID == id {
			return &r.patients[i], nil
		}
	}
	return nil, clinic.ErrPatientNotFound
}

func (r *stubRepo) GetDoctorByID(ctx context.Context, id uuid.UUID) (*clinic.Doctor, error) {
	for i := range r.doctors {
		if r.doctors[i].ID == id {
			return &r.doctors[i], nil
		}
	}
	return nil, clinic.ErrDoctorNotFound
}

func (r *stubRepo) ListDoctorWorkloads(ctx context.Context, from, to time.Time) ([]clinic.DoctorWorkload, error) {
	return nil, r.err
}

func newTestRouter(svc SnapshotProvider, repo clinic.Repository) http.Handler {
	return NewRouter(RouterConfig{
		Analytics: svc,
		Repo:      repo,
		Env:       "test",
		Version:   "test",
	})
}

func TestAnalyticsHandler(t *testing.T) {
	svc := &stubAnalytics{snap: &analytics.Snapshot{
		Summary: analytics.Summary{TotalPatients: 7},
	}}
	router := newTestRouter(svc, &stubRepo{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/analytics", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "summary")
	assert.Contains(t, body, "heatmapData")

	// No anchor param: the provider decides (and may serve cache).
	assert.True(t, svc.anchor.IsZero())
}

func TestAnalyticsHandlerAnchorParam(t *testing.T) {
	svc := &stubAnalytics{snap: &analytics.Snapshot{}}
	router := newTestRouter(svc, &stubRepo{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/analytics?at=2025-06-18T12:00:00Z", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC), svc.anchor)
}

func TestAnalyticsHandlerInvalidAnchor(t *testing.T) {
	router := newTestRouter(&stubAnalytics{}, &stubRepo{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/analytics?at=yesterday", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "invalid_anchor", resp.Error)
}

func TestAnalyticsHandlerUpstreamFailure(t *testing.T) {
	svc := &stubAnalytics{err: errors.New("fetch appointments: connection refused")}
	router := newTestRouter(svc, &stubRepo{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/analytics", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "analytics_failed", resp.Error)
}

func TestListAppointmentsFilterParsing(t *testing.T) {
	repo := &stubRepo{}
	router := newTestRouter(&stubAnalytics{}, repo)

	doctorID := uuid.New()
	url := "/appointments?doctor_id=" + doctorID.String() +
		"&status=COMPLETED&from=2025-06-01T00:00:00Z&to=2025-06-18T00:00:00Z&limit=10&offset=5"

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))

	require.Equal(t, http.StatusOK, rec.Code)

	f := repo.lastFilter
	require.NotNil(t, f.DoctorID)
	assert.Equal(t, doctorID, *f.DoctorID)
	require.NotNil(t, f.Status)
	assert.Equal(t, clinic.StatusCompleted, *f.Status)
	require.NotNil(t, f.From)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), *f.From)
	assert.Equal(t, 10, f.Limit)
	assert.Equal(t, 5, f.Offset)
}

func TestListAppointmentsRejectsBadParams(t *testing.T) {
	router := newTestRouter(&stubAnalytics{}, &stubRepo{})

	cases := []struct {
		name string
		url  string
		code string
	}{
		{"bad doctor id", "/appointments?doctor_id=nope", "invalid_doctor_id"},
		{"bad status", "/appointments?status=PENDING", "invalid_status"},
		{"bad from", "/appointments?from=june", "invalid_from"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.url, nil))

			require.Equal(t, http.StatusBadRequest, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tc.code, resp.Error)
		})
	}
}

func TestListAppointmentsEmptyIsJSONArray(t *testing.T) {
	router := newTestRouter(&stubAnalytics{}, &stubRepo{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/appointments", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestListDoctorsRendersDisplayName(t *testing.T) {
	repo := &stubRepo{doctors: []clinic.Doctor{
		{ID: uuid.New(), FirstName: "Ada", LastName: "Nwosu", Specialty: "Cardiology"},
	}}
	router := newTestRouter(&stubAnalytics{}, repo)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/doctors", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp []DoctorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "Dr. Ada Nwosu", resp[0].Name)
}

func TestGetPatientByID(t *testing.T) {
	patient := clinic.Patient{ID: uuid.New(), FirstName: "June", LastName: "Park", Gender: clinic.GenderFemale}
	router := newTestRouter(&stubAnalytics{}, &stubRepo{patients: []clinic.Patient{patient}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/patients/"+patient.ID.String(), nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp PatientResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, patient.ID, resp.ID)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/patients/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequestIDMiddleware(t *testing.T) {
	router := newTestRouter(&stubAnalytics{snap: &analytics.Snapshot{}}, &stubRepo{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/analytics", nil))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/analytics", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	router.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}
