package clinic

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrPatientNotFound = errors.New("patient not found")
	ErrDoctorNotFound  = errors.New("doctor not found")
)

// AppointmentFilter narrows ListAppointments. Zero values mean "no
// constraint"; From/To select on the start instant with a closed interval.
type AppointmentFilter struct {
	From     *time.Time
	To       *time.Time
	DoctorID *uuid.UUID
	Status   *AppointmentStatus
	Limit    int
	Offset   int
}

// Repository contains all DB interactions the API and the analytics
// engine need. The analytics service only ever reads: it fetches full
// collections once per computation and never writes.
type Repository interface {
	ListAppointments(ctx context.Context, f AppointmentFilter) ([]Appointment, error)
	ListPatients(ctx context.Context) ([]Patient, error)
	ListDoctors(ctx context.Context) ([]Doctor, error)

	GetPatientByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	GetDoctorByID(ctx context.Context, id uuid.UUID) (*Doctor, error)

	// ListDoctorWorkloads returns every doctor together with their
	// appointments whose start instant falls in [from, to].
	ListDoctorWorkloads(ctx context.Context, from, to time.Time) ([]DoctorWorkload, error)
}
