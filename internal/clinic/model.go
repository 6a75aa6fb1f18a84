package clinic

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "SCHEDULED"
	StatusCompleted AppointmentStatus = "COMPLETED"
	StatusNoShow    AppointmentStatus = "NO_SHOW"
	StatusCancelled AppointmentStatus = "CANCELLED"
)

type AppointmentType string

const (
	TypeCheckup      AppointmentType = "CHECKUP"
	TypeFollowUp     AppointmentType = "FOLLOW_UP"
	TypeConsultation AppointmentType = "CONSULTATION"
	TypeUrgent       AppointmentType = "URGENT"
	TypeNewPatient   AppointmentType = "NEW_PATIENT"
)

// AppointmentTypes lists every type in the fixed order dashboard
// consumers rely on for slot-to-color mapping.
var AppointmentTypes = []AppointmentType{
	TypeCheckup,
	TypeFollowUp,
	TypeConsultation,
	TypeUrgent,
	TypeNewPatient,
}

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

type Patient struct {
	ID          uuid.UUID
	FirstName   string
	LastName    string
	DateOfBirth time.Time
	Gender      Gender
	Email       *string
	Phone       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Doctor struct {
	ID        uuid.UUID
	FirstName string
	LastName  string
	Specialty string
	Email     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayName is the form doctor names take everywhere on the dashboard.
func (d Doctor) DisplayName() string {
	return fmt.Sprintf("Dr. %s %s", d.FirstName, d.LastName)
}

type Appointment struct {
	ID        uuid.UUID
	PatientID uuid.UUID
	DoctorID  uuid.UUID
	StartTime time.Time
	EndTime   time.Time
	Type      AppointmentType
	Status    AppointmentStatus
	Reason    *string
	// WaitTime is minutes between arrival and being seen, recorded
	// only once an appointment is COMPLETED.
	WaitTime  *int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DoctorWorkload pairs a doctor with the appointments referencing them
// inside a caller-specified window. The relationship is derived at query
// time, never stored.
type DoctorWorkload struct {
	Doctor
	Appointments []Appointment
}
