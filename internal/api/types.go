package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/oakmed/clinic-ops/internal/clinic"
)

type AppointmentResponse struct {
	ID        uuid.UUID `json:"id"`
	PatientID uuid.UUID `json:"patient_id"`
	DoctorID  uuid.UUID `json:"doctor_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	Reason    *string   `json:"reason,omitempty"`
	WaitTime  *int      `json:"wait_time,omitempty"`
}

type PatientResponse struct {
	ID          uuid.UUID `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	DateOfBirth time.Time `json:"date_of_birth"`
	Gender      string    `json:"gender"`
	Email       *string   `json:"email,omitempty"`
	Phone       *string   `json:"phone,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type DoctorResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Specialty string    `json:"specialty"`
	Email     *string   `json:"email,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func toAppointmentResponse(a clinic.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:        a.ID,
		PatientID: a.PatientID,
		DoctorID:  a.DoctorID,
		StartTime: a.StartTime,
		EndTime:   a.EndTime,
		Type:      string(a.Type),
		Status:    string(a.Status),
		Reason:    a.Reason,
		WaitTime:  a.WaitTime,
	}
}

func toPatientResponse(p clinic.Patient) PatientResponse {
	return PatientResponse{
		ID:          p.ID,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		DateOfBirth: p.DateOfBirth,
		Gender:      string(p.Gender),
		Email:       p.Email,
		Phone:       p.Phone,
		CreatedAt:   p.CreatedAt,
	}
}

func toDoctorResponse(d clinic.Doctor) DoctorResponse {
	return DoctorResponse{
		ID:        d.ID,
		Name:      d.DisplayName(),
		Specialty: d.Specialty,
		Email:     d.Email,
	}
}
