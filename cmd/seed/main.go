package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oakmed/clinic-ops/internal/clinic"
	"github.com/oakmed/clinic-ops/internal/db"
)

const schema = `
CREATE TABLE IF NOT EXISTS doctors (
	id         UUID PRIMARY KEY,
	first_name TEXT NOT NULL,
	last_name  TEXT NOT NULL,
	specialty  TEXT NOT NULL,
	email      TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS patients (
	id            UUID PRIMARY KEY,
	first_name    TEXT NOT NULL,
	last_name     TEXT NOT NULL,
	date_of_birth DATE NOT NULL,
	gender        TEXT NOT NULL,
	email         TEXT,
	phone         TEXT,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS appointments (
	id         UUID PRIMARY KEY,
	patient_id UUID NOT NULL REFERENCES patients(id),
	doctor_id  UUID NOT NULL REFERENCES doctors(id),
	start_time TIMESTAMPTZ NOT NULL,
	end_time   TIMESTAMPTZ NOT NULL,
	type       TEXT NOT NULL,
	status     TEXT NOT NULL,
	reason     TEXT,
	wait_time  INT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	CHECK (end_time > start_time)
);

CREATE INDEX IF NOT EXISTS idx_appointments_start_time ON appointments (start_time);
CREATE INDEX IF NOT EXISTS idx_appointments_doctor ON appointments (doctor_id, start_time);
`

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	if _, err := pool.Exec(context.Background(), schema); err != nil {
		log.Fatalf("apply schema: %v", err)
	}
	log.Println("schema applied")

	gofakeit.Seed(time.Now().UnixNano())

	doctors, err := seedDoctors(context.Background(), pool, 12)
	if err != nil {
		log.Fatalf("seed doctors: %v", err)
	}
	patients, err := seedPatients(context.Background(), pool, 800)
	if err != nil {
		log.Fatalf("seed patients: %v", err)
	}
	if err := seedAppointments(context.Background(), pool, doctors, patients, 3000); err != nil {
		log.Fatalf("seed appointments: %v", err)
	}

	log.Println("seed complete")
}

func seedDoctors(ctx context.Context, pool *pgxpool.Pool, count int) ([]uuid.UUID, error) {
	log.Printf("seeding %d doctors", count)

	specialties := []string{
		"Dermatology",
		"Cardiology",
		"General Practice",
		"Orthopedics",
		"Endocrinology",
		"Neurology",
		"Psychiatry",
		"Ophthalmology",
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ids := make([]uuid.UUID, 0, count)
	for i := 0; i < count; i++ {
		id := uuid.New()
		spec := specialties[gofakeit.Number(0, len(specialties)-1)]

		_, err := tx.Exec(ctx, `
			INSERT INTO doctors (id, first_name, last_name, specialty, email, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, now(), now())
		`, id, gofakeit.FirstName(), gofakeit.LastName(), spec, gofakeit.Email())
		if err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	log.Println("doctors seeded")
	return ids, nil
}

func seedPatients(ctx context.Context, pool *pgxpool.Pool, count int) ([]uuid.UUID, error) {
	log.Printf("seeding %d patients", count)

	genders := []clinic.Gender{clinic.GenderMale, clinic.GenderFemale, clinic.GenderOther}
	now := time.Now()

	const batchSize = 200
	ids := make([]uuid.UUID, 0, count)

	for offset := 0; offset < count; offset += batchSize {
		end := offset + batchSize
		if end > count {
			end = count
		}

		tx, err := pool.Begin(ctx)
		if err != nil {
			return nil, err
		}

		for i := offset; i < end; i++ {
			id := uuid.New()
			dob := gofakeit.DateRange(now.AddDate(-90, 0, 0), now.AddDate(-18, 0, 0))
			// Registrations spread over the last half year so the
			// monthly trend has shape.
			registered := gofakeit.DateRange(now.AddDate(0, -6, 0), now)
			gender := genders[gofakeit.Number(0, len(genders)-1)]

			_, err := tx.Exec(ctx, `
				INSERT INTO patients (id, first_name, last_name, date_of_birth, gender, email, phone, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
			`, id, gofakeit.FirstName(), gofakeit.LastName(), dob, gender, gofakeit.Email(), gofakeit.Phone(), registered)
			if err != nil {
				_ = tx.Rollback(ctx)
				return nil, err
			}

			ids = append(ids, id)
		}

		if err := tx.Commit(ctx); err != nil {
			return nil, err
		}
	}

	log.Println("patients seeded")
	return ids, nil
}

func seedAppointments(ctx context.Context, pool *pgxpool.Pool, doctors, patients []uuid.UUID, count int) error {
	log.Printf("seeding %d appointments", count)

	now := time.Now()
	reasons := []string{
		"Annual physical",
		"Back pain",
		"Medication review",
		"Skin rash",
		"Headaches",
		"Blood pressure check",
		"",
	}

	const batchSize = 200

	for offset := 0; offset < count; offset += batchSize {
		end := offset + batchSize
		if end > count {
			end = count
		}

		tx, err := pool.Begin(ctx)
		if err != nil {
			return err
		}

		for i := offset; i < end; i++ {
			id := uuid.New()
			patientID := patients[gofakeit.Number(0, len(patients)-1)]
			doctorID := doctors[gofakeit.Number(0, len(doctors)-1)]

			// Clinic hours, spread over the last 90 days plus a
			// small scheduled tail into next week.
			day := gofakeit.Number(-90, 7)
			hour := gofakeit.Number(8, 16)
			start := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location()).AddDate(0, 0, day)
			duration := time.Duration(gofakeit.Number(1, 2)) * 30 * time.Minute

			status := pickStatus(start, now)
			apptType := clinic.AppointmentTypes[gofakeit.Number(0, len(clinic.AppointmentTypes)-1)]

			var waitTime *int
			if status == clinic.StatusCompleted {
				wt := gofakeit.Number(0, 45)
				waitTime = &wt
			}

			var reason *string
			if r := reasons[gofakeit.Number(0, len(reasons)-1)]; r != "" {
				reason = &r
			}

			_, err := tx.Exec(ctx, `
				INSERT INTO appointments (id, patient_id, doctor_id, start_time, end_time, type, status, reason, wait_time, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
			`, id, patientID, doctorID, start, start.Add(duration), apptType, status, reason, waitTime)
			if err != nil {
				_ = tx.Rollback(ctx)
				return err
			}
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}
	}

	log.Println("appointments seeded")
	return nil
}

// pickStatus weights statuses the way a real book looks: future
// appointments are scheduled, past ones mostly completed with a tail of
// no-shows and cancellations.
func pickStatus(start, now time.Time) clinic.AppointmentStatus {
	if start.After(now) {
		if gofakeit.Number(0, 9) == 0 {
			return clinic.StatusCancelled
		}
		return clinic.StatusScheduled
	}

	switch n := gofakeit.Number(0, 99); {
	case n < 75:
		return clinic.StatusCompleted
	case n < 88:
		return clinic.StatusNoShow
	default:
		return clinic.StatusCancelled
	}
}
