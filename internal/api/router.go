package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/oakmed/clinic-ops/internal/clinic"
)

type RouterConfig struct {
	Analytics SnapshotProvider
	Repo      clinic.Repository
	PgPool    *pgxpool.Pool
	Redis     *redis.Client
	Env       string
	Version   string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Apply middleware
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)

	// Health endpoints
	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	// Dashboard endpoints. All read-only; record mutation belongs to a
	// different service.
	r.Get("/analytics", analyticsHandler(cfg.Analytics))
	r.Get("/appointments", listAppointmentsHandler(cfg.Repo))
	r.Get("/patients", listPatientsHandler(cfg.Repo))
	r.Get("/patients/{id}", getPatientHandler(cfg.Repo))
	r.Get("/doctors", listDoctorsHandler(cfg.Repo))
	r.Get("/doctors/{id}", getDoctorHandler(cfg.Repo))

	return r
}
