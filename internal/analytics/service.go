package analytics

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/oakmed/clinic-ops/internal/clinic"
)

// Cache stores serialized snapshots keyed by anchor day. A nil Cache is
// valid and disables caching. Cache failures are logged and ignored:
// the cache is an optimization, never a correctness dependency.
type Cache interface {
	GetSnapshot(ctx context.Context) (*Snapshot, error)
	SetSnapshot(ctx context.Context, snap *Snapshot) error
}

type Service struct {
	repo  clinic.Repository
	cache Cache
}

func NewService(repo clinic.Repository, cache Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// Snapshot returns the dashboard snapshot anchored to now. When now is
// the zero value the wall clock is used and a cached snapshot may be
// served; an explicit anchor always computes fresh.
func (s *Service) Snapshot(ctx context.Context, now time.Time) (*Snapshot, error) {
	useCache := now.IsZero() && s.cache != nil
	if now.IsZero() {
		now = time.Now()
	}

	if useCache {
		if snap, err := s.cache.GetSnapshot(ctx); err != nil {
			log.Printf("snapshot cache read failed, computing fresh: %v", err)
		} else if snap != nil {
			return snap, nil
		}
	}

	snap, err := s.compute(ctx, now)
	if err != nil {
		return nil, err
	}

	if useCache {
		if err := s.cache.SetSnapshot(ctx, snap); err != nil {
			log.Printf("snapshot cache write failed: %v", err)
		}
	}

	return snap, nil
}

// compute fetches the three input collections concurrently, joins, and
// runs the pure aggregation. A failure on any fetch aborts the whole
// computation; partial snapshots are never produced.
func (s *Service) compute(ctx context.Context, now time.Time) (*Snapshot, error) {
	var in Inputs

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		appts, err := s.repo.ListAppointments(gctx, clinic.AppointmentFilter{})
		if err != nil {
			return fmt.Errorf("fetch appointments: %w", err)
		}
		in.Appointments = appts
		return nil
	})

	g.Go(func() error {
		patients, err := s.repo.ListPatients(gctx)
		if err != nil {
			return fmt.Errorf("fetch patients: %w", err)
		}
		in.Patients = patients
		return nil
	})

	g.Go(func() error {
		doctors, err := s.repo.ListDoctorWorkloads(gctx, now.AddDate(0, 0, -30), now)
		if err != nil {
			return fmt.Errorf("fetch doctor workloads: %w", err)
		}
		in.Doctors = doctors
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return Compute(now, in), nil
}
