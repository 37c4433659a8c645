package service

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-registry-api/internal/models"
)

type seatAllocator interface {
	AllocateNext(ctx context.Context, courseCode string) (models.AllocationResult, error)
}

// AllocationSweeper periodically drives the admission engine: the engine
// itself never schedules work, so a timer walks the catalog and fills free
// seats from the waitlists. Skipped students get reconsidered on every
// sweep until they clear or capacity runs out.
type AllocationSweeper struct {
	catalog  catalogReader
	engine   seatAllocator
	schedule string
	cron     *cron.Cron
	logger   *zap.Logger
}

// NewAllocationSweeper constructs AllocationSweeper.
func NewAllocationSweeper(catalog catalogReader, engine seatAllocator, schedule string, logger *zap.Logger) *AllocationSweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AllocationSweeper{catalog: catalog, engine: engine, schedule: schedule, logger: logger}
}

// Start schedules the sweep.
func (s *AllocationSweeper) Start() error {
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.schedule, s.Sweep); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Sugar().Infow("allocation sweep scheduled", "schedule", s.schedule)
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *AllocationSweeper) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}

// Sweep runs one allocation pass over every course with a free seat,
// granting until the course fills, the queue empties, or only fee-blocked
// students remain.
func (s *AllocationSweeper) Sweep() {
	ctx := context.Background()
	for _, course := range s.catalog.List(ctx) {
		if course.EnrolledCount >= course.Capacity {
			continue
		}
		for {
			result, err := s.engine.AllocateNext(ctx, course.Code)
			if err != nil {
				s.logger.Warn("sweep allocation failed",
					zap.String("course", course.Code),
					zap.Error(err),
				)
				break
			}
			if result.Status != models.AllocationGranted {
				break
			}
		}
	}
}
