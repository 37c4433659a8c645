package service

import (
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-registry-api/internal/models"
	"github.com/noah-isme/campus-registry-api/internal/repository"
)

// Persister saves registry state after a successful mutation. Services treat
// persistence as best-effort: a failed save is logged, never surfaced.
type Persister interface {
	Persist() error
}

// SnapshotService writes the JSON-backed registry files and restores them on
// startup. Waitlist state is saved alongside the catalog so the admission
// engine recovers across restarts.
type SnapshotService struct {
	dir     string
	enabled bool
	logger  *zap.Logger

	courses     *repository.CourseRepository
	students    *repository.StudentRepository
	fees        *repository.FeeRepository
	library     *repository.LibraryRepository
	performance *repository.PerformanceRepository

	mu        sync.Mutex
	admission *AdmissionService
}

// NewSnapshotService constructs SnapshotService.
func NewSnapshotService(dir string, enabled bool, courses *repository.CourseRepository, students *repository.StudentRepository, fees *repository.FeeRepository, library *repository.LibraryRepository, performance *repository.PerformanceRepository, logger *zap.Logger) *SnapshotService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotService{
		dir:         dir,
		enabled:     enabled,
		logger:      logger,
		courses:     courses,
		students:    students,
		fees:        fees,
		library:     library,
		performance: performance,
	}
}

// SetAdmission attaches the admission engine once constructed. The engine
// takes this service as its Persister, so wiring happens in two steps.
func (s *SnapshotService) SetAdmission(admission *AdmissionService) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.admission = admission
}

// Load restores every store from the data dir. Missing files start empty.
func (s *SnapshotService) Load() error {
	courses, waitlists, err := repository.LoadCourseData(s.dir)
	if err != nil {
		return err
	}
	s.courses.Restore(courses)

	students, err := repository.LoadStudentData(s.dir)
	if err != nil {
		return err
	}
	s.students.Restore(students)

	payments, err := repository.LoadFeeData(s.dir)
	if err != nil {
		return err
	}
	s.fees.Restore(payments)

	books, loans, err := repository.LoadLibraryData(s.dir)
	if err != nil {
		return err
	}
	s.library.Restore(books, loans)

	records, err := repository.LoadPerformanceData(s.dir)
	if err != nil {
		return err
	}
	s.performance.Restore(records)

	s.mu.Lock()
	admission := s.admission
	s.mu.Unlock()
	if admission != nil {
		admission.Restore(waitlists)
	}

	s.logger.Info("registry snapshot loaded",
		zap.String("dir", s.dir),
		zap.Int("courses", len(courses)),
		zap.Int("students", len(students)),
	)
	return nil
}

// Persist writes every store to the data dir. Serialized so concurrent
// mutations do not interleave partial writes.
func (s *SnapshotService) Persist() error {
	if s == nil || !s.enabled {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var waitlists []models.WaitlistSnapshot
	if s.admission != nil {
		waitlists = s.admission.Snapshot()
	}
	if err := repository.SaveCourseData(s.dir, s.courses.Snapshot(), waitlists); err != nil {
		return err
	}
	if err := repository.SaveStudentData(s.dir, s.students.Snapshot()); err != nil {
		return err
	}
	if err := repository.SaveFeeData(s.dir, s.fees.Snapshot()); err != nil {
		return err
	}
	books, loans := s.library.Snapshot()
	return repository.SaveLibraryData(s.dir, books, loans)
}
