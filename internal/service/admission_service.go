package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-registry-api/internal/models"
	appErrors "github.com/noah-isme/campus-registry-api/pkg/errors"
)

type courseCatalog interface {
	Find(ctx context.Context, code string) (models.Course, error)
	HasFreeSeat(ctx context.Context, code string) (bool, error)
	IncrementOccupancy(ctx context.Context, code string) error
}

type studentDirectory interface {
	Exists(ctx context.Context, id string) bool
}

type feeLedger interface {
	IsCleared(ctx context.Context, studentID string) (bool, error)
}

type allocationRecorder interface {
	Record(ctx context.Context, entry models.AllocationAudit) error
}

// SubmitResult describes a queued enrollment request.
type SubmitResult struct {
	Status   string `json:"status"`
	Position int    `json:"position"`
}

// AdmissionService owns the per-course waitlists and the allocation
// algorithm that promotes waitlisted students into seats. All mutating
// operations for one course run under that course's lock; different courses
// proceed in parallel.
type AdmissionService struct {
	catalog  courseCatalog
	students studentDirectory
	ledger   feeLedger
	audit    allocationRecorder
	metrics  *MetricsService
	persist  Persister
	logger   *zap.Logger

	mu        sync.Mutex
	waitlists map[string]*courseWaitlist
}

// courseWaitlist holds one course's queue. Entries are PENDING or SKIPPED
// only: GRANTED and REJECTED requests leave the queue. seq is the monotonic
// submission counter used for FIFO ordering.
type courseWaitlist struct {
	mu       sync.Mutex
	seq      uint64
	requests []*models.EnrollmentRequest
}

// NewAdmissionService constructs the admission engine. audit and persist may
// be nil.
func NewAdmissionService(catalog courseCatalog, students studentDirectory, ledger feeLedger, audit allocationRecorder, metrics *MetricsService, persist Persister, logger *zap.Logger) *AdmissionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdmissionService{
		catalog:   catalog,
		students:  students,
		ledger:    ledger,
		audit:     audit,
		metrics:   metrics,
		persist:   persist,
		logger:    logger,
		waitlists: make(map[string]*courseWaitlist),
	}
}

// waitlist returns the course's queue, creating it lazily. The global lock
// covers only the creation step so unrelated courses never serialize.
func (s *AdmissionService) waitlist(code string) *courseWaitlist {
	s.mu.Lock()
	defer s.mu.Unlock()
	wl, ok := s.waitlists[code]
	if !ok {
		wl = &courseWaitlist{}
		s.waitlists[code] = wl
	}
	return wl
}

// Submit validates and appends a PENDING request to the tail of the course's
// waitlist. It never touches catalog occupancy.
func (s *AdmissionService) Submit(ctx context.Context, courseCode, studentID string) (SubmitResult, error) {
	if _, err := s.catalog.Find(ctx, courseCode); err != nil {
		return SubmitResult{}, err
	}
	if !s.students.Exists(ctx, studentID) {
		return SubmitResult{}, appErrors.ErrStudentNotFound
	}

	wl := s.waitlist(courseCode)
	wl.mu.Lock()
	for _, req := range wl.requests {
		if req.StudentID == studentID {
			wl.mu.Unlock()
			return SubmitResult{}, appErrors.ErrDuplicateRequest
		}
	}

	wl.seq++
	wl.requests = append(wl.requests, &models.EnrollmentRequest{
		CourseCode: courseCode,
		StudentID:  studentID,
		Status:     models.RequestStatusPending,
		Sequence:   wl.seq,
	})
	position := len(wl.requests)
	wl.mu.Unlock()

	if s.metrics != nil {
		s.metrics.SetWaitlistDepth(courseCode, position)
	}
	s.logger.Info("enrollment queued",
		zap.String("course", courseCode),
		zap.String("student", studentID),
		zap.Int("position", position),
	)
	s.requestPersist()

	return SubmitResult{Status: "queued", Position: position}, nil
}

// AllocateNext runs one allocation attempt for the course: it finds the
// first eligible waitlisted student, re-checks fee clearance, and either
// grants the seat or skips the student. A ledger outage leaves the queue
// untouched so the attempt can be retried.
func (s *AdmissionService) AllocateNext(ctx context.Context, courseCode string) (models.AllocationResult, error) {
	if _, err := s.catalog.Find(ctx, courseCode); err != nil {
		return models.AllocationResult{}, err
	}

	wl := s.waitlist(courseCode)
	wl.mu.Lock()
	result, err := s.allocateLocked(ctx, courseCode, wl)
	wl.mu.Unlock()
	if err != nil {
		return models.AllocationResult{}, err
	}

	if s.metrics != nil {
		s.metrics.ObserveAllocation(courseCode, result.Status)
	}
	if result.Status == models.AllocationGranted || result.Status == models.AllocationFeeNotCleared {
		s.recordAudit(ctx, courseCode, result.StudentID, result.Status)
		s.requestPersist()
	}
	return result, nil
}

func (s *AdmissionService) allocateLocked(ctx context.Context, courseCode string, wl *courseWaitlist) (models.AllocationResult, error) {
	free, err := s.catalog.HasFreeSeat(ctx, courseCode)
	if err != nil {
		return models.AllocationResult{}, err
	}
	if !free {
		return models.AllocationResult{Status: models.AllocationCourseFull}, nil
	}

	idx := -1
	for i, req := range wl.requests {
		if req.Status == models.RequestStatusPending || req.Status == models.RequestStatusSkipped {
			idx = i
			break
		}
	}
	if idx == -1 {
		return models.AllocationResult{Status: models.AllocationEmpty}, nil
	}
	req := wl.requests[idx]

	start := time.Now()
	cleared, err := s.ledger.IsCleared(ctx, req.StudentID)
	if s.metrics != nil {
		s.metrics.ObserveLedgerCheck(time.Since(start))
	}
	if err != nil {
		// Request stays as-is so the next call reconsiders it.
		return models.AllocationResult{}, appErrors.Wrap(err, appErrors.ErrLedgerUnavailable.Code, appErrors.ErrLedgerUnavailable.Status, "fee clearance check failed")
	}

	if !cleared {
		req.Status = models.RequestStatusSkipped
		s.logger.Info("allocation skipped, fee not cleared",
			zap.String("course", courseCode),
			zap.String("student", req.StudentID),
		)
		return models.AllocationResult{Status: models.AllocationFeeNotCleared, StudentID: req.StudentID}, nil
	}

	req.Status = models.RequestStatusGranted
	wl.requests = append(wl.requests[:idx], wl.requests[idx+1:]...)

	if err := s.catalog.IncrementOccupancy(ctx, courseCode); err != nil {
		if appErrors.Is(err, appErrors.ErrCourseFull) {
			// Lost the seat to a concurrent allocation: undo the grant and
			// put the request back at its original relative position.
			req.Status = models.RequestStatusPending
			wl.requests = append(wl.requests[:idx], append([]*models.EnrollmentRequest{req}, wl.requests[idx:]...)...)
			return models.AllocationResult{Status: models.AllocationCourseFull}, nil
		}
		return models.AllocationResult{}, err
	}

	if s.metrics != nil {
		s.metrics.RecordSeatGranted()
		s.metrics.SetWaitlistDepth(courseCode, len(wl.requests))
	}
	s.logger.Info("seat granted",
		zap.String("course", courseCode),
		zap.String("student", req.StudentID),
	)
	return models.AllocationResult{Status: models.AllocationGranted, StudentID: req.StudentID, Course: courseCode}, nil
}

// PeekWaitlist returns the ordered PENDING/SKIPPED requests with 1-based
// positions. Read-only.
func (s *AdmissionService) PeekWaitlist(ctx context.Context, courseCode string) ([]models.WaitlistEntry, error) {
	if _, err := s.catalog.Find(ctx, courseCode); err != nil {
		return nil, err
	}

	wl := s.waitlist(courseCode)
	wl.mu.Lock()
	defer wl.mu.Unlock()

	entries := make([]models.WaitlistEntry, 0, len(wl.requests))
	for i, req := range wl.requests {
		entries = append(entries, models.WaitlistEntry{
			StudentID: req.StudentID,
			Status:    req.Status,
			Position:  i + 1,
		})
	}
	return entries, nil
}

// Reject is the administrative cancellation path: it removes a PENDING or
// SKIPPED request and marks it REJECTED. Granted requests are never touched.
func (s *AdmissionService) Reject(ctx context.Context, courseCode, studentID string) error {
	if _, err := s.catalog.Find(ctx, courseCode); err != nil {
		return err
	}

	wl := s.waitlist(courseCode)
	wl.mu.Lock()
	found := false
	depth := 0
	for i, req := range wl.requests {
		if req.StudentID == studentID {
			req.Status = models.RequestStatusRejected
			wl.requests = append(wl.requests[:i], wl.requests[i+1:]...)
			found = true
			depth = len(wl.requests)
			break
		}
	}
	wl.mu.Unlock()

	if !found {
		return appErrors.Clone(appErrors.ErrNotFound, "no queued request for student")
	}
	if s.metrics != nil {
		s.metrics.SetWaitlistDepth(courseCode, depth)
	}
	s.recordAudit(ctx, courseCode, studentID, "rejected")
	s.requestPersist()
	return nil
}

// Snapshot returns the serializable waitlist state of every course.
func (s *AdmissionService) Snapshot() []models.WaitlistSnapshot {
	s.mu.Lock()
	codes := make([]string, 0, len(s.waitlists))
	lists := make([]*courseWaitlist, 0, len(s.waitlists))
	for code, wl := range s.waitlists {
		codes = append(codes, code)
		lists = append(lists, wl)
	}
	s.mu.Unlock()

	snapshots := make([]models.WaitlistSnapshot, 0, len(lists))
	for i, wl := range lists {
		wl.mu.Lock()
		snap := models.WaitlistSnapshot{CourseCode: codes[i], Sequence: wl.seq}
		for _, req := range wl.requests {
			snap.Requests = append(snap.Requests, *req)
		}
		wl.mu.Unlock()
		snapshots = append(snapshots, snap)
	}
	return snapshots
}

// Restore rebuilds waitlists from persisted snapshots. Requests in terminal
// states are dropped; they only appear in snapshots written by older builds.
func (s *AdmissionService) Restore(snapshots []models.WaitlistSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.waitlists = make(map[string]*courseWaitlist, len(snapshots))
	for _, snap := range snapshots {
		wl := &courseWaitlist{seq: snap.Sequence}
		for _, req := range snap.Requests {
			if req.Status != models.RequestStatusPending && req.Status != models.RequestStatusSkipped {
				continue
			}
			r := req
			wl.requests = append(wl.requests, &r)
			if r.Sequence > wl.seq {
				wl.seq = r.Sequence
			}
		}
		s.waitlists[snap.CourseCode] = wl
	}
}

func (s *AdmissionService) recordAudit(ctx context.Context, courseCode, studentID, outcome string) {
	if s.audit == nil {
		return
	}
	entry := models.AllocationAudit{
		ID:         uuid.NewString(),
		CourseCode: courseCode,
		StudentID:  studentID,
		Outcome:    outcome,
		RecordedAt: time.Now().UTC(),
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		s.logger.Warn("allocation audit write failed",
			zap.String("course", courseCode),
			zap.String("student", studentID),
			zap.Error(err),
		)
	}
}

func (s *AdmissionService) requestPersist() {
	if s.persist == nil {
		return
	}
	if err := s.persist.Persist(); err != nil {
		s.logger.Warn("snapshot persist failed", zap.Error(err))
	}
}
