package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-registry-api/internal/models"
	appErrors "github.com/noah-isme/campus-registry-api/pkg/errors"
	"github.com/noah-isme/campus-registry-api/pkg/export"
	"github.com/noah-isme/campus-registry-api/pkg/jobs"
	"github.com/noah-isme/campus-registry-api/pkg/storage"
)

// CreateReportRequest describes an export submission.
type CreateReportRequest struct {
	Type       string `json:"type" validate:"required,oneof=waitlist occupancy"`
	CourseCode string `json:"courseCode"`
	Format     string `json:"format" validate:"required,oneof=csv pdf"`
}

// ReportService renders registry exports asynchronously through the worker
// queue and keeps track of job state.
type ReportService struct {
	catalog   catalogReader
	waitlists waitlistReader
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	store     *storage.LocalStorage
	validator *validator.Validate
	logger    *zap.Logger

	queue      *jobs.Queue
	retention  time.Duration
	mu         sync.Mutex
	reports    map[string]*models.Report
}

// NewReportService constructs ReportService and its worker queue.
func NewReportService(catalog catalogReader, waitlists waitlistReader, store *storage.LocalStorage, workers, retries int, retention time.Duration, validate *validator.Validate, logger *zap.Logger) *ReportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if retention <= 0 {
		retention = 24 * time.Hour
	}
	s := &ReportService{
		catalog:   catalog,
		waitlists: waitlists,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		store:     store,
		validator: validate,
		logger:    logger,
		retention: retention,
		reports:   make(map[string]*models.Report),
	}
	s.queue = jobs.NewQueue("reports", s.process, jobs.QueueConfig{
		Workers:    workers,
		MaxRetries: retries,
		Logger:     logger,
	})
	return s
}

// Start brings up the report workers.
func (s *ReportService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the report workers.
func (s *ReportService) Stop() {
	s.queue.Stop()
}

// Enqueue accepts an export request and schedules rendering.
func (s *ReportService) Enqueue(ctx context.Context, req CreateReportRequest) (models.Report, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Report{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid report payload")
	}
	if req.Type == models.ReportTypeWaitlist {
		if req.CourseCode == "" {
			return models.Report{}, appErrors.Clone(appErrors.ErrValidation, "waitlist report requires courseCode")
		}
		if _, err := s.waitlists.PeekWaitlist(ctx, req.CourseCode); err != nil {
			return models.Report{}, err
		}
	}

	report := &models.Report{
		ID:          uuid.NewString(),
		Type:        req.Type,
		CourseCode:  req.CourseCode,
		Format:      req.Format,
		Status:      models.ReportStatusQueued,
		RequestedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	s.reports[report.ID] = report
	s.mu.Unlock()

	if err := s.queue.Enqueue(jobs.Job{ID: report.ID, Type: req.Type}); err != nil {
		s.mu.Lock()
		delete(s.reports, report.ID)
		s.mu.Unlock()
		return models.Report{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue report")
	}
	return *report, nil
}

// Get returns the current state of an export job.
func (s *ReportService) Get(ctx context.Context, id string) (models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	report, ok := s.reports[id]
	if !ok {
		return models.Report{}, appErrors.Clone(appErrors.ErrNotFound, "report not found")
	}
	return *report, nil
}

// Cleanup deletes export files older than the retention window.
func (s *ReportService) Cleanup() {
	deleted, err := s.store.CleanupOlderThan(s.retention)
	if err != nil {
		s.logger.Warn("report cleanup failed", zap.Error(err))
		return
	}
	if len(deleted) > 0 {
		s.logger.Info("report files cleaned up", zap.Int("deleted", len(deleted)))
	}
}

func (s *ReportService) process(ctx context.Context, job jobs.Job) error {
	s.mu.Lock()
	report, ok := s.reports[job.ID]
	s.mu.Unlock()
	if !ok {
		return nil
	}

	dataset, title, err := s.buildDataset(ctx, report)
	if err != nil {
		s.fail(report, err)
		return err
	}

	var payload []byte
	switch report.Format {
	case models.ReportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
	default:
		payload, err = s.csv.Render(dataset)
	}
	if err != nil {
		s.fail(report, err)
		return err
	}

	filename := fmt.Sprintf("%s-%s.%s", report.Type, report.ID, report.Format)
	if _, err := s.store.Save(filename, payload); err != nil {
		s.fail(report, err)
		return err
	}

	now := time.Now().UTC()
	s.mu.Lock()
	report.Status = models.ReportStatusCompleted
	report.File = filename
	report.CompletedAt = &now
	s.mu.Unlock()

	s.logger.Info("report rendered",
		zap.String("report", report.ID),
		zap.String("type", report.Type),
		zap.String("file", filename),
	)
	return nil
}

func (s *ReportService) buildDataset(ctx context.Context, report *models.Report) (export.Dataset, string, error) {
	switch report.Type {
	case models.ReportTypeWaitlist:
		entries, err := s.waitlists.PeekWaitlist(ctx, report.CourseCode)
		if err != nil {
			return export.Dataset{}, "", err
		}
		dataset := export.Dataset{Headers: []string{"position", "studentId", "status"}}
		for _, entry := range entries {
			dataset.Rows = append(dataset.Rows, map[string]string{
				"position":  strconv.Itoa(entry.Position),
				"studentId": entry.StudentID,
				"status":    string(entry.Status),
			})
		}
		return dataset, "waitlist " + report.CourseCode, nil
	default:
		dataset := export.Dataset{Headers: []string{"code", "title", "capacity", "enrolled"}}
		for _, course := range s.catalog.List(ctx) {
			dataset.Rows = append(dataset.Rows, map[string]string{
				"code":     course.Code,
				"title":    course.Title,
				"capacity": strconv.Itoa(course.Capacity),
				"enrolled": strconv.Itoa(course.EnrolledCount),
			})
		}
		return dataset, "course occupancy", nil
	}
}

func (s *ReportService) fail(report *models.Report, err error) {
	now := time.Now().UTC()
	s.mu.Lock()
	report.Status = models.ReportStatusFailed
	report.Error = err.Error()
	report.CompletedAt = &now
	s.mu.Unlock()
}
