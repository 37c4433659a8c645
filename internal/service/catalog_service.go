package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-registry-api/internal/models"
	appErrors "github.com/noah-isme/campus-registry-api/pkg/errors"
)

type courseStore interface {
	Create(ctx context.Context, course models.Course) error
	Find(ctx context.Context, code string) (models.Course, error)
	List(ctx context.Context) []models.Course
	HasFreeSeat(ctx context.Context, code string) (bool, error)
	IncrementOccupancy(ctx context.Context, code string) error
}

// CreateCourseRequest describes course registration payload.
type CreateCourseRequest struct {
	Code     string `json:"code" validate:"required"`
	Title    string `json:"title" validate:"required"`
	Capacity int    `json:"capacity" validate:"required"`
}

// CatalogService owns course definitions and exposes the seat-occupancy
// operations the admission engine drives.
type CatalogService struct {
	repo      courseStore
	validator *validator.Validate
	persist   Persister
	logger    *zap.Logger
}

// NewCatalogService constructs CatalogService. persist may be nil.
func NewCatalogService(repo courseStore, validate *validator.Validate, persist Persister, logger *zap.Logger) *CatalogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{repo: repo, validator: validate, persist: persist, logger: logger}
}

// Create registers a new course with zero occupancy and an empty waitlist.
func (s *CatalogService) Create(ctx context.Context, req CreateCourseRequest) (models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Course{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	if req.Capacity <= 0 {
		return models.Course{}, appErrors.ErrInvalidCapacity
	}

	course := models.Course{Code: req.Code, Title: req.Title, Capacity: req.Capacity}
	if err := s.repo.Create(ctx, course); err != nil {
		return models.Course{}, err
	}

	s.logger.Info("course registered",
		zap.String("course", course.Code),
		zap.Int("capacity", course.Capacity),
	)
	if s.persist != nil {
		if err := s.persist.Persist(); err != nil {
			s.logger.Warn("snapshot persist failed", zap.Error(err))
		}
	}
	return course, nil
}

// List returns the full catalog with current occupancy.
func (s *CatalogService) List(ctx context.Context) []models.Course {
	return s.repo.List(ctx)
}

// Find returns one course record.
func (s *CatalogService) Find(ctx context.Context, code string) (models.Course, error) {
	return s.repo.Find(ctx, code)
}

// HasFreeSeat reports whether the course still has capacity.
func (s *CatalogService) HasFreeSeat(ctx context.Context, code string) (bool, error) {
	return s.repo.HasFreeSeat(ctx, code)
}

// IncrementOccupancy claims one seat, re-verifying capacity.
func (s *CatalogService) IncrementOccupancy(ctx context.Context, code string) error {
	return s.repo.IncrementOccupancy(ctx, code)
}
