package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-registry-api/internal/models"
	appErrors "github.com/noah-isme/campus-registry-api/pkg/errors"
)

type studentStore interface {
	Add(ctx context.Context, student models.Student) error
	Find(ctx context.Context, id string) (models.Student, error)
	Exists(ctx context.Context, id string) bool
	Search(ctx context.Context, query string) []models.Student
	Remove(ctx context.Context, id string) bool
	Count(ctx context.Context) int
}

// AddStudentRequest describes directory registration payload.
type AddStudentRequest struct {
	ID      string `json:"id" validate:"required"`
	Name    string `json:"name" validate:"required"`
	Program string `json:"program"`
	Year    int    `json:"year" validate:"gte=0"`
}

// StudentService is the student directory collaborator.
type StudentService struct {
	repo      studentStore
	validator *validator.Validate
	persist   Persister
	logger    *zap.Logger
}

// NewStudentService constructs StudentService. persist may be nil.
func NewStudentService(repo studentStore, validate *validator.Validate, persist Persister, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, validator: validate, persist: persist, logger: logger}
}

// Add registers a new directory record.
func (s *StudentService) Add(ctx context.Context, req AddStudentRequest) (models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Student{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	student := models.Student{ID: req.ID, Name: req.Name, Program: req.Program, Year: req.Year}
	if err := s.repo.Add(ctx, student); err != nil {
		return models.Student{}, err
	}
	s.logger.Info("student registered", zap.String("student", student.ID))
	s.persistSnapshot()
	return student, nil
}

// Get resolves an id to its record.
func (s *StudentService) Get(ctx context.Context, id string) (models.Student, error) {
	return s.repo.Find(ctx, id)
}

// Exists resolves an id to directory membership.
func (s *StudentService) Exists(ctx context.Context, id string) bool {
	return s.repo.Exists(ctx, id)
}

// Search returns records matching the query substring.
func (s *StudentService) Search(ctx context.Context, query string) []models.Student {
	return s.repo.Search(ctx, query)
}

// Remove deletes a directory record.
func (s *StudentService) Remove(ctx context.Context, id string) error {
	if !s.repo.Remove(ctx, id) {
		return appErrors.ErrStudentNotFound
	}
	s.logger.Info("student removed", zap.String("student", id))
	s.persistSnapshot()
	return nil
}

// Count returns the directory size for analytics.
func (s *StudentService) Count(ctx context.Context) int {
	return s.repo.Count(ctx)
}

func (s *StudentService) persistSnapshot() {
	if s.persist == nil {
		return
	}
	if err := s.persist.Persist(); err != nil {
		s.logger.Warn("snapshot persist failed", zap.Error(err))
	}
}
