package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-registry-api/internal/models"
	appErrors "github.com/noah-isme/campus-registry-api/pkg/errors"
)

type bookStore interface {
	Search(ctx context.Context, query string) []models.Book
	Borrow(ctx context.Context, isbn, studentID string) error
	Return(ctx context.Context, isbn, studentID string) error
}

// LoanRequest describes a borrow or return payload.
type LoanRequest struct {
	ISBN      string `json:"isbn" validate:"required"`
	StudentID string `json:"studentId" validate:"required"`
}

// LibraryService handles catalog search and copy accounting.
type LibraryService struct {
	repo      bookStore
	students  studentDirectory
	validator *validator.Validate
	persist   Persister
	logger    *zap.Logger
}

// NewLibraryService constructs LibraryService. persist may be nil.
func NewLibraryService(repo bookStore, students studentDirectory, validate *validator.Validate, persist Persister, logger *zap.Logger) *LibraryService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LibraryService{repo: repo, students: students, validator: validate, persist: persist, logger: logger}
}

// Search returns catalog entries matching the query substring.
func (s *LibraryService) Search(ctx context.Context, query string) []models.Book {
	return s.repo.Search(ctx, query)
}

// Borrow checks out one copy for the student.
func (s *LibraryService) Borrow(ctx context.Context, req LoanRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid loan payload")
	}
	if !s.students.Exists(ctx, req.StudentID) {
		return appErrors.ErrStudentNotFound
	}
	if err := s.repo.Borrow(ctx, req.ISBN, req.StudentID); err != nil {
		return err
	}
	s.logger.Info("book borrowed", zap.String("isbn", req.ISBN), zap.String("student", req.StudentID))
	s.persistSnapshot()
	return nil
}

// Return checks a copy back in.
func (s *LibraryService) Return(ctx context.Context, req LoanRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid loan payload")
	}
	if err := s.repo.Return(ctx, req.ISBN, req.StudentID); err != nil {
		return err
	}
	s.logger.Info("book returned", zap.String("isbn", req.ISBN), zap.String("student", req.StudentID))
	s.persistSnapshot()
	return nil
}

func (s *LibraryService) persistSnapshot() {
	if s.persist == nil {
		return
	}
	if err := s.persist.Persist(); err != nil {
		s.logger.Warn("snapshot persist failed", zap.Error(err))
	}
}
