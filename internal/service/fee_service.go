package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-registry-api/internal/models"
	appErrors "github.com/noah-isme/campus-registry-api/pkg/errors"
)

type paymentLedger interface {
	Append(ctx context.Context, payment models.FeePayment)
	ListByStudent(ctx context.Context, studentID string) []models.FeePayment
	TotalPaid(ctx context.Context, studentID string) float64
	TotalCollected(ctx context.Context) float64
}

// RecordPaymentRequest describes a payment submission.
type RecordPaymentRequest struct {
	StudentID string  `json:"studentId" validate:"required"`
	Amount    float64 `json:"amount" validate:"required,gt=0"`
}

// FeeService is the fee ledger collaborator: it records payments and
// answers the clearance gate the admission engine consults before granting
// a seat. Clearance checks carry a bounded deadline so a slow ledger cannot
// stall a course lock.
type FeeService struct {
	repo         paymentLedger
	students     studentDirectory
	termFee      float64
	checkTimeout time.Duration
	validator    *validator.Validate
	persist      Persister
	logger       *zap.Logger
}

// NewFeeService constructs FeeService. persist may be nil.
func NewFeeService(repo paymentLedger, students studentDirectory, termFee float64, checkTimeout time.Duration, validate *validator.Validate, persist Persister, logger *zap.Logger) *FeeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if checkTimeout <= 0 {
		checkTimeout = 2 * time.Second
	}
	return &FeeService{
		repo:         repo,
		students:     students,
		termFee:      termFee,
		checkTimeout: checkTimeout,
		validator:    validate,
		persist:      persist,
		logger:       logger,
	}
}

// RecordPayment appends a ledger entry with a server-assigned txn id.
func (s *FeeService) RecordPayment(ctx context.Context, req RecordPaymentRequest) (models.FeePayment, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.FeePayment{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment payload")
	}
	if !s.students.Exists(ctx, req.StudentID) {
		return models.FeePayment{}, appErrors.ErrStudentNotFound
	}

	payment := models.FeePayment{
		TxnID:     uuid.NewString(),
		StudentID: req.StudentID,
		Amount:    req.Amount,
		PaidAt:    time.Now().UTC(),
	}
	s.repo.Append(ctx, payment)

	s.logger.Info("payment recorded",
		zap.String("student", req.StudentID),
		zap.String("txn", payment.TxnID),
		zap.Float64("amount", req.Amount),
	)
	if s.persist != nil {
		if err := s.persist.Persist(); err != nil {
			s.logger.Warn("snapshot persist failed", zap.Error(err))
		}
	}
	return payment, nil
}

// ListPayments returns the ledger entries for a student, or the whole
// ledger when the id is empty.
func (s *FeeService) ListPayments(ctx context.Context, studentID string) []models.FeePayment {
	return s.repo.ListByStudent(ctx, studentID)
}

// TotalCollected sums the whole ledger for analytics.
func (s *FeeService) TotalCollected(ctx context.Context) float64 {
	return s.repo.TotalCollected(ctx)
}

// IsCleared reports whether the student's paid total meets the term fee.
// The check runs under its own deadline; an expired or cancelled context
// surfaces as a retryable ledger outage.
func (s *FeeService) IsCleared(ctx context.Context, studentID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.checkTimeout)
	defer cancel()

	if err := ctx.Err(); err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrLedgerUnavailable.Code, appErrors.ErrLedgerUnavailable.Status, "ledger check aborted")
	}
	total := s.repo.TotalPaid(ctx, studentID)
	if err := ctx.Err(); err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrLedgerUnavailable.Code, appErrors.ErrLedgerUnavailable.Status, "ledger check timed out")
	}
	return total >= s.termFee, nil
}
