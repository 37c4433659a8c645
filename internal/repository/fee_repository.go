package repository

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/noah-isme/campus-registry-api/internal/models"
)

const feesFile = "fees.json"

// FeeRepository owns the raw payment ledger, append-only.
type FeeRepository struct {
	mu       sync.RWMutex
	payments []models.FeePayment
}

// NewFeeRepository constructs an empty ledger.
func NewFeeRepository() *FeeRepository {
	return &FeeRepository{}
}

// Append records a payment.
func (r *FeeRepository) Append(ctx context.Context, payment models.FeePayment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payments = append(r.payments, payment)
}

// ListByStudent returns payments for a student in recorded order. An empty
// id returns the full ledger.
func (r *FeeRepository) ListByStudent(ctx context.Context, studentID string) []models.FeePayment {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.FeePayment, 0, len(r.payments))
	for _, payment := range r.payments {
		if studentID == "" || payment.StudentID == studentID {
			out = append(out, payment)
		}
	}
	return out
}

// TotalPaid sums a student's recorded payments.
func (r *FeeRepository) TotalPaid(ctx context.Context, studentID string) float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var total float64
	for _, payment := range r.payments {
		if payment.StudentID == studentID {
			total += payment.Amount
		}
	}
	return total
}

// TotalCollected sums the whole ledger.
func (r *FeeRepository) TotalCollected(ctx context.Context) float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var total float64
	for _, payment := range r.payments {
		total += payment.Amount
	}
	return total
}

// Snapshot returns the ledger for persistence.
func (r *FeeRepository) Snapshot() []models.FeePayment {
	return r.ListByStudent(context.Background(), "")
}

// Restore replaces the ledger contents.
func (r *FeeRepository) Restore(payments []models.FeePayment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payments = append([]models.FeePayment(nil), payments...)
}

// LoadFeeData reads the payment ledger from the data dir.
func LoadFeeData(dir string) ([]models.FeePayment, error) {
	var payments []models.FeePayment
	if err := readJSONFile(filepath.Join(dir, feesFile), &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

// SaveFeeData writes the payment ledger to the data dir.
func SaveFeeData(dir string, payments []models.FeePayment) error {
	return writeJSONFile(filepath.Join(dir, feesFile), payments)
}
