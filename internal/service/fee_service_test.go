package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-registry-api/internal/repository"
	appErrors "github.com/noah-isme/campus-registry-api/pkg/errors"
)

func newFees(termFee float64) (*FeeService, *stubDirectory) {
	dir := &stubDirectory{known: map[string]bool{"s1": true, "s2": true}}
	svc := NewFeeService(repository.NewFeeRepository(), dir, termFee, time.Second, validator.New(), nil, zap.NewNop())
	return svc, dir
}

func TestFeeRecordPayment(t *testing.T) {
	svc, _ := newFees(1000)
	ctx := context.Background()

	payment, err := svc.RecordPayment(ctx, RecordPaymentRequest{StudentID: "s1", Amount: 400})
	require.NoError(t, err)
	assert.NotEmpty(t, payment.TxnID)
	assert.Equal(t, 400.0, payment.Amount)
	assert.False(t, payment.PaidAt.IsZero())

	payments := svc.ListPayments(ctx, "s1")
	require.Len(t, payments, 1)
	assert.Empty(t, svc.ListPayments(ctx, "s2"))
	assert.Equal(t, 400.0, svc.TotalCollected(ctx))
}

func TestFeeRecordPaymentValidation(t *testing.T) {
	svc, _ := newFees(1000)
	ctx := context.Background()

	_, err := svc.RecordPayment(ctx, RecordPaymentRequest{StudentID: "s1", Amount: -50})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	_, err = svc.RecordPayment(ctx, RecordPaymentRequest{StudentID: "nobody", Amount: 100})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrStudentNotFound))
}

func TestFeeClearanceThreshold(t *testing.T) {
	svc, _ := newFees(1000)
	ctx := context.Background()

	cleared, err := svc.IsCleared(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, cleared)

	_, err = svc.RecordPayment(ctx, RecordPaymentRequest{StudentID: "s1", Amount: 600})
	require.NoError(t, err)
	cleared, err = svc.IsCleared(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, cleared)

	_, err = svc.RecordPayment(ctx, RecordPaymentRequest{StudentID: "s1", Amount: 400})
	require.NoError(t, err)
	cleared, err = svc.IsCleared(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, cleared)

	// Other students are unaffected.
	cleared, err = svc.IsCleared(ctx, "s2")
	require.NoError(t, err)
	assert.False(t, cleared)
}

func TestFeeClearanceCancelledContext(t *testing.T) {
	svc, _ := newFees(1000)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.IsCleared(ctx, "s1")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrLedgerUnavailable))
}
