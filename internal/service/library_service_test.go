package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-registry-api/internal/models"
	"github.com/noah-isme/campus-registry-api/internal/repository"
	appErrors "github.com/noah-isme/campus-registry-api/pkg/errors"
)

func newLibrary() *LibraryService {
	repo := repository.NewLibraryRepository()
	repo.Restore([]models.Book{{ISBN: "111", Title: "Go in Practice", Author: "Doe", Copies: 1, Available: 1}}, nil)
	dir := &stubDirectory{known: map[string]bool{"s1": true, "s2": true}}
	return NewLibraryService(repo, dir, validator.New(), nil, zap.NewNop())
}

func TestLibraryBorrowReturn(t *testing.T) {
	svc := newLibrary()
	ctx := context.Background()

	require.NoError(t, svc.Borrow(ctx, LoanRequest{ISBN: "111", StudentID: "s1"}))

	err := svc.Borrow(ctx, LoanRequest{ISBN: "111", StudentID: "s2"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrBookUnavailable))

	require.NoError(t, svc.Return(ctx, LoanRequest{ISBN: "111", StudentID: "s1"}))
	require.NoError(t, svc.Borrow(ctx, LoanRequest{ISBN: "111", StudentID: "s2"}))
}

func TestLibraryBorrowUnknownStudent(t *testing.T) {
	svc := newLibrary()
	ctx := context.Background()

	err := svc.Borrow(ctx, LoanRequest{ISBN: "111", StudentID: "nobody"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrStudentNotFound))

	err = svc.Borrow(ctx, LoanRequest{StudentID: "s1"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestLibrarySearch(t *testing.T) {
	svc := newLibrary()
	books := svc.Search(context.Background(), "practice")
	require.Len(t, books, 1)
	assert.Equal(t, "111", books[0].ISBN)
}
