package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-registry-api/internal/models"
	appErrors "github.com/noah-isme/campus-registry-api/pkg/errors"
)

func newLibraryFixture() *LibraryRepository {
	repo := NewLibraryRepository()
	repo.Restore([]models.Book{
		{ISBN: "111", Title: "Go in Practice", Author: "Doe", Copies: 2, Available: 2},
		{ISBN: "222", Title: "Algorithms", Author: "Roe", Copies: 1, Available: 1},
	}, nil)
	return repo
}

func TestLibraryRepositoryBorrowAndReturn(t *testing.T) {
	repo := newLibraryFixture()
	ctx := context.Background()

	require.NoError(t, repo.Borrow(ctx, "222", "s1"))

	err := repo.Borrow(ctx, "222", "s2")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrBookUnavailable))

	// Same student cannot hold a second copy of the same title.
	err = repo.Borrow(ctx, "222", "s1")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	require.NoError(t, repo.Return(ctx, "222", "s1"))
	require.NoError(t, repo.Borrow(ctx, "222", "s2"))

	err = repo.Return(ctx, "222", "s1")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	err = repo.Borrow(ctx, "999", "s1")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestLibraryRepositorySearch(t *testing.T) {
	repo := newLibraryFixture()
	ctx := context.Background()

	all := repo.Search(ctx, "")
	require.Len(t, all, 2)
	assert.Equal(t, "111", all[0].ISBN)

	byTitle := repo.Search(ctx, "algo")
	require.Len(t, byTitle, 1)
	assert.Equal(t, "222", byTitle[0].ISBN)

	byAuthor := repo.Search(ctx, "doe")
	require.Len(t, byAuthor, 1)
	assert.Equal(t, "Go in Practice", byAuthor[0].Title)
}

func TestLibraryDataRoundTrip(t *testing.T) {
	dir := t.TempDir()
	repo := newLibraryFixture()
	require.NoError(t, repo.Borrow(context.Background(), "111", "s1"))

	books, loans := repo.Snapshot()
	require.NoError(t, SaveLibraryData(dir, books, loans))

	gotBooks, gotLoans, err := LoadLibraryData(dir)
	require.NoError(t, err)
	assert.Equal(t, books, gotBooks)
	require.Len(t, gotLoans, 1)
	assert.Equal(t, "s1", gotLoans[0].StudentID)
}
