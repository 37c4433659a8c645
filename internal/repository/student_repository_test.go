package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-registry-api/internal/models"
	appErrors "github.com/noah-isme/campus-registry-api/pkg/errors"
)

func TestStudentRepositoryAddFindRemove(t *testing.T) {
	repo := NewStudentRepository()
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, models.Student{ID: "s1", Name: "Ana", Program: "CS", Year: 2}))

	err := repo.Add(ctx, models.Student{ID: "s1", Name: "Other"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrDuplicateStudent))

	student, err := repo.Find(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", student.Name)
	assert.True(t, repo.Exists(ctx, "s1"))
	assert.Equal(t, 1, repo.Count(ctx))

	assert.True(t, repo.Remove(ctx, "s1"))
	assert.False(t, repo.Remove(ctx, "s1"))
	assert.False(t, repo.Exists(ctx, "s1"))

	_, err = repo.Find(ctx, "s1")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrStudentNotFound))
}

func TestStudentRepositorySearch(t *testing.T) {
	repo := NewStudentRepository()
	ctx := context.Background()
	require.NoError(t, repo.Add(ctx, models.Student{ID: "s1", Name: "Ana Silva"}))
	require.NoError(t, repo.Add(ctx, models.Student{ID: "s2", Name: "Budi"}))
	require.NoError(t, repo.Add(ctx, models.Student{ID: "x9", Name: "Anastasia"}))

	all := repo.Search(ctx, "")
	require.Len(t, all, 3)
	assert.Equal(t, "s1", all[0].ID)

	byName := repo.Search(ctx, "ana")
	require.Len(t, byName, 2)

	byID := repo.Search(ctx, "X9")
	require.Len(t, byID, 1)
	assert.Equal(t, "Anastasia", byID[0].Name)
}
