package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-registry-api/internal/models"
	"github.com/noah-isme/campus-registry-api/internal/repository"
	"github.com/noah-isme/campus-registry-api/internal/service"
)

func newLibraryFixture(t *testing.T) *LibraryHandler {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := httptest.NewRequest(http.MethodGet, "/", nil).Context()

	students := service.NewStudentService(repository.NewStudentRepository(), validator.New(), nil, zap.NewNop())
	_, err := students.Add(ctx, service.AddStudentRequest{ID: "s1", Name: "Ana"})
	require.NoError(t, err)

	books := repository.NewLibraryRepository()
	books.Restore([]models.Book{{ISBN: "111", Title: "Go in Practice", Author: "Doe", Copies: 1, Available: 1}}, nil)
	library := service.NewLibraryService(books, students, validator.New(), nil, zap.NewNop())
	return NewLibraryHandler(library)
}

func TestLibraryBorrowAndReturnFlow(t *testing.T) {
	h := newLibraryFixture(t)

	w := postJSON(t, h.Borrow, "/library/borrow", `{"isbn":"111","studentId":"s1"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "borrowed", decodeBody(t, w)["message"])

	w = postJSON(t, h.Borrow, "/library/borrow", `{"isbn":"111","studentId":"s1"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, h.Return, "/library/return", `{"isbn":"111","studentId":"s1"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "returned", decodeBody(t, w)["message"])
}

func TestLibrarySearchEndpoint(t *testing.T) {
	h := newLibraryFixture(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/library?q=practice", nil)
	h.Search(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Go in Practice")
}
