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

	"github.com/noah-isme/campus-registry-api/internal/repository"
	"github.com/noah-isme/campus-registry-api/internal/service"
)

func newStudentHandler() *StudentHandler {
	gin.SetMode(gin.TestMode)
	students := service.NewStudentService(repository.NewStudentRepository(), validator.New(), nil, zap.NewNop())
	return NewStudentHandler(students)
}

func TestStudentCreateGetRemove(t *testing.T) {
	h := newStudentHandler()

	w := postJSON(t, h.Create, "/students", `{"id":"s1","name":"Ana","program":"CS","year":2}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "added", decodeBody(t, w)["message"])

	gw := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(gw)
	c.Request = httptest.NewRequest(http.MethodGet, "/students/s1", nil)
	c.Params = gin.Params{{Key: "id", Value: "s1"}}
	h.Get(c)
	require.Equal(t, http.StatusOK, gw.Code)

	rw := httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rw)
	c.Request = httptest.NewRequest(http.MethodPost, "/students/remove/s1", nil)
	c.Params = gin.Params{{Key: "id", Value: "s1"}}
	h.Remove(c)
	require.Equal(t, http.StatusOK, rw.Code)
	assert.Equal(t, "removed", decodeBody(t, rw)["message"])

	nw := httptest.NewRecorder()
	c, _ = gin.CreateTestContext(nw)
	c.Request = httptest.NewRequest(http.MethodGet, "/students/s1", nil)
	c.Params = gin.Params{{Key: "id", Value: "s1"}}
	h.Get(c)
	require.Equal(t, http.StatusNotFound, nw.Code)
	assert.Equal(t, "STUDENT_NOT_FOUND", decodeBody(t, nw)["code"])
}

func TestStudentCreateDuplicate(t *testing.T) {
	h := newStudentHandler()

	w := postJSON(t, h.Create, "/students", `{"id":"s1","name":"Ana"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, h.Create, "/students", `{"id":"s1","name":"Twin"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "DUPLICATE_STUDENT", decodeBody(t, w)["code"])
}

func TestStudentSearchQuery(t *testing.T) {
	h := newStudentHandler()

	w := postJSON(t, h.Create, "/students", `{"id":"s1","name":"Ana Silva"}`)
	require.Equal(t, http.StatusOK, w.Code)

	sw := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(sw)
	c.Request = httptest.NewRequest(http.MethodGet, "/students?q=silva", nil)
	h.Search(c)
	require.Equal(t, http.StatusOK, sw.Code)
	assert.Contains(t, sw.Body.String(), "Ana Silva")
}
