package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-registry-api/internal/service"
	appErrors "github.com/noah-isme/campus-registry-api/pkg/errors"
	"github.com/noah-isme/campus-registry-api/pkg/response"
)

// EnrollmentRequestPayload identifies one (course, student) pair.
type EnrollmentRequestPayload struct {
	CourseCode string `json:"courseCode" binding:"required"`
	StudentID  string `json:"studentId" binding:"required"`
}

// AllocatePayload names the course to allocate a seat for.
type AllocatePayload struct {
	CourseCode string `json:"courseCode" binding:"required"`
}

// EnrollmentHandler exposes the admission engine endpoints.
type EnrollmentHandler struct {
	admissions *service.AdmissionService
}

// NewEnrollmentHandler constructs EnrollmentHandler.
func NewEnrollmentHandler(admissions *service.AdmissionService) *EnrollmentHandler {
	return &EnrollmentHandler{admissions: admissions}
}

// List godoc
// @Summary View the ordered waitlist for a course
// @Tags Enrollments
// @Produce json
// @Param courseCode query string true "Course code"
// @Success 200 {array} models.WaitlistEntry
// @Router /enrollments [get]
func (h *EnrollmentHandler) List(c *gin.Context) {
	courseCode := c.Query("courseCode")
	if courseCode == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "courseCode query parameter required"))
		return
	}
	entries, err := h.admissions.PeekWaitlist(c.Request.Context(), courseCode)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries)
}

// Create godoc
// @Summary Queue an enrollment request
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body EnrollmentRequestPayload true "Enrollment payload"
// @Success 200 {object} map[string]interface{}
// @Router /enrollments [post]
func (h *EnrollmentHandler) Create(c *gin.Context) {
	var req EnrollmentRequestPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.admissions.Submit(c.Request.Context(), req.CourseCode, req.StudentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"status": result.Status, "position": result.Position})
}

// Allocate godoc
// @Summary Allocate the next eligible seat for a course
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body AllocatePayload true "Allocation payload"
// @Success 200 {object} map[string]interface{}
// @Router /enrollments/allocate [post]
func (h *EnrollmentHandler) Allocate(c *gin.Context) {
	var req AllocatePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	info, err := h.admissions.AllocateNext(c.Request.Context(), req.CourseCode)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"info": info})
}

// Reject godoc
// @Summary Administratively reject a queued enrollment request
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body EnrollmentRequestPayload true "Rejection payload"
// @Success 200 {object} map[string]interface{}
// @Router /enrollments/reject [post]
func (h *EnrollmentHandler) Reject(c *gin.Context) {
	var req EnrollmentRequestPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.admissions.Reject(c.Request.Context(), req.CourseCode, req.StudentID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "rejected"})
}
