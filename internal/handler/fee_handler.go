package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-registry-api/internal/models"
	"github.com/noah-isme/campus-registry-api/internal/service"
	appErrors "github.com/noah-isme/campus-registry-api/pkg/errors"
	"github.com/noah-isme/campus-registry-api/pkg/response"
)

// FeeHandler exposes the fee ledger endpoints.
type FeeHandler struct {
	fees *service.FeeService
}

// NewFeeHandler constructs FeeHandler.
func NewFeeHandler(fees *service.FeeService) *FeeHandler {
	return &FeeHandler{fees: fees}
}

// List godoc
// @Summary List recorded payments
// @Tags Fees
// @Produce json
// @Param studentId query string false "Filter by student"
// @Success 200 {array} models.FeePayment
// @Router /fees [get]
func (h *FeeHandler) List(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.fees.ListPayments(c.Request.Context(), c.Query("studentId")))
}

// Clearance godoc
// @Summary Check whether a student's balance is cleared
// @Tags Fees
// @Produce json
// @Param studentId path string true "Student ID"
// @Success 200 {object} models.Clearance
// @Router /fees/clearance/{studentId} [get]
func (h *FeeHandler) Clearance(c *gin.Context) {
	studentID := c.Param("studentId")
	cleared, err := h.fees.IsCleared(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, models.Clearance{StudentID: studentID, Cleared: cleared})
}

// Pay godoc
// @Summary Record a fee payment
// @Tags Fees
// @Accept json
// @Produce json
// @Param payload body service.RecordPaymentRequest true "Payment payload"
// @Success 200 {object} map[string]interface{}
// @Router /fees/pay [post]
func (h *FeeHandler) Pay(c *gin.Context) {
	var req service.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	payment, err := h.fees.RecordPayment(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"record": payment})
}
