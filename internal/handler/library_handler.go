package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-registry-api/internal/service"
	appErrors "github.com/noah-isme/campus-registry-api/pkg/errors"
	"github.com/noah-isme/campus-registry-api/pkg/response"
)

// LibraryHandler exposes the library endpoints.
type LibraryHandler struct {
	library *service.LibraryService
}

// NewLibraryHandler constructs LibraryHandler.
func NewLibraryHandler(library *service.LibraryService) *LibraryHandler {
	return &LibraryHandler{library: library}
}

// Search godoc
// @Summary Search the book catalog
// @Tags Library
// @Produce json
// @Param q query string false "Substring of isbn, title or author"
// @Success 200 {array} models.Book
// @Router /library [get]
func (h *LibraryHandler) Search(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.library.Search(c.Request.Context(), c.Query("q")))
}

// Borrow godoc
// @Summary Borrow one copy of a book
// @Tags Library
// @Accept json
// @Produce json
// @Param payload body service.LoanRequest true "Loan payload"
// @Success 200 {object} map[string]interface{}
// @Router /library/borrow [post]
func (h *LibraryHandler) Borrow(c *gin.Context) {
	var req service.LoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.library.Borrow(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "borrowed"})
}

// Return godoc
// @Summary Return a borrowed copy
// @Tags Library
// @Accept json
// @Produce json
// @Param payload body service.LoanRequest true "Loan payload"
// @Success 200 {object} map[string]interface{}
// @Router /library/return [post]
func (h *LibraryHandler) Return(c *gin.Context) {
	var req service.LoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.library.Return(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "returned"})
}
