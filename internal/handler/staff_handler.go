package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/uni-adp-api/internal/dto"
	"github.com/noah-isme/uni-adp-api/internal/models"
	"github.com/noah-isme/uni-adp-api/internal/service"
	appErrors "github.com/noah-isme/uni-adp-api/pkg/errors"
	"github.com/noah-isme/uni-adp-api/pkg/response"
)

// StaffHandler exposes staff member endpoints.
type StaffHandler struct {
	service *service.StaffService
}

// NewStaffHandler constructs the handler.
func NewStaffHandler(svc *service.StaffService) *StaffHandler {
	return &StaffHandler{service: svc}
}

// List godoc
// @Summary List staff members
// @Tags Staff
// @Produce json
// @Param departmentId query string false "Filter by department"
// @Param lockedOnly query bool false "Only staff with locked subject selections"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /staff [get]
func (h *StaffHandler) List(c *gin.Context) {
	filter := models.StaffFilter{
		DepartmentID: c.Query("departmentId"),
		LockedOnly:   c.Query("lockedOnly") == "true",
		Page:         queryInt(c, "page", 1),
		PageSize:     queryInt(c, "pageSize", 20),
	}
	staff, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	response.JSON(c, http.StatusOK, staff, pagination)
}

// Get godoc
// @Summary Get a staff member
// @Tags Staff
// @Produce json
// @Param id path string true "Staff ID"
// @Success 200 {object} response.Envelope
// @Router /staff/{id} [get]
func (h *StaffHandler) Get(c *gin.Context) {
	member, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, member, nil)
}

// Create godoc
// @Summary Register a staff member
// @Tags Staff
// @Accept json
// @Produce json
// @Param payload body dto.CreateStaffRequest true "Staff payload"
// @Success 201 {object} response.Envelope
// @Router /staff [post]
func (h *StaffHandler) Create(c *gin.Context) {
	var req dto.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid staff payload"))
		return
	}
	member, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, member)
}

// SelectSubjects godoc
// @Summary Replace a staff member's subject selection
// @Description Fails with 409 when the selection has been locked.
// @Tags Staff
// @Accept json
// @Produce json
// @Param id path string true "Staff ID"
// @Param payload body dto.UpdateStaffSubjectsRequest true "Subject selection payload"
// @Success 200 {object} response.Envelope
// @Router /staff/{id}/subjects [put]
func (h *StaffHandler) SelectSubjects(c *gin.Context) {
	var req dto.UpdateStaffSubjectsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid subject selection payload"))
		return
	}
	member, err := h.service.SelectSubjects(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, member, nil)
}

// LockSelection godoc
// @Summary Lock a staff member's subject selection
// @Description Locking is idempotent. An empty selection cannot be locked.
// @Tags Staff
// @Produce json
// @Param id path string true "Staff ID"
// @Success 200 {object} response.Envelope
// @Router /staff/{id}/subjects/lock [post]
func (h *StaffHandler) LockSelection(c *gin.Context) {
	member, err := h.service.LockSelection(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, member, nil)
}
