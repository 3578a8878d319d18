package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/uni-adp-api/internal/dto"
	"github.com/noah-isme/uni-adp-api/internal/service"
	appErrors "github.com/noah-isme/uni-adp-api/pkg/errors"
	"github.com/noah-isme/uni-adp-api/pkg/response"
)

// ConstraintHandler exposes workload constraint endpoints.
type ConstraintHandler struct {
	service *service.ConstraintService
}

// NewConstraintHandler constructs the handler.
func NewConstraintHandler(svc *service.ConstraintService) *ConstraintHandler {
	return &ConstraintHandler{service: svc}
}

// List godoc
// @Summary List workload constraints
// @Tags Constraints
// @Produce json
// @Param departmentId query string false "Scope to a department (includes globals)"
// @Success 200 {object} response.Envelope
// @Router /constraints [get]
func (h *ConstraintHandler) List(c *gin.Context) {
	constraints, err := h.service.List(c.Request.Context(), c.Query("departmentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, constraints, nil)
}

// Create godoc
// @Summary Create a workload constraint
// @Tags Constraints
// @Accept json
// @Produce json
// @Param payload body dto.CreateConstraintRequest true "Constraint payload"
// @Success 201 {object} response.Envelope
// @Router /constraints [post]
func (h *ConstraintHandler) Create(c *gin.Context) {
	var req dto.CreateConstraintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid constraint payload"))
		return
	}

	createdBy := ""
	if claims := claimsFromContext(c); claims != nil {
		createdBy = claims.UserID
	}

	constraint, err := h.service.Create(c.Request.Context(), req, createdBy)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, constraint)
}

// Delete godoc
// @Summary Delete a workload constraint
// @Tags Constraints
// @Produce json
// @Param id path string true "Constraint ID"
// @Success 204 {object} nil
// @Router /constraints/{id} [delete]
func (h *ConstraintHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
