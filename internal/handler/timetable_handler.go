package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/uni-adp-api/internal/dto"
	"github.com/noah-isme/uni-adp-api/internal/models"
	appErrors "github.com/noah-isme/uni-adp-api/pkg/errors"
	"github.com/noah-isme/uni-adp-api/pkg/response"
)

// GenerateJobType labels async generation jobs on the background queue.
const GenerateJobType = "timetable.generate"

type timetableEngine interface {
	Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error)
	Validate(ctx context.Context, req dto.ValidateProposalRequest) (*dto.ValidateProposalResponse, error)
	Get(ctx context.Context, departmentID string, version int) (*models.Timetable, error)
	Versions(ctx context.Context, departmentID string) ([]models.TimetableVersion, error)
	Export(ctx context.Context, departmentID string, version int, format string) ([]byte, string, error)
}

type jobEnqueuer interface {
	Enqueue(jobType string, payload interface{}) (string, error)
}

// TimetableHandler exposes the timetable engine endpoints.
type TimetableHandler struct {
	service timetableEngine
	queue   jobEnqueuer
}

// NewTimetableHandler constructs the handler. A nil queue disables the
// async generation path.
func NewTimetableHandler(svc timetableEngine, queue jobEnqueuer) *TimetableHandler {
	return &TimetableHandler{service: svc, queue: queue}
}

// Generate godoc
// @Summary Generate a new timetable version for a department
// @Description Runs the deterministic allocator, optionally trying external proposal generators first. With async=true the run is queued and a job id is returned.
// @Tags Timetables
// @Accept json
// @Produce json
// @Param payload body dto.GenerateTimetableRequest true "Generate timetable payload"
// @Success 200 {object} response.Envelope
// @Success 202 {object} response.Envelope
// @Router /timetables/generate [post]
func (h *TimetableHandler) Generate(c *gin.Context) {
	var req dto.GenerateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generate payload"))
		return
	}

	if req.Async {
		if h.queue == nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "async generation is not enabled"))
			return
		}
		jobID, err := h.queue.Enqueue(GenerateJobType, req)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, "ENQUEUE_FAILED", http.StatusServiceUnavailable, "failed to queue generation"))
			return
		}
		response.Accepted(c, gin.H{"jobId": jobID})
		return
	}

	result, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Validate godoc
// @Summary Validate an externally produced timetable proposal
// @Description Filters the submitted slots and returns the conflict-free subsequence without persisting anything.
// @Tags Timetables
// @Accept json
// @Produce json
// @Param payload body dto.ValidateProposalRequest true "Proposal payload"
// @Success 200 {object} response.Envelope
// @Router /timetables/validate [post]
func (h *TimetableHandler) Validate(c *gin.Context) {
	var req dto.ValidateProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid proposal payload"))
		return
	}
	result, err := h.service.Validate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Get godoc
// @Summary Get a stored timetable version
// @Description Returns the requested version, or the latest when the version query parameter is omitted.
// @Tags Timetables
// @Produce json
// @Param departmentId path string true "Department ID"
// @Param version query int false "Version number, latest when omitted"
// @Success 200 {object} response.Envelope
// @Router /timetables/{departmentId} [get]
func (h *TimetableHandler) Get(c *gin.Context) {
	departmentID := c.Param("departmentId")
	version, err := parseVersion(c.Query("version"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "version must be a positive integer"))
		return
	}

	timetable, err := h.service.Get(c.Request.Context(), departmentID, version)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, timetable, nil)
}

// Versions godoc
// @Summary List stored timetable versions for a department
// @Tags Timetables
// @Produce json
// @Param departmentId path string true "Department ID"
// @Success 200 {object} response.Envelope
// @Router /timetables/{departmentId}/versions [get]
func (h *TimetableHandler) Versions(c *gin.Context) {
	versions, err := h.service.Versions(c.Request.Context(), c.Param("departmentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, versions, nil)
}

// Export godoc
// @Summary Export a timetable version as CSV or PDF
// @Tags Timetables
// @Produce text/csv
// @Produce application/pdf
// @Param departmentId path string true "Department ID"
// @Param version query int false "Version number, latest when omitted"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} binary
// @Router /timetables/{departmentId}/export [get]
func (h *TimetableHandler) Export(c *gin.Context) {
	departmentID := c.Param("departmentId")
	version, err := parseVersion(c.Query("version"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "version must be a positive integer"))
		return
	}

	data, contentType, err := h.service.Export(c.Request.Context(), departmentID, version, c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}

	ext := "csv"
	if contentType == "application/pdf" {
		ext = "pdf"
	}
	filename := fmt.Sprintf("timetable-%s.%s", departmentID, ext)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}

func parseVersion(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	version, err := strconv.Atoi(raw)
	if err != nil || version < 1 {
		return 0, fmt.Errorf("invalid version %q", raw)
	}
	return version, nil
}
