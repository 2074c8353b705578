package handler

import (
	"net/http"

	"github.com/Conferir-Systems/erp-conferir-engenharia/internal/apierror"
	"github.com/Conferir-Systems/erp-conferir-engenharia/internal/dto"
	"github.com/Conferir-Systems/erp-conferir-engenharia/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MeasurementsHandler struct{ svc service.MeasurementService }

func NewMeasurementsHandler(svc service.MeasurementService) *MeasurementsHandler {
	return &MeasurementsHandler{svc: svc}
}

// Create godoc
// @Summary      Create measurement
// @Description  Registers quantities executed against a contract. Every item is validated against the remaining contracted balance inside one locking transaction; gross, retention and net totals are derived server-side.
// @Tags         measurements
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateMeasurementRequest true "Measurement data"
// @Success      201  {object} dto.MeasurementResponse
// @Failure      400  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Router       /measurements [post]
func (h *MeasurementsHandler) Create(c *gin.Context) {
	var req dto.CreateMeasurementRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateMeasurement(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      List measurements
// @Tags         measurements
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array} dto.MeasurementResponse
// @Router       /measurements [get]
func (h *MeasurementsHandler) List(c *gin.Context) {
	resp, err := h.svc.ListMeasurements(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListEnriched godoc
// @Summary      List measurements with contract, work and supplier
// @Description  Returns all measurements joined in memory with their contract, work and supplier summaries.
// @Tags         measurements
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array} dto.EnrichedMeasurement
// @Router       /measurements/enriched [get]
func (h *MeasurementsHandler) ListEnriched(c *gin.Context) {
	resp, err := h.svc.GetEnrichedMeasurements(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary      Get measurement by id
// @Tags         measurements
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Measurement UUID"
// @Success      200  {object} dto.MeasurementResponse
// @Failure      404  {object} apierror.APIError
// @Router       /measurements/{id} [get]
func (h *MeasurementsHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	resp, err := h.svc.GetMeasurement(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Approve godoc
// @Summary      Approve measurement
// @Description  Marks a pending measurement as approved, stamps the approval date and dispatches async report generation. Approval is terminal.
// @Tags         measurements
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Measurement UUID"
// @Success      200  {object} dto.MeasurementResponse
// @Failure      400  {object} apierror.APIError
// @Failure      403  {object} apierror.APIError
// @Router       /measurements/{id}/approve [patch]
func (h *MeasurementsHandler) Approve(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	resp, err := h.svc.Approve(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Reject godoc
// @Summary      Reject measurement
// @Description  Marks a pending measurement as rejected. Rejection is terminal; rejected quantities still count toward accumulation.
// @Tags         measurements
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Measurement UUID"
// @Success      200  {object} dto.MeasurementResponse
// @Failure      400  {object} apierror.APIError
// @Failure      403  {object} apierror.APIError
// @Router       /measurements/{id}/reject [patch]
func (h *MeasurementsHandler) Reject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	resp, err := h.svc.Reject(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DownloadReport godoc
// @Summary      Download measurement statement PDF
// @Description  Serves the PDF generated after approval. Returns 404 while the report is still being generated.
// @Tags         measurements
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id path string true "Measurement UUID"
// @Success      200
// @Failure      404  {object} apierror.APIError
// @Router       /measurements/{id}/report [get]
func (h *MeasurementsHandler) DownloadReport(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	resp, err := h.svc.GetMeasurement(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if resp.ReportPath == nil || *resp.ReportPath == "" {
		c.JSON(http.StatusNotFound, apierror.New("Report not available yet"))
		return
	}
	c.FileAttachment(*resp.ReportPath, "measurement_"+resp.ID+".pdf")
}
