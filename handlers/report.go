package handlers

import (
	"errors"
	"net/http"

	"carvistors/middleware"
	"carvistors/models"
	"carvistors/services/report"
	"carvistors/services/vin"
	"carvistors/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ReportHandler struct {
	Reports report.Service
}

func NewReportHandler(reports report.Service) *ReportHandler {
	return &ReportHandler{Reports: reports}
}

func reportError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, report.ErrVINRequired), errors.Is(err, vin.ErrInvalidVIN), errors.Is(err, report.ErrUndecodable):
		utils.JSONError(c, http.StatusBadRequest, err.Error(), "")
	case errors.Is(err, report.ErrReportNotFound):
		utils.JSONError(c, http.StatusNotFound, err.Error(), "")
	case errors.Is(err, report.ErrUpstream):
		getLogger(c).Warn("advanced decode upstream error", zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, err.Error(), "")
	case errors.Is(err, report.ErrNotConfigured):
		utils.JSONError(c, http.StatusServiceUnavailable, err.Error(), "")
	default:
		getLogger(c).Error(fallback, zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, fallback, "")
	}
}

// AdvancedDecodeHandler handles POST /api/reports/decode.
func (h *ReportHandler) AdvancedDecodeHandler(c *gin.Context) {
	var req struct {
		VIN       string `json:"vin"`
		DecodedBy string `json:"decodedBy"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	if req.DecodedBy == "" {
		if claims := middleware.ClaimsFrom(c); claims != nil {
			req.DecodedBy = claims.Email
		}
	}

	saved, created, err := h.Reports.Decode(c.Request.Context(), req.VIN, req.DecodedBy)
	if err != nil {
		reportError(c, err, "Server error occurred while decoding VIN")
		return
	}
	message := "Report already exists"
	if created {
		message = "VIN decoded successfully and report saved"
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     message,
		"data":        saved.ReportData,
		"reportId":    saved.ID,
		"vehicleName": saved.VehicleName,
	})
}

// GetAllReportsHandler handles GET /api/reports/all.
func (h *ReportHandler) GetAllReportsHandler(c *gin.Context) {
	filter := models.ReportFilter{
		Search: c.Query("search"),
		Page:   queryInt(c, "page"),
		Limit:  queryInt(c, "limit"),
	}
	list, page, err := h.Reports.List(c.Request.Context(), filter)
	if err != nil {
		reportError(c, err, "Server error occurred while fetching reports")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"reports": list, "pagination": page}})
}

// GetReportHandler handles GET /api/reports/:id.
func (h *ReportHandler) GetReportHandler(c *gin.Context) {
	r, err := h.Reports.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		reportError(c, err, "Server error occurred while fetching report")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": r})
}

// GetReportByVINHandler handles GET /api/reports/vin/:vin.
func (h *ReportHandler) GetReportByVINHandler(c *gin.Context) {
	r, err := h.Reports.GetByVIN(c.Request.Context(), c.Param("vin"))
	if err != nil {
		reportError(c, err, "Server error occurred while fetching report")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": r})
}
