package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"carvistors/models"
	"carvistors/services/vin"
	"carvistors/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type VinHandler struct {
	Decoder  vin.Decoder
	Requests vin.RequestService
}

func NewVinHandler(decoder vin.Decoder, requests vin.RequestService) *VinHandler {
	return &VinHandler{Decoder: decoder, Requests: requests}
}

func vinError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, vin.ErrInvalidVIN), errors.Is(err, vin.ErrUndecodable),
		errors.Is(err, vin.ErrEmailRequired), errors.Is(err, vin.ErrInvalidStatus):
		utils.JSONError(c, http.StatusBadRequest, err.Error(), "")
	case errors.Is(err, vin.ErrDuplicateRequest):
		utils.JSONError(c, http.StatusConflict, err.Error(), "")
	case errors.Is(err, vin.ErrRequestNotFound):
		utils.JSONError(c, http.StatusNotFound, err.Error(), "")
	default:
		getLogger(c).Error(fallback, zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, fallback, "")
	}
}

func queryInt(c *gin.Context, key string) int64 {
	n, _ := strconv.ParseInt(c.Query(key), 10, 64)
	return n
}

// DecodeVINHandler handles POST /api/vin/decode.
func (h *VinHandler) DecodeVINHandler(c *gin.Context) {
	var req struct {
		VIN string `json:"vin" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "VIN is required", err.Error())
		return
	}
	details, err := h.Decoder.Decode(c.Request.Context(), req.VIN)
	if err != nil {
		vinError(c, err, "Server error occurred while decoding VIN")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": details})
}

// CreateVinRequestHandler handles POST /api/requests/create.
func (h *VinHandler) CreateVinRequestHandler(c *gin.Context) {
	var req struct {
		VIN       string `json:"vin"`
		UserEmail string `json:"userEmail"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	created, err := h.Requests.CreateRequest(c.Request.Context(), req.VIN, req.UserEmail)
	if err != nil {
		vinError(c, err, "Server error occurred while creating VIN request")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "VIN request created successfully",
		"data": gin.H{
			"id":            created.ID,
			"vin":           created.VIN,
			"userEmail":     created.UserEmail,
			"vehicle":       created.VehicleDetails.Vehicle,
			"status":        created.Status,
			"requestDate":   created.RequestDate,
			"paymentAmount": created.PaymentAmount,
		},
	})
}

// GetAllVinRequestsHandler handles GET /api/requests/all.
func (h *VinHandler) GetAllVinRequestsHandler(c *gin.Context) {
	filter := models.VinRequestFilter{
		Search: c.Query("search"),
		Page:   queryInt(c, "page"),
		Limit:  queryInt(c, "limit"),
	}
	if s := c.Query("status"); s != "" && s != "all" {
		st, err := models.ParseVinRequestStatus(s)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid status", err.Error())
			return
		}
		filter.Status = st
	}

	list, page, err := h.Requests.List(c.Request.Context(), filter)
	if err != nil {
		vinError(c, err, "Server error occurred while fetching VIN requests")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"requests": list, "pagination": page}})
}

// GetVinRequestHandler handles GET /api/requests/:id.
func (h *VinHandler) GetVinRequestHandler(c *gin.Context) {
	req, err := h.Requests.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		vinError(c, err, "Server error occurred while fetching VIN request")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": req})
}

// UpdateVinRequestHandler handles PUT /api/requests/:id/status.
func (h *VinHandler) UpdateVinRequestHandler(c *gin.Context) {
	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Status is required", err.Error())
		return
	}
	req, err := h.Requests.UpdateStatus(c.Request.Context(), c.Param("id"), body.Status)
	if err != nil {
		vinError(c, err, "Server error occurred while updating VIN request")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "VIN request updated successfully", "data": req})
}

// GetUserVinRequestsHandler handles GET /api/requests/user/:email.
func (h *VinHandler) GetUserVinRequestsHandler(c *gin.Context) {
	list, page, err := h.Requests.ListByUser(c.Request.Context(), c.Param("email"), queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		vinError(c, err, "Server error occurred while fetching user VIN requests")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"requests": list, "pagination": page}})
}
