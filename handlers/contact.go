package handlers

import (
	"errors"
	"net/http"

	"carvistors/models"
	"carvistors/services/contact"
	"carvistors/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ContactHandler struct {
	Service *contact.Service
}

func NewContactHandler(svc *contact.Service) *ContactHandler {
	return &ContactHandler{Service: svc}
}

// SubmitContactHandler handles POST /api/contact/submit.
func (h *ContactHandler) SubmitContactHandler(c *gin.Context) {
	var req models.ContactSubmission
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, contact.ErrMissingFields.Error(), err.Error())
		return
	}
	sub, err := h.Service.Submit(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, contact.ErrMissingFields) {
			utils.JSONError(c, http.StatusBadRequest, err.Error(), "")
			return
		}
		getLogger(c).Error("Contact submission failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Server error occurred while submitting your message", "")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Your message has been sent successfully. We will get back to you soon.",
		"data":    sub,
	})
}
