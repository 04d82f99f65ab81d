package handlers

import (
	"net/http"

	"carvistors/models"
	"carvistors/services/auth"
	"carvistors/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserHandler struct {
	Service auth.AuthService
}

func NewUserHandler(svc auth.AuthService) *UserHandler {
	return &UserHandler{Service: svc}
}

// GetAllUsersHandler handles GET /api/users/all.
func (h *UserHandler) GetAllUsersHandler(c *gin.Context) {
	users, err := h.Service.ListAccounts(c.Request.Context(), models.KindUser)
	if err != nil {
		getLogger(c).Error("Failed to list users", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Server error occurred while fetching users", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": users})
}

// GetUserByIDHandler handles GET /api/users/:id.
func (h *UserHandler) GetUserByIDHandler(c *gin.Context) {
	id := c.Param("id")
	usr, err := h.Service.GetAccount(c.Request.Context(), models.KindUser, id)
	if err != nil {
		getLogger(c).Error("Failed to fetch user", zap.String("id", id), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Server error occurred while fetching user", "")
		return
	}
	if usr == nil {
		utils.JSONError(c, http.StatusNotFound, "User not found", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": usr})
}
