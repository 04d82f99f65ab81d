package handlers

import (
	"errors"
	"net/http"

	"carvistors/models"
	"carvistors/services/auth"
	"carvistors/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	Service auth.AuthService
}

func NewAuthHandler(svc auth.AuthService) *AuthHandler {
	return &AuthHandler{Service: svc}
}

func authError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, auth.ErrMissingFields):
		utils.JSONError(c, http.StatusBadRequest, err.Error(), "")
	case errors.Is(err, auth.ErrAccountExists), errors.Is(err, auth.ErrAdminRegistrationClosed):
		utils.JSONError(c, http.StatusBadRequest, err.Error(), "")
	case errors.Is(err, auth.ErrInvalidCredentials):
		utils.JSONError(c, http.StatusBadRequest, "Invalid credentials", "")
	default:
		getLogger(c).Error(fallback, zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, fallback, "")
	}
}

// RegisterUserHandler handles POST /api/auth/register.
func (h *AuthHandler) RegisterUserHandler(c *gin.Context) {
	var req auth.Registration
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	resp, err := h.Service.RegisterUser(c.Request.Context(), req)
	if err != nil {
		authError(c, err, "Server error occurred during registration")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "User registered successfully", "token": resp.Token, "user": resp.Account})
}

// RegisterAdminHandler handles POST /api/auth/admin/register.
func (h *AuthHandler) RegisterAdminHandler(c *gin.Context) {
	var req auth.Registration
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	resp, err := h.Service.RegisterAdmin(c.Request.Context(), req)
	if err != nil {
		authError(c, err, "Server error occurred during admin registration")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Admin registered successfully", "token": resp.Token, "admin": resp.Account})
}

// LoginHandler handles POST /api/auth/login.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		UserType string `json:"userType"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	kind, err := models.ParseAccountKind(req.UserType)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid user type", err.Error())
		return
	}

	resp, err := h.Service.Login(c.Request.Context(), req.Email, req.Password, kind)
	if err != nil {
		authError(c, err, "Server error occurred during login")
		return
	}
	body := gin.H{"success": true, "message": "Login successful", "token": resp.Token, "userType": "user"}
	if kind == models.KindAdmin {
		body["userType"] = "admin"
		body["admin"] = resp.Account
	} else {
		body["user"] = resp.Account
	}
	c.JSON(http.StatusOK, body)
}
