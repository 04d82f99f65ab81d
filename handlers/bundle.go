package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Health
	HealthHandler gin.HandlerFunc

	// Auth endpoints
	RegisterUserHandler  gin.HandlerFunc
	RegisterAdminHandler gin.HandlerFunc
	LoginHandler         gin.HandlerFunc

	// Account endpoints
	GetAllUsersHandler gin.HandlerFunc
	GetUserByIDHandler gin.HandlerFunc

	// VIN endpoints
	DecodeVINHandler          gin.HandlerFunc
	CreateVinRequestHandler   gin.HandlerFunc
	GetAllVinRequestsHandler  gin.HandlerFunc
	GetVinRequestHandler      gin.HandlerFunc
	UpdateVinRequestHandler   gin.HandlerFunc
	GetUserVinRequestsHandler gin.HandlerFunc

	// Report endpoints
	AdvancedDecodeHandler gin.HandlerFunc
	GetAllReportsHandler  gin.HandlerFunc
	GetReportHandler      gin.HandlerFunc
	GetReportByVINHandler gin.HandlerFunc

	// Notification endpoints
	CreateNotificationHandler   gin.HandlerFunc
	ListNotificationsHandler    gin.HandlerFunc
	MarkNotificationReadHandler gin.HandlerFunc
	MarkAllReadHandler          gin.HandlerFunc
	UnreadCountHandler          gin.HandlerFunc

	// Contact endpoints
	SubmitContactHandler gin.HandlerFunc
}

// NewHandlerBundle wires every handler group into a bundle.
func NewHandlerBundle(h *HealthHandler, a *AuthHandler, u *UserHandler, v *VinHandler, rp *ReportHandler, n *NotificationHandler, ct *ContactHandler) *HandlerBundle {
	return &HandlerBundle{
		HealthHandler: h.Health,

		RegisterUserHandler:  a.RegisterUserHandler,
		RegisterAdminHandler: a.RegisterAdminHandler,
		LoginHandler:         a.LoginHandler,

		GetAllUsersHandler: u.GetAllUsersHandler,
		GetUserByIDHandler: u.GetUserByIDHandler,

		DecodeVINHandler:          v.DecodeVINHandler,
		CreateVinRequestHandler:   v.CreateVinRequestHandler,
		GetAllVinRequestsHandler:  v.GetAllVinRequestsHandler,
		GetVinRequestHandler:      v.GetVinRequestHandler,
		UpdateVinRequestHandler:   v.UpdateVinRequestHandler,
		GetUserVinRequestsHandler: v.GetUserVinRequestsHandler,

		AdvancedDecodeHandler: rp.AdvancedDecodeHandler,
		GetAllReportsHandler:  rp.GetAllReportsHandler,
		GetReportHandler:      rp.GetReportHandler,
		GetReportByVINHandler: rp.GetReportByVINHandler,

		CreateNotificationHandler:   n.CreateNotificationHandler,
		ListNotificationsHandler:    n.ListNotificationsHandler,
		MarkNotificationReadHandler: n.MarkNotificationReadHandler,
		MarkAllReadHandler:          n.MarkAllReadHandler,
		UnreadCountHandler:          n.UnreadCountHandler,

		SubmitContactHandler: ct.SubmitContactHandler,
	}
}
