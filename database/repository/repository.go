package repository

import (
	"carvistors/database"
	accountRepo "carvistors/database/repository/account"
	notificationRepo "carvistors/database/repository/notification"
	reportRepo "carvistors/database/repository/report"
	vinRequestRepo "carvistors/database/repository/vinrequest"
)

// Re-export the AccountRepository interface.
type AccountRepository = accountRepo.AccountRepository

// Re-export the NotificationRepository interface.
type NotificationRepository = notificationRepo.NotificationRepository

// Re-export the VinRequestRepository interface.
type VinRequestRepository = vinRequestRepo.VinRequestRepository

// Re-export the ReportRepository interface.
type ReportRepository = reportRepo.ReportRepository

// Repositories groups every Mongo-backed repository.
type Repositories struct {
	Accounts      AccountRepository
	Notifications NotificationRepository
	VinRequests   VinRequestRepository
	Reports       ReportRepository
}

// NewMongoRepositories builds all repositories on the configured database.
// database.InitDB must have been called.
func NewMongoRepositories() *Repositories {
	db := database.DB()
	return &Repositories{
		Accounts:      accountRepo.NewMongoAccountRepo(db),
		Notifications: notificationRepo.NewMongoNotificationRepo(db),
		VinRequests:   vinRequestRepo.NewMongoVinRequestRepo(db),
		Reports:       reportRepo.NewMongoReportRepo(db),
	}
}
