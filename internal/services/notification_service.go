package services

import (
	"github.com/chainwork-labs/escrowpad/internal/models"
	"gorm.io/gorm"
)

// NotificationService delivers dashboard notifications to wallet addresses.
type NotificationService interface {
	Notify(notification *models.Notification) error
	ListByWallet(walletAddress string, unreadOnly bool) ([]models.Notification, error)
	MarkRead(id uint) error
}

type notificationService struct {
	db *gorm.DB
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(db *gorm.DB) NotificationService {
	return &notificationService{db: db}
}

// Notify stores a notification for later delivery
func (s *notificationService) Notify(notification *models.Notification) error {
	return s.db.Create(notification).Error
}

// ListByWallet returns notifications for a wallet, newest first
func (s *notificationService) ListByWallet(walletAddress string, unreadOnly bool) ([]models.Notification, error) {
	query := s.db.Where("wallet_address = ?", walletAddress)
	if unreadOnly {
		query = query.Where("read = ?", false)
	}

	var notifications []models.Notification
	err := query.Order("created_at DESC").Find(&notifications).Error
	return notifications, err
}

// MarkRead marks a single notification as read
func (s *notificationService) MarkRead(id uint) error {
	result := s.db.Model(&models.Notification{}).Where("id = ?", id).Update("read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.NewAppError(models.ErrCodeNotFound, "notification %d not found", id)
	}
	return nil
}
