package services

import (
	"github.com/chainwork-labs/escrowpad/internal/models"
	"gorm.io/gorm"
)

// HistoryService records every escrow action attempted through the dashboard.
type HistoryService interface {
	Record(record *models.TransactionRecord) error
	ListByProject(projectID string) ([]models.TransactionRecord, error)
	ListByWallet(walletAddress string) ([]models.TransactionRecord, error)
	ListByMilestone(milestoneID string) ([]models.TransactionRecord, error)
}

type historyService struct {
	db *gorm.DB
}

// NewHistoryService creates a new HistoryService
func NewHistoryService(db *gorm.DB) HistoryService {
	return &historyService{db: db}
}

// Record appends a transaction record to the audit trail
func (s *historyService) Record(record *models.TransactionRecord) error {
	return s.db.Create(record).Error
}

// ListByProject returns all records for a project, newest first
func (s *historyService) ListByProject(projectID string) ([]models.TransactionRecord, error) {
	var records []models.TransactionRecord
	err := s.db.Where("project_id = ?", projectID).Order("created_at DESC").Find(&records).Error
	return records, err
}

// ListByWallet returns all records attempted by a wallet, newest first
func (s *historyService) ListByWallet(walletAddress string) ([]models.TransactionRecord, error) {
	var records []models.TransactionRecord
	err := s.db.Where("wallet_address = ?", walletAddress).Order("created_at DESC").Find(&records).Error
	return records, err
}

// ListByMilestone returns all records for a single milestone, newest first
func (s *historyService) ListByMilestone(milestoneID string) ([]models.TransactionRecord, error) {
	var records []models.TransactionRecord
	err := s.db.Where("milestone_id = ?", milestoneID).Order("created_at DESC").Find(&records).Error
	return records, err
}
