package server

import (
	"github.com/gagliardetto/solana-go"

	"github.com/chainwork-labs/escrowpad/internal/config"
	"github.com/chainwork-labs/escrowpad/internal/escrow"
	"github.com/chainwork-labs/escrowpad/internal/services"
	"github.com/chainwork-labs/escrowpad/internal/storage"
	"gorm.io/gorm"
)

// InitializeDB opens the relational store, preferring a Postgres DSN when
// configured and falling back to the local SQLite file.
func InitializeDB(cfg *config.Config) (services.DBService, error) {
	if cfg.DatabaseURL != "" {
		return services.NewPostgresDBService(cfg.DatabaseURL)
	}
	return services.NewSqliteDBService(cfg.DatabasePath)
}

// InitializeServices wires the store-backed services.
func InitializeServices(cfg *config.Config, db *gorm.DB) (services.ProjectService, services.HistoryService, services.NotificationService) {
	projectService := services.NewProjectService(storage.NewFileSlot(cfg.ProjectsPath))
	historyService := services.NewHistoryService(db)
	notificationService := services.NewNotificationService(db)

	return projectService, historyService, notificationService
}

// InitializeEscrowClient builds the on-chain gateway from configuration.
func InitializeEscrowClient(cfg *config.Config, wallet escrow.Wallet) (escrow.Client, error) {
	programID, err := solana.PublicKeyFromBase58(cfg.ProgramID)
	if err != nil {
		return nil, err
	}
	return escrow.NewClient(cfg.RPCURL, programID, wallet), nil
}
