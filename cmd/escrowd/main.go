package main

import (
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gagliardetto/solana-go"

	"github.com/chainwork-labs/escrowpad/internal/api"
	"github.com/chainwork-labs/escrowpad/internal/config"
	"github.com/chainwork-labs/escrowpad/internal/dashboard"
	"github.com/chainwork-labs/escrowpad/internal/escrow"
	"github.com/chainwork-labs/escrowpad/internal/server"
)

// Build information (set via ldflags)
var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildTime  = "unknown"
)

func main() {
	var showVersion = flag.Bool("version", false, "Show version information")
	var enableLog = flag.Bool("log", false, "Enable logging output")
	flag.Parse()

	// Disable logging by default
	if !*enableLog {
		log.SetOutput(io.Discard)
	}

	if *showVersion {
		log.SetOutput(os.Stdout)
		log.SetFlags(0)
		log.Printf("escrowd - milestone escrow dashboard\n")
		log.Printf("Version: %s\n", Version)
		log.Printf("Commit: %s\n", CommitHash)
		log.Printf("Built: %s\n", BuildTime)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.SetOutput(os.Stderr)
		log.Fatal("Failed to load configuration:", err)
	}

	db, err := server.InitializeDB(cfg)
	if err != nil {
		log.SetOutput(os.Stderr)
		log.Fatal("Failed to initialize database:", err)
	}
	defer db.Close()

	// A keypair wallet is optional; without one the dashboard serves
	// project CRUD and queries, and escrow actions fail with
	// wallet_not_connected.
	var wallet escrow.Wallet
	if keypairPath := os.Getenv("ESCROWPAD_KEYPAIR"); keypairPath != "" {
		key, err := solana.PrivateKeyFromSolanaKeygenFile(keypairPath)
		if err != nil {
			log.SetOutput(os.Stderr)
			log.Fatal("Failed to load keypair:", err)
		}
		wallet = escrow.NewKeypairWallet(key)
	}

	escrowClient, err := server.InitializeEscrowClient(cfg, wallet)
	if err != nil {
		log.SetOutput(os.Stderr)
		log.Fatal("Failed to initialize escrow client:", err)
	}

	projectService, historyService, notificationService := server.InitializeServices(cfg, db.GetDB())
	controller := dashboard.NewController(projectService, escrowClient, historyService, notificationService)

	// An unreadable projects file is surfaced to clients as corrupt_state;
	// the server still starts so POST /api/store/reset can recover it.
	if _, err := projectService.Load(); err != nil {
		log.Printf("Stored project data is unreadable: %v", err)
		log.Println("Restore the projects file or recover with POST /api/store/reset")
	}

	apiServer := api.NewServer(controller, historyService, notificationService, cfg.JWTSecret)
	if err := apiServer.Start(cfg.Port); err != nil {
		log.SetOutput(os.Stderr)
		log.Fatal("Failed to start API server:", err)
	}
	log.Printf("API server started on port %d\n", cfg.Port)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	log.Println("\nShutting down server...")
	if err := apiServer.Shutdown(); err != nil {
		log.SetOutput(os.Stderr)
		log.Printf("Error shutting down API server: %v", err)
	}
	log.Println("Server shut down successfully")
}
