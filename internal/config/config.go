package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// DefaultProgramID is the escrow program deployed on devnet.
const DefaultProgramID = "6NKNtHYLCLmUpBqNDhhxycwUPZxjiZEimm9HddcALKRk"

// DefaultRPCURL pins the dashboard to the devnet cluster unless overridden.
const DefaultRPCURL = "https://api.devnet.solana.com"

type Config struct {
	// RPCURL is the Solana JSON-RPC endpoint.
	RPCURL string
	// ProgramID is the on-chain escrow program address.
	ProgramID string
	// ProjectsPath is the JSON slot file holding the project collection.
	ProjectsPath string
	// DatabasePath is the SQLite file for history and notifications.
	// Ignored when DatabaseURL is set.
	DatabasePath string
	// DatabaseURL is an optional Postgres DSN.
	DatabaseURL string
	// Port for the HTTP API.
	Port int
	// JWTSecret signs wallet session tokens.
	JWTSecret string
}

// Load reads configuration from the environment, with a .env file as an
// optional source. Missing values fall back to sensible defaults rooted in
// the user's home directory.
func Load() (*Config, error) {
	// A missing .env file is fine; the environment alone is enough.
	_ = godotenv.Load()

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve home directory: %w", err)
	}
	dataDir := filepath.Join(home, ".escrowpad")

	cfg := &Config{
		RPCURL:       getenv("ESCROWPAD_RPC_URL", DefaultRPCURL),
		ProgramID:    getenv("ESCROWPAD_PROGRAM_ID", DefaultProgramID),
		ProjectsPath: getenv("ESCROWPAD_PROJECTS_PATH", filepath.Join(dataDir, "projects.json")),
		DatabasePath: getenv("ESCROWPAD_DB_PATH", filepath.Join(dataDir, "escrowpad.db")),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		JWTSecret:    getenv("ESCROWPAD_JWT_SECRET", ""),
	}

	port := getenv("ESCROWPAD_PORT", "8080")
	cfg.Port, err = strconv.Atoi(port)
	if err != nil {
		return nil, fmt.Errorf("invalid ESCROWPAD_PORT %q: %w", port, err)
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("ESCROWPAD_JWT_SECRET is required")
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
