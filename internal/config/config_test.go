package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("ESCROWPAD_JWT_SECRET", "secret")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, DefaultRPCURL, cfg.RPCURL)
		assert.Equal(t, DefaultProgramID, cfg.ProgramID)
		assert.Equal(t, 8080, cfg.Port)
		assert.Contains(t, cfg.ProjectsPath, ".escrowpad")
		assert.Contains(t, cfg.DatabasePath, ".escrowpad")
	})

	t.Run("Overrides", func(t *testing.T) {
		t.Setenv("ESCROWPAD_JWT_SECRET", "secret")
		t.Setenv("ESCROWPAD_RPC_URL", "http://localhost:8899")
		t.Setenv("ESCROWPAD_PORT", "9090")
		t.Setenv("DATABASE_URL", "postgres://localhost/escrowpad")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8899", cfg.RPCURL)
		assert.Equal(t, 9090, cfg.Port)
		assert.Equal(t, "postgres://localhost/escrowpad", cfg.DatabaseURL)
	})

	t.Run("MissingSecret", func(t *testing.T) {
		t.Setenv("ESCROWPAD_JWT_SECRET", "")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("BadPort", func(t *testing.T) {
		t.Setenv("ESCROWPAD_JWT_SECRET", "secret")
		t.Setenv("ESCROWPAD_PORT", "not-a-port")

		_, err := Load()
		assert.Error(t, err)
	})
}
