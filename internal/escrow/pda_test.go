package escrow

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testProgramID = solana.MustPublicKeyFromBase58("6NKNtHYLCLmUpBqNDhhxycwUPZxjiZEimm9HddcALKRk")

func TestDeriveEscrowAddress(t *testing.T) {
	maker := solana.NewWallet().PublicKey()

	t.Run("Deterministic", func(t *testing.T) {
		a, bumpA, err := DeriveEscrowAddress(testProgramID, maker, 0)
		require.NoError(t, err)
		b, bumpB, err := DeriveEscrowAddress(testProgramID, maker, 0)
		require.NoError(t, err)

		assert.Equal(t, a, b)
		assert.Equal(t, bumpA, bumpB)
	})

	t.Run("SeedChangesAddress", func(t *testing.T) {
		a, _, err := DeriveEscrowAddress(testProgramID, maker, 0)
		require.NoError(t, err)
		b, _, err := DeriveEscrowAddress(testProgramID, maker, 1)
		require.NoError(t, err)

		assert.NotEqual(t, a, b)
	})

	t.Run("MakerChangesAddress", func(t *testing.T) {
		a, _, err := DeriveEscrowAddress(testProgramID, maker, 0)
		require.NoError(t, err)
		b, _, err := DeriveEscrowAddress(testProgramID, solana.NewWallet().PublicKey(), 0)
		require.NoError(t, err)

		assert.NotEqual(t, a, b)
	})

	t.Run("SeedBytesAreOrderSensitive", func(t *testing.T) {
		// 1 and 256 share byte values but at different positions in the
		// little-endian encoding.
		a, _, err := DeriveEscrowAddress(testProgramID, maker, 1)
		require.NoError(t, err)
		b, _, err := DeriveEscrowAddress(testProgramID, maker, 256)
		require.NoError(t, err)

		assert.NotEqual(t, a, b)
	})
}

func TestDeriveVaultAddress(t *testing.T) {
	maker := solana.NewWallet().PublicKey()
	escrow, _, err := DeriveEscrowAddress(testProgramID, maker, 0)
	require.NoError(t, err)

	vault, _, err := DeriveVaultAddress(testProgramID, escrow)
	require.NoError(t, err)
	assert.NotEqual(t, escrow, vault)

	again, _, err := DeriveVaultAddress(testProgramID, escrow)
	require.NoError(t, err)
	assert.Equal(t, vault, again)
}
