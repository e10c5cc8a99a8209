package escrow

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnchorDiscriminator(t *testing.T) {
	make1 := anchorDiscriminator("make")
	make2 := anchorDiscriminator("make")
	take := anchorDiscriminator("take")

	assert.Len(t, make1, 8)
	assert.Equal(t, make1, make2)
	assert.NotEqual(t, make1, take)
}

func TestEncodeInstructionData(t *testing.T) {
	t.Run("NoArgs", func(t *testing.T) {
		data, err := encodeInstructionData("take", nil)
		require.NoError(t, err)
		assert.Equal(t, anchorDiscriminator("take"), data)
	})

	t.Run("MakeArgs", func(t *testing.T) {
		data, err := encodeInstructionData("make", makeArgs{
			Seed:      1,
			Amount:    2_500_000_000,
			Duration:  escrowDuration,
			IsMutable: true,
		})
		require.NoError(t, err)

		// 8-byte discriminator + u64 + u64 + i64 + bool
		assert.Len(t, data, 8+8+8+8+1)
		assert.Equal(t, anchorDiscriminator("make"), data[:8])
		// Borsh lays out fixed-width integers little-endian.
		assert.Equal(t, byte(1), data[8])
		assert.Equal(t, byte(1), data[32])
	})

	t.Run("UpdateArgs", func(t *testing.T) {
		data, err := encodeInstructionData("update", updateArgs{Amount: 1, Expiry: 2, IsMutable: false})
		require.NoError(t, err)
		assert.Len(t, data, 8+8+8+1)
	})
}

func TestMakeInstruction(t *testing.T) {
	maker := solana.NewWallet().PublicKey()
	escrow, _, err := DeriveEscrowAddress(testProgramID, maker, 0)
	require.NoError(t, err)
	vault, _, err := DeriveVaultAddress(testProgramID, escrow)
	require.NoError(t, err)
	makerAta, _, err := solana.FindAssociatedTokenAddress(maker, solana.WrappedSol)
	require.NoError(t, err)

	ix, err := makeInstruction(testProgramID, makeAccounts{
		Maker:     maker,
		MintA:     solana.WrappedSol,
		MintB:     solana.WrappedSol,
		MakerAtaA: makerAta,
		Escrow:    escrow,
		Vault:     vault,
	}, makeArgs{Seed: 0, Amount: 1_000_000_000, Duration: escrowDuration, IsMutable: true})
	require.NoError(t, err)

	assert.Equal(t, testProgramID, ix.ProgramID())

	accounts := ix.Accounts()
	require.Len(t, accounts, 9)
	assert.Equal(t, maker, accounts[0].PublicKey)
	assert.True(t, accounts[0].IsSigner)
	assert.True(t, accounts[0].IsWritable)
	assert.Equal(t, escrow, accounts[4].PublicKey)
	assert.Equal(t, solana.SystemProgramID, accounts[6].PublicKey)
	assert.Equal(t, solana.TokenProgramID, accounts[8].PublicKey)

	data, err := ix.Data()
	require.NoError(t, err)
	assert.Equal(t, anchorDiscriminator("make"), data[:8])
}

func TestCancelInstruction(t *testing.T) {
	maker := solana.NewWallet().PublicKey()
	escrow, _, err := DeriveEscrowAddress(testProgramID, maker, 0)
	require.NoError(t, err)
	vault, _, err := DeriveVaultAddress(testProgramID, escrow)
	require.NoError(t, err)
	makerAta, _, err := solana.FindAssociatedTokenAddress(maker, solana.WrappedSol)
	require.NoError(t, err)

	ix, err := cancelInstruction(testProgramID, cancelAccounts{
		Maker:     maker,
		MintA:     solana.WrappedSol,
		MakerAtaA: makerAta,
		Vault:     vault,
		Escrow:    escrow,
	})
	require.NoError(t, err)

	accounts := ix.Accounts()
	require.Len(t, accounts, 7)
	assert.True(t, accounts[0].IsSigner)

	data, err := ix.Data()
	require.NoError(t, err)
	assert.Equal(t, anchorDiscriminator("cancel"), data)
}
