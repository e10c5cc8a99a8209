package escrow

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
)

// Escrow accounts are addressed deterministically from the funder and the
// milestone's index within its project. Reordering milestones after creation
// would re-key every derived account, which is why the project model never
// allows it.

// DeriveEscrowAddress derives the escrow account PDA for a maker and seed.
func DeriveEscrowAddress(programID, maker solana.PublicKey, seed uint64) (solana.PublicKey, uint8, error) {
	seedBytes := make([]byte, 8)
	binary.LittleEndian.PutUint64(seedBytes, seed)

	return solana.FindProgramAddress([][]byte{
		[]byte("escrow"),
		maker.Bytes(),
		seedBytes,
	}, programID)
}

// DeriveVaultAddress derives the vault PDA holding the locked balance for an
// escrow account.
func DeriveVaultAddress(programID, escrow solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{
		[]byte("escrow_vault"),
		escrow.Bytes(),
	}, programID)
}
