package escrow

import (
	"bytes"
	"crypto/sha256"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// escrowDuration is the on-chain expiry window the program records for a new
// escrow, in seconds.
const escrowDuration = 30 * 24 * 60 * 60

// anchorDiscriminator computes the 8-byte method discriminator the program
// dispatches on.
func anchorDiscriminator(method string) []byte {
	h := sha256.Sum256([]byte("global:" + method))
	return h[:8]
}

type makeArgs struct {
	Seed      uint64
	Amount    uint64
	Duration  int64
	IsMutable bool
}

type updateArgs struct {
	Amount    uint64
	Expiry    int64
	IsMutable bool
}

// encodeInstructionData borsh-encodes args behind the method discriminator.
func encodeInstructionData(method string, args any) ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.Write(anchorDiscriminator(method))
	if args != nil {
		if err := bin.NewBorshEncoder(buf).Encode(args); err != nil {
			return nil, fmt.Errorf("failed to encode %s args: %w", method, err)
		}
	}
	return buf.Bytes(), nil
}

type makeAccounts struct {
	Maker     solana.PublicKey
	MintA     solana.PublicKey
	MintB     solana.PublicKey
	MakerAtaA solana.PublicKey
	Escrow    solana.PublicKey
	Vault     solana.PublicKey
}

// makeInstruction locks funds into a new escrow account.
func makeInstruction(programID solana.PublicKey, accs makeAccounts, args makeArgs) (solana.Instruction, error) {
	data, err := encodeInstructionData("make", args)
	if err != nil {
		return nil, err
	}

	return solana.NewInstruction(programID, solana.AccountMetaSlice{
		solana.Meta(accs.Maker).WRITE().SIGNER(),
		solana.Meta(accs.MintA),
		solana.Meta(accs.MintB),
		solana.Meta(accs.MakerAtaA).WRITE(),
		solana.Meta(accs.Escrow).WRITE(),
		solana.Meta(accs.Vault).WRITE(),
		solana.Meta(solana.SystemProgramID),
		solana.Meta(solana.SPLAssociatedTokenAccountProgramID),
		solana.Meta(solana.TokenProgramID),
	}, data), nil
}

type takeAccounts struct {
	Maker     solana.PublicKey
	Taker     solana.PublicKey
	MintA     solana.PublicKey
	MintB     solana.PublicKey
	MakerAtaA solana.PublicKey
	MakerAtaB solana.PublicKey
	TakerAtaA solana.PublicKey
	TakerAtaB solana.PublicKey
	Escrow    solana.PublicKey
	Vault     solana.PublicKey
}

// takeInstruction releases the escrowed funds to the taker.
func takeInstruction(programID solana.PublicKey, accs takeAccounts) (solana.Instruction, error) {
	data, err := encodeInstructionData("take", nil)
	if err != nil {
		return nil, err
	}

	return solana.NewInstruction(programID, solana.AccountMetaSlice{
		solana.Meta(accs.Maker).WRITE(),
		solana.Meta(accs.Taker).WRITE().SIGNER(),
		solana.Meta(accs.MintA),
		solana.Meta(accs.MintB),
		solana.Meta(accs.MakerAtaA).WRITE(),
		solana.Meta(accs.MakerAtaB).WRITE(),
		solana.Meta(accs.TakerAtaA).WRITE(),
		solana.Meta(accs.TakerAtaB).WRITE(),
		solana.Meta(accs.Escrow).WRITE(),
		solana.Meta(accs.Vault).WRITE(),
		solana.Meta(solana.SystemProgramID),
		solana.Meta(solana.SPLAssociatedTokenAccountProgramID),
		solana.Meta(solana.TokenProgramID),
	}, data), nil
}

type cancelAccounts struct {
	Maker     solana.PublicKey
	MintA     solana.PublicKey
	MakerAtaA solana.PublicKey
	Vault     solana.PublicKey
	Escrow    solana.PublicKey
}

// cancelInstruction returns the escrowed funds to the maker.
func cancelInstruction(programID solana.PublicKey, accs cancelAccounts) (solana.Instruction, error) {
	data, err := encodeInstructionData("cancel", nil)
	if err != nil {
		return nil, err
	}

	return solana.NewInstruction(programID, solana.AccountMetaSlice{
		solana.Meta(accs.Maker).WRITE().SIGNER(),
		solana.Meta(accs.MintA),
		solana.Meta(accs.MakerAtaA).WRITE(),
		solana.Meta(accs.Vault).WRITE(),
		solana.Meta(accs.Escrow).WRITE(),
		solana.Meta(solana.TokenProgramID),
		solana.Meta(solana.SystemProgramID),
	}, data), nil
}

// updateInstruction rewrites the terms of a mutable escrow.
func updateInstruction(programID, maker, newTakerMint, escrow solana.PublicKey, args updateArgs) (solana.Instruction, error) {
	data, err := encodeInstructionData("update", args)
	if err != nil {
		return nil, err
	}

	return solana.NewInstruction(programID, solana.AccountMetaSlice{
		solana.Meta(maker).SIGNER(),
		solana.Meta(newTakerMint),
		solana.Meta(escrow).WRITE(),
	}, data), nil
}
