// Package escrow is the typed binding to the on-chain escrow program. Every
// operation issues exactly one external transaction and mutates no local
// state; the dashboard controller owns all bookkeeping. Failures come back
// classified (models.AppError) from structural checks, never from matching
// error text.
package escrow

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"

	"github.com/chainwork-labs/escrowpad/internal/models"
)

// confirmPollInterval is how often a submitted transaction's status is
// re-checked. Confirmation has no deadline of its own; cancel the context to
// stop waiting. The transaction itself cannot be aborted once submitted.
const confirmPollInterval = 500 * time.Millisecond

// UpdateTerms carries the replacement terms for a mutable escrow.
type UpdateTerms struct {
	NewTakerMint string  `json:"new_taker_mint,omitempty"`
	Amount       float64 `json:"amount"`
	Expiry       int64   `json:"expiry"`
	IsMutable    bool    `json:"is_mutable"`
}

// Client is the gateway to the escrow program.
type Client interface {
	// Fund locks amount for the freelancer into a new escrow account derived
	// from the caller's address and the milestone index, and returns the
	// escrow account address. Provisions the caller's wrapped-SOL token
	// account when missing.
	Fund(ctx context.Context, freelancerAddress string, amount float64, milestoneIndex int) (string, error)
	// Claim releases an escrow's funds to the calling freelancer.
	Claim(ctx context.Context, escrowAccount string, clientAddress string) error
	// Refund returns a still-funded escrow's balance to the calling client.
	Refund(ctx context.Context, escrowAccount string) error
	// Update rewrites the terms of a mutable escrow.
	Update(ctx context.Context, escrowAccount string, terms UpdateTerms) error
}

type client struct {
	rpc       *rpc.Client
	wallet    Wallet
	programID solana.PublicKey
}

// NewClient creates an escrow Client against the given RPC endpoint.
func NewClient(endpoint string, programID solana.PublicKey, wallet Wallet) Client {
	return &client{
		rpc:       rpc.New(endpoint),
		wallet:    wallet,
		programID: programID,
	}
}

// lamports converts a display-unit amount to the chain's smallest unit.
func lamports(amount float64) uint64 {
	return uint64(math.Round(amount * float64(solana.LAMPORTS_PER_SOL)))
}

func (c *client) Fund(ctx context.Context, freelancerAddress string, amount float64, milestoneIndex int) (string, error) {
	if err := c.ensureConnected(); err != nil {
		return "", err
	}
	if _, err := parseAddress(freelancerAddress); err != nil {
		return "", err
	}
	if amount <= 0 {
		return "", models.NewAppError(models.ErrCodeValidation, "amount must be positive")
	}

	maker := c.wallet.Address()
	amountLamports := lamports(amount)

	balance, err := c.rpc.GetBalance(ctx, maker, rpc.CommitmentConfirmed)
	if err != nil {
		return "", models.WrapAppError(models.ErrCodeExternalProgram, err, "failed to query balance")
	}
	if balance.Value < amountLamports {
		return "", models.NewAppError(models.ErrCodeInsufficientFunds,
			"wallet holds %d lamports, %d required", balance.Value, amountLamports)
	}

	escrow, _, err := DeriveEscrowAddress(c.programID, maker, uint64(milestoneIndex))
	if err != nil {
		return "", models.WrapAppError(models.ErrCodeExternalProgram, err, "failed to derive escrow address")
	}
	vault, _, err := DeriveVaultAddress(c.programID, escrow)
	if err != nil {
		return "", models.WrapAppError(models.ErrCodeExternalProgram, err, "failed to derive vault address")
	}
	makerAtaA, _, err := solana.FindAssociatedTokenAddress(maker, solana.WrappedSol)
	if err != nil {
		return "", models.WrapAppError(models.ErrCodeExternalProgram, err, "failed to derive token account")
	}

	var instructions []solana.Instruction
	if err := c.ensureTokenAccount(ctx, &instructions, maker, maker, makerAtaA); err != nil {
		return "", err
	}

	makeIx, err := makeInstruction(c.programID, makeAccounts{
		Maker:     maker,
		MintA:     solana.WrappedSol,
		MintB:     solana.WrappedSol,
		MakerAtaA: makerAtaA,
		Escrow:    escrow,
		Vault:     vault,
	}, makeArgs{
		Seed:      uint64(milestoneIndex),
		Amount:    amountLamports,
		Duration:  escrowDuration,
		IsMutable: true,
	})
	if err != nil {
		return "", models.WrapAppError(models.ErrCodeExternalProgram, err, "failed to build fund instruction")
	}
	instructions = append(instructions, makeIx)

	if err := c.submit(ctx, instructions); err != nil {
		return "", err
	}
	return escrow.String(), nil
}

func (c *client) Claim(ctx context.Context, escrowAccount string, clientAddress string) error {
	if err := c.ensureConnected(); err != nil {
		return err
	}
	maker, err := parseAddress(clientAddress)
	if err != nil {
		return err
	}
	escrow, err := parseAddress(escrowAccount)
	if err != nil {
		return err
	}
	if err := c.requireAccount(ctx, escrow); err != nil {
		return err
	}

	taker := c.wallet.Address()
	vault, _, err := DeriveVaultAddress(c.programID, escrow)
	if err != nil {
		return models.WrapAppError(models.ErrCodeExternalProgram, err, "failed to derive vault address")
	}

	// Both sides settle in wrapped SOL, so maker and taker each need one
	// token account, referenced for both mints. The taker pays for any that
	// are missing.
	makerAta, _, err := solana.FindAssociatedTokenAddress(maker, solana.WrappedSol)
	if err != nil {
		return models.WrapAppError(models.ErrCodeExternalProgram, err, "failed to derive token account")
	}
	takerAta, _, err := solana.FindAssociatedTokenAddress(taker, solana.WrappedSol)
	if err != nil {
		return models.WrapAppError(models.ErrCodeExternalProgram, err, "failed to derive token account")
	}

	var instructions []solana.Instruction
	if err := c.ensureTokenAccount(ctx, &instructions, taker, maker, makerAta); err != nil {
		return err
	}
	if err := c.ensureTokenAccount(ctx, &instructions, taker, taker, takerAta); err != nil {
		return err
	}

	takeIx, err := takeInstruction(c.programID, takeAccounts{
		Maker:     maker,
		Taker:     taker,
		MintA:     solana.WrappedSol,
		MintB:     solana.WrappedSol,
		MakerAtaA: makerAta,
		MakerAtaB: makerAta,
		TakerAtaA: takerAta,
		TakerAtaB: takerAta,
		Escrow:    escrow,
		Vault:     vault,
	})
	if err != nil {
		return models.WrapAppError(models.ErrCodeExternalProgram, err, "failed to build claim instruction")
	}
	instructions = append(instructions, takeIx)

	return c.submit(ctx, instructions)
}

func (c *client) Refund(ctx context.Context, escrowAccount string) error {
	if err := c.ensureConnected(); err != nil {
		return err
	}
	escrow, err := parseAddress(escrowAccount)
	if err != nil {
		return err
	}
	if err := c.requireAccount(ctx, escrow); err != nil {
		return err
	}

	maker := c.wallet.Address()
	vault, _, err := DeriveVaultAddress(c.programID, escrow)
	if err != nil {
		return models.WrapAppError(models.ErrCodeExternalProgram, err, "failed to derive vault address")
	}
	makerAtaA, _, err := solana.FindAssociatedTokenAddress(maker, solana.WrappedSol)
	if err != nil {
		return models.WrapAppError(models.ErrCodeExternalProgram, err, "failed to derive token account")
	}

	cancelIx, err := cancelInstruction(c.programID, cancelAccounts{
		Maker:     maker,
		MintA:     solana.WrappedSol,
		MakerAtaA: makerAtaA,
		Vault:     vault,
		Escrow:    escrow,
	})
	if err != nil {
		return models.WrapAppError(models.ErrCodeExternalProgram, err, "failed to build refund instruction")
	}

	return c.submit(ctx, []solana.Instruction{cancelIx})
}

func (c *client) Update(ctx context.Context, escrowAccount string, terms UpdateTerms) error {
	if err := c.ensureConnected(); err != nil {
		return err
	}
	escrow, err := parseAddress(escrowAccount)
	if err != nil {
		return err
	}
	if err := c.requireAccount(ctx, escrow); err != nil {
		return err
	}

	newTakerMint := solana.WrappedSol
	if terms.NewTakerMint != "" {
		newTakerMint, err = parseAddress(terms.NewTakerMint)
		if err != nil {
			return err
		}
	}

	updateIx, err := updateInstruction(c.programID, c.wallet.Address(), newTakerMint, escrow, updateArgs{
		Amount:    lamports(terms.Amount),
		Expiry:    terms.Expiry,
		IsMutable: terms.IsMutable,
	})
	if err != nil {
		return models.WrapAppError(models.ErrCodeExternalProgram, err, "failed to build update instruction")
	}

	return c.submit(ctx, []solana.Instruction{updateIx})
}

func (c *client) ensureConnected() error {
	if c.wallet == nil || !c.wallet.Connected() {
		return models.NewAppError(models.ErrCodeWalletNotConnected, "no connected wallet")
	}
	return nil
}

// ValidateAddress checks the base58 wallet identifier format without any
// network call.
func ValidateAddress(address string) error {
	_, err := parseAddress(address)
	return err
}

// parseAddress validates the base58 wallet identifier format.
func parseAddress(address string) (solana.PublicKey, error) {
	pub, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return solana.PublicKey{}, models.WrapAppError(models.ErrCodeInvalidAddress, err,
			"invalid wallet address %q", address)
	}
	return pub, nil
}

// requireAccount fails with escrow_not_found when the account does not exist
// on chain.
func (c *client) requireAccount(ctx context.Context, account solana.PublicKey) error {
	info, err := c.rpc.GetAccountInfo(ctx, account)
	if errors.Is(err, rpc.ErrNotFound) {
		return models.NewAppError(models.ErrCodeEscrowNotFound, "escrow account %s does not exist", account)
	}
	if err != nil {
		return models.WrapAppError(models.ErrCodeExternalProgram, err, "failed to look up escrow account")
	}
	if info == nil || info.Value == nil {
		return models.NewAppError(models.ErrCodeEscrowNotFound, "escrow account %s does not exist", account)
	}
	return nil
}

// ensureTokenAccount prepends a create-associated-token-account instruction
// when the account is missing on chain.
func (c *client) ensureTokenAccount(ctx context.Context, instructions *[]solana.Instruction, payer, owner, ata solana.PublicKey) error {
	info, err := c.rpc.GetAccountInfo(ctx, ata)
	if err != nil && !errors.Is(err, rpc.ErrNotFound) {
		return models.WrapAppError(models.ErrCodeExternalProgram, err, "failed to look up token account")
	}
	if err == nil && info != nil && info.Value != nil {
		return nil
	}

	*instructions = append(*instructions,
		associatedtokenaccount.NewCreateInstruction(payer, owner, solana.WrappedSol).Build())
	return nil
}

// submit signs, sends, and waits for confirmation of a single transaction.
func (c *client) submit(ctx context.Context, instructions []solana.Instruction) error {
	recent, err := c.rpc.GetLatestBlockhash(ctx, rpc.CommitmentConfirmed)
	if err != nil {
		return models.WrapAppError(models.ErrCodeExternalProgram, err, "failed to fetch blockhash")
	}

	tx, err := solana.NewTransaction(instructions, recent.Value.Blockhash,
		solana.TransactionPayer(c.wallet.Address()))
	if err != nil {
		return models.WrapAppError(models.ErrCodeExternalProgram, err, "failed to build transaction")
	}

	if err := c.wallet.SignTransaction(tx); err != nil {
		if errors.Is(err, ErrSignatureDeclined) {
			return models.WrapAppError(models.ErrCodeUserRejected, err, "transaction signature declined")
		}
		return models.WrapAppError(models.ErrCodeExternalProgram, err, "failed to sign transaction")
	}

	sig, err := c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		return models.WrapAppError(models.ErrCodeExternalProgram, err, "transaction rejected")
	}

	return c.confirm(ctx, sig)
}

// confirm polls until the transaction reaches confirmed commitment or the
// context ends.
func (c *client) confirm(ctx context.Context, sig solana.Signature) error {
	ticker := time.NewTicker(confirmPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return models.WrapAppError(models.ErrCodeExternalProgram, ctx.Err(),
				"abandoned waiting for confirmation of %s", sig)
		case <-ticker.C:
		}

		statuses, err := c.rpc.GetSignatureStatuses(ctx, true, sig)
		if err != nil {
			return models.WrapAppError(models.ErrCodeExternalProgram, err, "failed to query transaction status")
		}
		if len(statuses.Value) == 0 || statuses.Value[0] == nil {
			continue
		}

		status := statuses.Value[0]
		if status.Err != nil {
			return models.NewAppError(models.ErrCodeExternalProgram,
				"transaction %s failed on chain: %v", sig, status.Err)
		}
		if status.ConfirmationStatus == rpc.ConfirmationStatusConfirmed ||
			status.ConfirmationStatus == rpc.ConfirmationStatusFinalized {
			return nil
		}
	}
}
