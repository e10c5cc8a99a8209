package escrow

import (
	"context"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"

	"github.com/chainwork-labs/escrowpad/internal/models"
)

func TestLamports(t *testing.T) {
	assert.Equal(t, uint64(1_000_000_000), lamports(1.0))
	assert.Equal(t, uint64(2_500_000_000), lamports(2.5))
	assert.Equal(t, uint64(1), lamports(0.000000001))
	assert.Equal(t, uint64(0), lamports(0))
}

func TestValidateAddress(t *testing.T) {
	assert.NoError(t, ValidateAddress(solana.NewWallet().PublicKey().String()))

	err := ValidateAddress("not-an-address")
	assert.Equal(t, models.ErrCodeInvalidAddress, models.CodeOf(err))

	err = ValidateAddress("")
	assert.Equal(t, models.ErrCodeInvalidAddress, models.CodeOf(err))
}

// The preflight gates run before anything reaches the RPC endpoint, so they
// are testable against an unreachable one.
func TestClientPreflight(t *testing.T) {
	freelancer := solana.NewWallet().PublicKey().String()

	t.Run("NoWallet", func(t *testing.T) {
		c := NewClient("http://127.0.0.1:0", testProgramID, nil)

		_, err := c.Fund(context.Background(), freelancer, 1.0, 0)
		assert.Equal(t, models.ErrCodeWalletNotConnected, models.CodeOf(err))

		err = c.Claim(context.Background(), freelancer, freelancer)
		assert.Equal(t, models.ErrCodeWalletNotConnected, models.CodeOf(err))

		err = c.Refund(context.Background(), freelancer)
		assert.Equal(t, models.ErrCodeWalletNotConnected, models.CodeOf(err))

		err = c.Update(context.Background(), freelancer, UpdateTerms{})
		assert.Equal(t, models.ErrCodeWalletNotConnected, models.CodeOf(err))
	})

	wallet := NewKeypairWallet(solana.NewWallet().PrivateKey)

	t.Run("InvalidFreelancerAddress", func(t *testing.T) {
		c := NewClient("http://127.0.0.1:0", testProgramID, wallet)

		_, err := c.Fund(context.Background(), "garbage", 1.0, 0)
		assert.Equal(t, models.ErrCodeInvalidAddress, models.CodeOf(err))
	})

	t.Run("NonPositiveAmount", func(t *testing.T) {
		c := NewClient("http://127.0.0.1:0", testProgramID, wallet)

		_, err := c.Fund(context.Background(), freelancer, 0, 0)
		assert.Equal(t, models.ErrCodeValidation, models.CodeOf(err))

		_, err = c.Fund(context.Background(), freelancer, -1.5, 0)
		assert.Equal(t, models.ErrCodeValidation, models.CodeOf(err))
	})

	t.Run("InvalidEscrowAccount", func(t *testing.T) {
		c := NewClient("http://127.0.0.1:0", testProgramID, wallet)

		err := c.Claim(context.Background(), "garbage", freelancer)
		assert.Equal(t, models.ErrCodeInvalidAddress, models.CodeOf(err))

		err = c.Refund(context.Background(), "garbage")
		assert.Equal(t, models.ErrCodeInvalidAddress, models.CodeOf(err))
	})
}
