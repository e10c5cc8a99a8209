package escrow

import (
	"errors"

	"github.com/gagliardetto/solana-go"
)

// ErrSignatureDeclined is returned by a Wallet when the holder refuses to
// sign. Wallet implementations must return this sentinel (wrapped or not)
// rather than a free-form message so the client can classify the failure.
var ErrSignatureDeclined = errors.New("wallet signature declined")

// Wallet is the signing boundary. Key management and the approval flow live
// behind it; the escrow client only needs an address and a signature.
type Wallet interface {
	Connected() bool
	Address() solana.PublicKey
	SignTransaction(tx *solana.Transaction) error
}

// KeypairWallet signs with an in-process keypair. Used by headless
// deployments and tests; browser-style approval wallets implement the same
// interface elsewhere.
type KeypairWallet struct {
	key solana.PrivateKey
}

func NewKeypairWallet(key solana.PrivateKey) *KeypairWallet {
	return &KeypairWallet{key: key}
}

func (w *KeypairWallet) Connected() bool {
	return len(w.key) > 0
}

func (w *KeypairWallet) Address() solana.PublicKey {
	return w.key.PublicKey()
}

func (w *KeypairWallet) SignTransaction(tx *solana.Transaction) error {
	_, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(w.key.PublicKey()) {
			return &w.key
		}
		return nil
	})
	return err
}
