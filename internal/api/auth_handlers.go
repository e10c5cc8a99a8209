package api

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"github.com/chainwork-labs/escrowpad/internal/escrow"
	"github.com/chainwork-labs/escrowpad/internal/models"
)

const (
	challengeTTL = 5 * time.Minute
	sessionTTL   = 24 * time.Hour
	// challengePrefix namespaces the signed message so a login signature
	// cannot double as anything else.
	challengePrefix = "escrowpad:login:"
)

type challenge struct {
	nonce     string
	expiresAt time.Time
}

// authState issues and redeems wallet login challenges. Nonces are one-shot
// and expire; redemption mints an HS256 session token whose subject is the
// wallet address.
type authState struct {
	secret string

	mu         sync.Mutex
	challenges map[string]challenge
}

func newAuthState(secret string) *authState {
	return &authState{
		secret:     secret,
		challenges: make(map[string]challenge),
	}
}

func (a *authState) issue(address string) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	nonce := hex.EncodeToString(raw)

	a.mu.Lock()
	a.challenges[address] = challenge{nonce: nonce, expiresAt: time.Now().Add(challengeTTL)}
	a.mu.Unlock()
	return nonce, nil
}

// redeem consumes the pending nonce for address, returning it only once and
// only before expiry.
func (a *authState) redeem(address string) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	ch, ok := a.challenges[address]
	if !ok {
		return "", false
	}
	delete(a.challenges, address)
	if time.Now().After(ch.expiresAt) {
		return "", false
	}
	return ch.nonce, true
}

func (a *authState) mintToken(address string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   address,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(a.secret))
}

type authChallengeRequest struct {
	Address string `json:"address"`
}

type authVerifyRequest struct {
	Address   string `json:"address"`
	Signature string `json:"signature"`
}

func (s *Server) handleAuthChallenge(c *fiber.Ctx) error {
	var req authChallengeRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, models.WrapAppError(models.ErrCodeValidation, err, "malformed request body"))
	}
	if err := escrow.ValidateAddress(req.Address); err != nil {
		return writeError(c, err)
	}

	nonce, err := s.auth.issue(req.Address)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": challengePrefix + nonce,
	})
}

func (s *Server) handleAuthVerify(c *fiber.Ctx) error {
	var req authVerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, models.WrapAppError(models.ErrCodeValidation, err, "malformed request body"))
	}

	pub, err := solana.PublicKeyFromBase58(req.Address)
	if err != nil {
		return writeError(c, models.WrapAppError(models.ErrCodeInvalidAddress, err,
			"invalid wallet address %q", req.Address))
	}
	sig, err := solana.SignatureFromBase58(req.Signature)
	if err != nil {
		return writeError(c, models.WrapAppError(models.ErrCodeValidation, err, "invalid signature encoding"))
	}

	nonce, ok := s.auth.redeem(req.Address)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "no pending challenge for address",
		})
	}

	message := []byte(challengePrefix + nonce)
	if !ed25519.Verify(ed25519.PublicKey(pub.Bytes()), message, sig[:]) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "signature verification failed",
		})
	}

	token, err := s.auth.mintToken(req.Address)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"token":      token,
		"expires_in": int(sessionTTL.Seconds()),
	})
}
