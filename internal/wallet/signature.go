package wallet

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// RecoverAddress returns the checksummed address that produced a personal_sign
// signature over message.
func RecoverAddress(message, signature string) (string, error) {
	sig, err := hexutil.Decode(signature)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if len(sig) != crypto.SignatureLength {
		return "", fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidSignature, crypto.SignatureLength, len(sig))
	}

	// wallets report V as 27/28, go-ethereum expects 0/1
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}

	pub, err := crypto.SigToPub(accounts.TextHash([]byte(message)), sig)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	return crypto.PubkeyToAddress(*pub).Hex(), nil
}

// SignedChallenge is the Wallet a browser proves it controls by signing
// ChallengeMessage(nonce). It yields the claimed address only when the
// signature recovers to it.
type SignedChallenge struct {
	Address   string
	Signature string
	Message   string
}

func (s SignedChallenge) RequestAccounts(_ context.Context) ([]string, error) {
	if s.Message == "" {
		return nil, fmt.Errorf("%w: no pending challenge", ErrRejected)
	}
	if strings.TrimSpace(s.Signature) == "" {
		return nil, ErrRejected
	}

	claimed, err := NormalizeAddress(s.Address)
	if err != nil {
		return nil, err
	}

	signer, err := RecoverAddress(s.Message, s.Signature)
	if err != nil {
		return nil, err
	}
	if signer != claimed {
		return nil, ErrSignatureMismatch
	}

	return []string{claimed}, nil
}

// Accounts reports the address without error when the signature is valid and
// no accounts otherwise.
func (s SignedChallenge) Accounts(ctx context.Context) ([]string, error) {
	addrs, err := s.RequestAccounts(ctx)
	if err != nil {
		return []string{}, nil
	}
	return addrs, nil
}
