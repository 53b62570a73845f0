// Package wallet models the browser wallet that identifies a TaskBoard user.
//
// The wallet itself lives in the user's browser. A Wallet value is the
// server's view of it: a source of account addresses the user has authorized.
package wallet

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrUnavailable       = errors.New("no wallet available")
	ErrRejected          = errors.New("wallet request rejected")
	ErrInvalidAddress    = errors.New("invalid wallet address")
	ErrInvalidSignature  = errors.New("invalid signature")
	ErrSignatureMismatch = errors.New("signature does not match address")
)

// Wallet is an injected account provider.
type Wallet interface {
	// RequestAccounts asks for account access and may prompt the user.
	RequestAccounts(ctx context.Context) ([]string, error)

	// Accounts returns accounts that are already authorized without prompting.
	Accounts(ctx context.Context) ([]string, error)
}

// NormalizeAddress validates a hex address and returns its EIP-55 checksummed form.
func NormalizeAddress(address string) (string, error) {
	if !common.IsHexAddress(address) {
		return "", ErrInvalidAddress
	}
	return common.HexToAddress(address).Hex(), nil
}

// ShortAddress renders 0x1234...abcd for display.
func ShortAddress(address string) string {
	if len(address) <= 10 {
		return address
	}
	return address[:6] + "..." + address[len(address)-4:]
}
