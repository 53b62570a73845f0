package wallet

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateNonce generates a random challenge nonce in the format XXXX-XXXX-XXXX-XXXX
func GenerateNonce() (string, error) {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	hex := hex.EncodeToString(bytes)
	return fmt.Sprintf("%s-%s-%s-%s",
		hex[0:4],
		hex[4:8],
		hex[8:12],
		hex[12:16],
	), nil
}

// ChallengeMessage is the text the wallet is asked to sign for nonce.
func ChallengeMessage(nonce string) string {
	return "Sign in to TaskBoard\n\nThis request will not trigger a blockchain transaction or cost any gas fees.\n\nNonce: " + nonce
}
