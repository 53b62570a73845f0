package wallet

import (
	"context"
	"crypto/ecdsa"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// signPersonal signs message the way a browser wallet's personal_sign does.
func signPersonal(t *testing.T, key *ecdsa.PrivateKey, message string) string {
	t.Helper()
	sig, err := crypto.Sign(accounts.TextHash([]byte(message)), key)
	require.NoError(t, err)
	sig[crypto.RecoveryIDOffset] += 27
	return hexutil.Encode(sig)
}

func TestNormalizeAddress(t *testing.T) {
	addr, err := NormalizeAddress("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	require.NoError(t, err)
	assert.Equal(t, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", addr)

	_, err = NormalizeAddress("not-an-address")
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestShortAddress(t *testing.T) {
	assert.Equal(t, "0x5aAe...eAed", ShortAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"))
	assert.Equal(t, "0x12", ShortAddress("0x12"))
}

func TestGenerateNonce(t *testing.T) {
	a, err := GenerateNonce()
	require.NoError(t, err)
	b, err := GenerateNonce()
	require.NoError(t, err)

	assert.Len(t, a, 19)
	assert.Equal(t, 3, strings.Count(a, "-"))
	assert.NotEqual(t, a, b)
	assert.Contains(t, ChallengeMessage(a), "Nonce: "+a)
}

func TestRecoverAddress(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	want := crypto.PubkeyToAddress(key.PublicKey).Hex()

	message := ChallengeMessage("abcd-ef01-2345-6789")
	got, err := RecoverAddress(message, signPersonal(t, key, message))
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = RecoverAddress(message, "0x1234")
	assert.ErrorIs(t, err, ErrInvalidSignature)

	_, err = RecoverAddress(message, "zz")
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestSignedChallenge(t *testing.T) {
	ctx := context.Background()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	address := crypto.PubkeyToAddress(key.PublicKey).Hex()
	message := ChallengeMessage("0000-1111-2222-3333")

	t.Run("valid signature yields the checksummed address", func(t *testing.T) {
		w := SignedChallenge{
			Address:   strings.ToLower(address),
			Signature: signPersonal(t, key, message),
			Message:   message,
		}
		accts, err := w.RequestAccounts(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{address}, accts)

		silent, err := w.Accounts(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{address}, silent)
	})

	t.Run("signature from another key", func(t *testing.T) {
		other, err := crypto.GenerateKey()
		require.NoError(t, err)

		w := SignedChallenge{Address: address, Signature: signPersonal(t, other, message), Message: message}
		_, err = w.RequestAccounts(ctx)
		assert.ErrorIs(t, err, ErrSignatureMismatch)

		silent, err := w.Accounts(ctx)
		require.NoError(t, err)
		assert.Empty(t, silent)
	})

	t.Run("signature over a different message", func(t *testing.T) {
		w := SignedChallenge{Address: address, Signature: signPersonal(t, key, "something else"), Message: message}
		_, err := w.RequestAccounts(ctx)
		assert.ErrorIs(t, err, ErrSignatureMismatch)
	})

	t.Run("missing challenge", func(t *testing.T) {
		w := SignedChallenge{Address: address, Signature: signPersonal(t, key, message)}
		_, err := w.RequestAccounts(ctx)
		assert.ErrorIs(t, err, ErrRejected)
	})

	t.Run("empty signature", func(t *testing.T) {
		w := SignedChallenge{Address: address, Message: message}
		_, err := w.RequestAccounts(ctx)
		assert.ErrorIs(t, err, ErrRejected)
	})
}
