package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wtg/vaultsync/internal/common"
)

func TestDeriveMasterKey_DeterministicPerSalt(t *testing.T) {
	pass := []byte("correct horse battery staple")
	salt := common.GenerateRandByteArray(16)

	k1 := DeriveMasterKey(pass, salt)
	k2 := DeriveMasterKey(pass, salt)
	require.Len(t, k1, 32)
	require.Equal(t, k1, k2)

	other := DeriveMasterKey(pass, common.GenerateRandByteArray(16))
	require.NotEqual(t, k1, other)
}

func TestEncryptBlob_RoundTrip(t *testing.T) {
	key := common.GenerateRandByteArray(32)
	plaintext := []byte(`{"customers":[],"lastSyncAt":0}`)

	ciphertext, nonce, err := EncryptBlob(plaintext, key)
	require.NoError(t, err)
	require.Len(t, nonce, NonceSize)
	require.NotEqual(t, plaintext, ciphertext)

	got, err := DecryptBlob(ciphertext, nonce, key)
	require.NoError(t, err)
	require.Equal(t, plaintext, got)
}

func TestDecryptBlob_WrongKeyFails(t *testing.T) {
	key := common.GenerateRandByteArray(32)
	ciphertext, nonce, err := EncryptBlob([]byte("top secret"), key)
	require.NoError(t, err)

	_, err = DecryptBlob(ciphertext, nonce, common.GenerateRandByteArray(32))
	require.Error(t, err)
}

func TestEncryptSecret_RoundTrip(t *testing.T) {
	key := common.GenerateRandByteArray(32)

	cipherB64, ivB64, err := EncryptSecret("hunter2", key)
	require.NoError(t, err)

	got, err := DecryptSecret(cipherB64, ivB64, key)
	require.NoError(t, err)
	require.Equal(t, "hunter2", got)
}

func TestDecryptSecret_BadInput(t *testing.T) {
	key := common.GenerateRandByteArray(32)

	_, err := DecryptSecret("not base64!!!", "also not", key)
	require.Error(t, err)

	cipherB64, ivB64, err := EncryptSecret("hunter2", key)
	require.NoError(t, err)
	_, err = DecryptSecret(cipherB64, ivB64, common.GenerateRandByteArray(32))
	require.Error(t, err)
}
