package credential

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"io"

	"github.com/LepistaBioinformatics/mycelium-sub000/internal/mycerr"
	"github.com/google/uuid"
)

// deriveKey stretches a process-wide UUID secret to a 32-byte AES-256 key
// via SHA-256. The derivation is a pure function of masterSecret's 16 raw
// bytes, so the same configured secret always yields the same key across
// restarts.
func deriveKey(masterSecret uuid.UUID) [32]byte {
	raw := masterSecret // [16]byte
	return sha256.Sum256(raw[:])
}

// EncryptTOTPSecret seals secret under AES-256-GCM with a key derived from
// masterSecret, returning base64(nonce || ciphertext+tag).
func EncryptTOTPSecret(secret string, masterSecret uuid.UUID) (string, error) {
	key := deriveKey(masterSecret)

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return "", mycerr.DataTransferErr("building AES cipher: " + err.Error())
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", mycerr.DataTransferErr("building GCM mode: " + err.Error())
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", mycerr.DataTransferErr("generating nonce: " + err.Error())
	}

	sealed := gcm.Seal(nonce, nonce, []byte(secret), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptTOTPSecret reverses EncryptTOTPSecret. Any failure — malformed
// base64, a ciphertext shorter than the nonce, or a GCM authentication
// failure — returns a data-transfer error.
func DecryptTOTPSecret(ciphertextB64 string, masterSecret uuid.UUID) (string, error) {
	key := deriveKey(masterSecret)

	raw, err := base64.StdEncoding.DecodeString(ciphertextB64)
	if err != nil {
		return "", mycerr.DataTransferErr("decoding base64 ciphertext: " + err.Error())
	}

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return "", mycerr.DataTransferErr("building AES cipher: " + err.Error())
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", mycerr.DataTransferErr("building GCM mode: " + err.Error())
	}

	if len(raw) < gcm.NonceSize() {
		return "", mycerr.DataTransferErr("ciphertext shorter than nonce")
	}
	nonce, ciphertext := raw[:gcm.NonceSize()], raw[gcm.NonceSize():]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", mycerr.DataTransferErr("GCM authentication failed: " + err.Error())
	}

	return string(plaintext), nil
}
