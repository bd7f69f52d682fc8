package credential

import (
	"testing"

	"github.com/LepistaBioinformatics/mycelium-sub000/internal/domain/dtos"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgon2HasherRoundTrip(t *testing.T) {
	h := NewArgon2Hasher()

	hash, err := h.Hash("correct horse battery staple")
	require.NoError(t, err)
	assert.Contains(t, hash.Hash(), "$argon2id$")

	assert.Nil(t, h.Compare(hash, "correct horse battery staple"))

	mismatch := h.Compare(hash, "wrong password")
	require.NotNil(t, mismatch)
	assert.True(t, mismatch.Expected)
}

func TestArgon2HasherRejectsMalformedHash(t *testing.T) {
	h := NewArgon2Hasher()
	err := h.Compare(dtos.NewPasswordHash("not-a-valid-hash"), "whatever")
	require.NotNil(t, err)
	assert.False(t, err.Expected)
}

func TestTOTPSecretEncryptDecryptRoundTrip(t *testing.T) {
	master := uuid.New()

	ciphertext, err := EncryptTOTPSecret("JBSWY3DPEHPK3PXP", master)
	require.NoError(t, err)
	assert.NotEqual(t, "JBSWY3DPEHPK3PXP", ciphertext)

	plaintext, err := DecryptTOTPSecret(ciphertext, master)
	require.NoError(t, err)
	assert.Equal(t, "JBSWY3DPEHPK3PXP", plaintext)
}

func TestTOTPSecretDecryptFailsWithWrongMaster(t *testing.T) {
	ciphertext, err := EncryptTOTPSecret("JBSWY3DPEHPK3PXP", uuid.New())
	require.NoError(t, err)

	_, err = DecryptTOTPSecret(ciphertext, uuid.New())
	require.Error(t, err)
}

func TestTOTPSecretDecryptRejectsShortCiphertext(t *testing.T) {
	_, err := DecryptTOTPSecret("dG9vc2hvcnQ=", uuid.New())
	require.Error(t, err)
}

func TestBuildURLRefusesDisabledTotp(t *testing.T) {
	_, err := BuildURL(dtos.TotpOfDisabled(), "alice@example.com", "mycelium", uuid.New())
	require.NotNil(t, err)
	assert.True(t, err.HasCode("MYC00022"))
}

func TestBuildURLFormatsOtpauthURI(t *testing.T) {
	master := uuid.New()
	ciphertext, err := EncryptTOTPSecret("JBSWY3DPEHPK3PXP", master)
	require.NoError(t, err)

	totpField := dtos.TotpOfEnabled(true, "mycelium", ciphertext)
	uri, merr := BuildURL(totpField, "alice@example.com", "mycelium", master)
	require.Nil(t, merr)
	assert.Contains(t, uri, "otpauth://totp/mycelium:alice%40example.com")
	assert.Contains(t, uri, "secret=JBSWY3DPEHPK3PXP")
}

func TestMFAServiceGenerateAndValidateCode(t *testing.T) {
	svc := NewMFAService("mycelium")

	key, err := svc.GenerateSecret("alice@example.com")
	require.NoError(t, err)

	code, err := totpGenerateCodeForTest(key.Secret())
	require.NoError(t, err)

	assert.True(t, svc.ValidateCode(code, key.Secret()))
	assert.False(t, svc.ValidateCode("000000", key.Secret()))
}

func TestMFAServiceGenerateBackupCodes(t *testing.T) {
	svc := NewMFAService("mycelium")

	codes, err := svc.GenerateBackupCodes(5)
	require.NoError(t, err)
	require.Len(t, codes, 5)
	for _, c := range codes {
		assert.Len(t, c, 9) // XXXX-XXXX
	}
}
