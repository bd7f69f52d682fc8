package usecase

import (
	"context"
	"testing"

	auditpkg "github.com/LepistaBioinformatics/mycelium-sub000/internal/audit"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/credential"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/domain/dtos"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/mycerr"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/ports"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserUpdating struct {
	updated []dtos.User
}

func (f *fakeUserUpdating) Update(_ context.Context, user dtos.User) (ports.UpdatingResponseKind[dtos.User], *mycerr.Error) {
	f.updated = append(f.updated, user)
	return ports.Updated(user), nil
}

func TestStartTOTPActivationRejectsAlreadyEnabledAndVerified(t *testing.T) {
	master := uuid.New()
	mfa := credential.NewMFAService("mycelium")
	updating := &fakeUserUpdating{}

	user := dtos.User{ID: uuid.New(), Email: mustParseEmail(t, "alice@example.com")}
	user.MFA.Totp = dtos.TotpOfEnabled(true, "mycelium", "ciphertext")

	_, _, merr := StartTOTPActivation(context.Background(), user, "mycelium", master, mfa, updating)

	require.NotNil(t, merr)
	assert.True(t, merr.HasCode(mycerr.MYC00021))
	assert.Empty(t, updating.updated)
}

func TestStartTOTPActivationGeneratesPendingSecretAndURL(t *testing.T) {
	master := uuid.New()
	mfa := credential.NewMFAService("mycelium")
	updating := &fakeUserUpdating{}

	user := dtos.User{ID: uuid.New(), Email: mustParseEmail(t, "alice@example.com")}
	user.MFA.Totp = dtos.TotpOfDisabled()

	url, resp, merr := StartTOTPActivation(context.Background(), user, "mycelium", master, mfa, updating)

	require.Nil(t, merr)
	assert.Contains(t, url, "otpauth://totp/")
	require.Len(t, updating.updated, 1)
	assert.False(t, updating.updated[0].MFA.Totp.Verified)
	assert.True(t, resp.IsUpdated())
}

func TestFinishTOTPActivationRejectsWithoutPendingActivation(t *testing.T) {
	master := uuid.New()
	mfa := credential.NewMFAService("mycelium")
	updating := &fakeUserUpdating{}

	user := dtos.User{ID: uuid.New()}
	user.MFA.Totp = dtos.TotpOfDisabled()

	_, merr := FinishTOTPActivation(context.Background(), user, "000000", master, mfa, updating, nil)

	require.NotNil(t, merr)
	assert.True(t, merr.HasCode(mycerr.MYC00018))
	assert.Empty(t, updating.updated)
}

func TestFinishTOTPActivationRejectsInvalidCode(t *testing.T) {
	master := uuid.New()
	mfa := credential.NewMFAService("mycelium")
	updating := &fakeUserUpdating{}
	recorder := &recordingAuditService{}

	ciphertext, err := credential.EncryptTOTPSecret("JBSWY3DPEHPK3PXP", master)
	require.NoError(t, err)

	user := dtos.User{ID: uuid.New()}
	user.MFA.Totp = dtos.TotpOfEnabled(false, "mycelium", ciphertext)

	_, merr := FinishTOTPActivation(context.Background(), user, "000000", master, mfa, updating, recorder)

	require.NotNil(t, merr)
	assert.True(t, merr.HasCode(mycerr.MYC00023))
	assert.Empty(t, updating.updated)
	assert.Empty(t, recorder.calls)
}

func TestDisableTOTPClearsFactorAndLogsAuditEvent(t *testing.T) {
	updating := &fakeUserUpdating{}
	recorder := &recordingAuditService{}

	user := dtos.User{ID: uuid.New()}
	user.MFA.Totp = dtos.TotpOfEnabled(true, "mycelium", "ciphertext")

	resp, merr := DisableTOTP(context.Background(), user, updating, recorder)

	require.Nil(t, merr)
	assert.Equal(t, dtos.TotpDisabled, resp.Value().MFA.Totp.Kind)
	require.Len(t, recorder.calls, 1)
	assert.Equal(t, auditpkg.EventTOTPDisabled, recorder.calls[0].action)
}

func TestCheckTOTPTokenRejectsWhenNotEnabled(t *testing.T) {
	master := uuid.New()
	mfa := credential.NewMFAService("mycelium")

	user := dtos.User{ID: uuid.New()}
	user.MFA.Totp = dtos.TotpOfDisabled()

	merr := CheckTOTPToken(user, "000000", master, mfa)

	require.NotNil(t, merr)
	assert.True(t, merr.HasCode(mycerr.MYC00022))
}

func mustParseEmail(t *testing.T, raw string) dtos.Email {
	t.Helper()
	email, err := dtos.Parse(raw)
	require.NoError(t, err)
	return email
}
