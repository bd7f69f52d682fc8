package usecase

import (
	"context"

	auditpkg "github.com/LepistaBioinformatics/mycelium-sub000/internal/audit"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/credential"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/domain/dtos"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/mycerr"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/ports"
	"github.com/google/uuid"
)

// StartTOTPActivation generates a fresh TOTP secret for user, encrypts it
// at rest under masterSecret, and returns the otpauth:// URI the caller's
// authenticator app should scan. The factor is stored unverified — it
// only becomes active once FinishTOTPActivation sees a matching code.
func StartTOTPActivation(
	ctx context.Context,
	user dtos.User,
	issuer string,
	masterSecret uuid.UUID,
	mfa *credential.MFAService,
	updating ports.UserUpdating,
) (string, ports.UpdatingResponseKind[dtos.User], *mycerr.Error) {
	if user.MFA.Totp.Kind == dtos.TotpEnabled && user.MFA.Totp.Verified {
		return "", ports.UpdatingResponseKind[dtos.User]{}, mycerr.UseCaseErr("totp is already enabled for this user").WithCode(mycerr.MYC00021)
	}

	key, err := mfa.GenerateSecret(user.Email.String())
	if err != nil {
		return "", ports.UpdatingResponseKind[dtos.User]{}, mycerr.ExecutionErr("generating totp secret: " + err.Error())
	}

	encrypted, err := credential.EncryptTOTPSecret(key.Secret(), masterSecret)
	if err != nil {
		return "", ports.UpdatingResponseKind[dtos.User]{}, mycerr.ExecutionErr("encrypting totp secret: " + err.Error())
	}

	user.MFA.Totp = dtos.TotpOfEnabled(false, issuer, encrypted)
	resp, merr := updating.Update(ctx, user)
	if merr != nil {
		return "", ports.UpdatingResponseKind[dtos.User]{}, merr
	}

	url, merr := credential.BuildURL(user.MFA.Totp, user.Email.String(), issuer, masterSecret)
	if merr != nil {
		return "", ports.UpdatingResponseKind[dtos.User]{}, merr
	}
	return url, resp, nil
}

// FinishTOTPActivation verifies code against user's pending TOTP secret
// and, on success, flips it to verified.
func FinishTOTPActivation(
	ctx context.Context,
	user dtos.User,
	code string,
	masterSecret uuid.UUID,
	mfa *credential.MFAService,
	updating ports.UserUpdating,
	audit auditpkg.Service,
) (ports.UpdatingResponseKind[dtos.User], *mycerr.Error) {
	if user.MFA.Totp.Kind != dtos.TotpEnabled {
		return ports.UpdatingResponseKind[dtos.User]{}, mycerr.UseCaseErr("no pending totp activation for this user").WithCode(mycerr.MYC00018)
	}

	secret, err := credential.DecryptTOTPSecret(user.MFA.Totp.Secret, masterSecret)
	if err != nil {
		return ports.UpdatingResponseKind[dtos.User]{}, mycerr.DataTransferErr("decrypting totp secret: " + err.Error())
	}
	if !mfa.ValidateCode(code, secret) {
		return ports.UpdatingResponseKind[dtos.User]{}, mycerr.UseCaseErr("invalid totp code").WithCode(mycerr.MYC00023)
	}

	user.MFA.Totp.Verified = true
	resp, merr := updating.Update(ctx, user)
	if merr == nil && audit != nil {
		audit.Log(ctx, auditpkg.EventTOTPActivated, auditpkg.LogParams{ActorID: user.ID})
	}
	return resp, merr
}

// DisableTOTP turns off user's TOTP factor entirely, requiring the
// caller to re-enroll from scratch if they want it back.
func DisableTOTP(
	ctx context.Context,
	user dtos.User,
	updating ports.UserUpdating,
	audit auditpkg.Service,
) (ports.UpdatingResponseKind[dtos.User], *mycerr.Error) {
	user.MFA.Totp = dtos.TotpOfDisabled()
	resp, merr := updating.Update(ctx, user)
	if merr == nil && audit != nil {
		audit.Log(ctx, auditpkg.EventTOTPDisabled, auditpkg.LogParams{ActorID: user.ID})
	}
	return resp, merr
}

// CheckTOTPToken validates code against user's verified, active TOTP
// factor — the second step of a two-factor login, after password
// verification has already passed.
func CheckTOTPToken(
	user dtos.User,
	code string,
	masterSecret uuid.UUID,
	mfa *credential.MFAService,
) *mycerr.Error {
	if user.MFA.Totp.Kind != dtos.TotpEnabled || !user.MFA.Totp.Verified {
		return mycerr.UseCaseErr("totp is not enabled for this user").WithCode(mycerr.MYC00022)
	}

	secret, err := credential.DecryptTOTPSecret(user.MFA.Totp.Secret, masterSecret)
	if err != nil {
		return mycerr.DataTransferErr("decrypting totp secret: " + err.Error())
	}
	if !mfa.ValidateCode(code, secret) {
		return mycerr.UseCaseErr("invalid totp code").WithCode(mycerr.MYC00023)
	}
	return nil
}
