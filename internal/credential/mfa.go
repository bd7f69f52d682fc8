package credential

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/url"

	"github.com/LepistaBioinformatics/mycelium-sub000/internal/domain/dtos"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/mycerr"
	"github.com/google/uuid"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// MFAService wraps github.com/pquerna/otp for TOTP secret generation and
// code validation, plus base32 backup codes for account recovery.
type MFAService struct {
	issuer string
}

func NewMFAService(issuer string) *MFAService {
	return &MFAService{issuer: issuer}
}

// GenerateSecret issues a fresh TOTP key for accountName under this
// service's issuer.
func (s *MFAService) GenerateSecret(accountName string) (*otp.Key, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.issuer,
		AccountName: accountName,
	})
	if err != nil {
		return nil, fmt.Errorf("generating totp key: %w", err)
	}
	return key, nil
}

// ValidateCode checks code against secret, allowing the library's default
// one-period clock skew.
func (s *MFAService) ValidateCode(code, secret string) bool {
	return totp.Validate(code, secret)
}

// GenerateBackupCodes returns count cryptographically random recovery
// codes in XXXX-XXXX form, excluding visually ambiguous characters.
// Callers are responsible for hashing them before persisting.
func (s *MFAService) GenerateBackupCodes(count int) ([]string, error) {
	const chars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codes := make([]string, count)

	for i := 0; i < count; i++ {
		code := make([]byte, 8)
		for j := range code {
			n, err := rand.Int(rand.Reader, big.NewInt(int64(len(chars))))
			if err != nil {
				return nil, fmt.Errorf("reading random backup code byte: %w", err)
			}
			code[j] = chars[n.Int64()]
		}
		codes[i] = string(code[:4]) + "-" + string(code[4:])
	}
	return codes, nil
}

// BuildURL decrypts totp's stored secret and formats the otpauth:// URI a
// client authenticator app scans. Refuses to build a URL for a disabled
// Totp.
func BuildURL(t dtos.Totp, email, issuer string, masterSecret uuid.UUID) (string, *mycerr.Error) {
	if t.Kind == dtos.TotpDisabled {
		return "", mycerr.UseCaseErr("cannot build a TOTP URL for a disabled factor").WithCode(mycerr.MYC00022)
	}

	secret, err := DecryptTOTPSecret(t.Secret, masterSecret)
	if err != nil {
		return "", mycerr.DataTransferErr("decrypting totp secret: " + err.Error())
	}

	return fmt.Sprintf(
		"otpauth://totp/%s:%s?secret=%s&issuer=%s",
		url.PathEscape(issuer), url.PathEscape(email), secret, url.QueryEscape(issuer),
	), nil
}
