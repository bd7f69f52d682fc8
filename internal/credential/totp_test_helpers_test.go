package credential

import (
	"time"

	"github.com/pquerna/otp/totp"
)

func totpGenerateCodeForTest(secret string) (string, error) {
	return totp.GenerateCode(secret, time.Now())
}
