package notify

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashRecipient digests an address for logging so delivery failures can
// be correlated without keeping raw PII in application logs.
func HashRecipient(email string) string {
	hash := sha256.Sum256([]byte(email))
	return hex.EncodeToString(hash[:])
}
