// Package credential implements the Credential Vault: password hashing,
// TOTP secret encryption at rest, and TOTP lifecycle operations.
package credential

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/LepistaBioinformatics/mycelium-sub000/internal/domain/dtos"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/mycerr"
	"golang.org/x/crypto/argon2"
)

// PasswordHasher defines the contract for password operations, letting
// use-cases depend on an interface instead of the concrete Argon2Hasher.
type PasswordHasher interface {
	Hash(password string) (dtos.PasswordHash, error)
	Compare(hash dtos.PasswordHash, password string) *mycerr.Error
}

// Argon2Hasher hashes passwords with Argon2id and a random per-hash salt,
// encoded in the PHC string format so the parameters travel with the hash.
type Argon2Hasher struct {
	memoryKiB  uint32
	iterations uint32
	threads    uint8
	saltLen    uint32
	keyLen     uint32
}

// NewArgon2Hasher returns a hasher configured with the OWASP-recommended
// baseline parameters (64 MiB, 3 iterations, 2-way parallelism).
func NewArgon2Hasher() *Argon2Hasher {
	return &Argon2Hasher{
		memoryKiB:  64 * 1024,
		iterations: 3,
		threads:    2,
		saltLen:    16,
		keyLen:     32,
	}
}

// Hash derives an Argon2id hash and returns it PHC-encoded:
// $argon2id$v=19$m=<mem>,t=<iter>,p=<threads>$<salt-b64>$<hash-b64>
func (h *Argon2Hasher) Hash(password string) (dtos.PasswordHash, error) {
	salt := make([]byte, h.saltLen)
	if _, err := rand.Read(salt); err != nil {
		return dtos.PasswordHash{}, fmt.Errorf("generating salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, h.iterations, h.memoryKiB, h.threads, h.keyLen)

	encoded := fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		h.memoryKiB, h.iterations, h.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
	return dtos.NewPasswordHash(encoded), nil
}

// Compare decodes a PHC-format hash, recomputes with its stored
// parameters, and constant-time compares the result. A malformed stored
// hash is a use-case error (data corruption); a correctly-formed hash
// that simply doesn't match returns an expected error so wrong-password
// attempts are never logged as incidents.
func (h *Argon2Hasher) Compare(hash dtos.PasswordHash, password string) *mycerr.Error {
	parts := strings.Split(hash.Hash(), "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return mycerr.UseCaseErr("malformed password hash").WithExpected(false)
	}

	var mem, iter uint64
	var threads uint64
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &iter, &threads); err != nil {
		return mycerr.UseCaseErr("malformed password hash parameters").WithExpected(false)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return mycerr.UseCaseErr("malformed password hash salt").WithExpected(false)
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return mycerr.UseCaseErr("malformed password hash digest").WithExpected(false)
	}

	got := argon2.IDKey([]byte(password), salt, uint32(iter), uint32(mem), uint8(threads), uint32(len(want)))

	if subtle.ConstantTimeCompare(got, want) != 1 {
		return mycerr.UseCaseErr("password does not match").WithExpected(true).WithCode(mycerr.MYC00012)
	}
	return nil
}
