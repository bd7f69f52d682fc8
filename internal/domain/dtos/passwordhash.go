package dtos

// PasswordHash wraps an Argon2 PHC-format hash string. It deliberately has
// no JSON tags and no MarshalJSON of its own — it is never meant to be
// embedded directly into a response; User.MarshalJSON drops it entirely.
type PasswordHash struct {
	hash string
}

// NewPasswordHash wraps an already-computed hash string, e.g. the output
// of credential.Argon2Hasher.Hash.
func NewPasswordHash(hash string) PasswordHash { return PasswordHash{hash: hash} }

// String returns the raw PHC-format hash. Named deliberately verbosely
// (not Stringer's String-only convenience) to make call sites that reach
// for the cleartext-adjacent hash grep-able.
func (p PasswordHash) Hash() string { return p.hash }

func (p PasswordHash) IsZero() bool { return p.hash == "" }
