package dtos

import (
	"strings"

	"github.com/LepistaBioinformatics/mycelium-sub000/internal/mycerr"
)

// Email is a normalised local@domain address. The zero value is invalid;
// build one with Parse.
type Email struct {
	username string
	domain   string
}

// Parse splits s on its last '@' and rejects either side being empty.
func Parse(s string) (Email, error) {
	at := strings.LastIndex(s, "@")
	if at < 0 {
		return Email{}, mycerr.InvalidArgumentErr("invalid email: missing @: " + s)
	}

	username, domain := s[:at], s[at+1:]
	if username == "" || domain == "" {
		return Email{}, mycerr.InvalidArgumentErr("invalid email: empty local or domain part: " + s)
	}

	return Email{username: username, domain: strings.ToLower(domain)}, nil
}

// MustParse is Parse but panics on error; reserved for compile-time-known
// addresses in tests and fixtures.
func MustParse(s string) Email {
	e, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return e
}

func (e Email) String() string {
	if e.username == "" {
		return ""
	}
	return e.username + "@" + e.domain
}

// Username returns the local part of the address.
func (e Email) Username() string { return e.username }

// Domain returns the domain part of the address.
func (e Email) Domain() string { return e.domain }

// Redacted keeps the first rune of the local part and masks the rest,
// e.g. "alice@example.com" -> "a***@example.com".
func (e Email) Redacted() string {
	if e.username == "" {
		return ""
	}
	runes := []rune(e.username)
	return string(runes[0]) + "***@" + e.domain
}

func (e Email) MarshalJSON() ([]byte, error) {
	return []byte(`"` + e.String() + `"`), nil
}

func (e *Email) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" {
		*e = Email{}
		return nil
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}
