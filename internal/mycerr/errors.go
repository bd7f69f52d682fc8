// Package mycerr implements the tagged error model shared by every Mycelium
// component: a kind, a message, an expected/unexpected flag and an ordered
// list of stable short codes.
package mycerr

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

// Kind tags the broad category of a Mycelium error.
type Kind string

const (
	KindCreation           Kind = "creation-error"
	KindUpdating           Kind = "updating-error"
	KindFetching           Kind = "fetching-error"
	KindDeletion           Kind = "deletion-error"
	KindUseCase            Kind = "use-case-error"
	KindExecution          Kind = "execution-error"
	KindInvalidRepository  Kind = "invalid-repository-error"
	KindInvalidArgument    Kind = "invalid-argument-error"
	KindDataTransfer       Kind = "data-transfer-layer-error"
	KindGeneral            Kind = "general-error"
	KindUndefined          Kind = "undefined-error"
)

// Error is the single error value used across Mycelium. It is intentionally
// flat: no wrapped-error chains, just an ordered textual trail recorded in
// Message via WithPrevious.
type Error struct {
	Kind     Kind
	Message  string
	Expected bool
	Codes    []string
}

// Error implements the error interface, rendering the same flat shape the
// original implementation persists to logs:
//
//	[codes=MYC00019 error_type=execution-error] insufficient privileges
func (e *Error) Error() string {
	codes := "none"
	if len(e.Codes) > 0 {
		codes = strings.Join(e.Codes, codesDelimiter)
	}
	return fmt.Sprintf("[codes=%s%serror_type=%s] %s", codes, msgParasDelimiter, e.Kind, e.Message)
}

const (
	codesDelimiter    = ","
	msgParasDelimiter = " "
)

func sanitize(msg string) string {
	return strings.ReplaceAll(msg, ";", ",")
}

func newError(kind Kind, msg string, expected bool) *Error {
	e := &Error{
		Kind:     kind,
		Message:  sanitize(msg),
		Expected: expected,
	}
	if expected {
		slog.Debug(e.Error())
	} else {
		slog.Error(e.Error())
	}
	return e
}

// CreationErr builds a creation-kind error. Expected defaults to true:
// creation failures are almost always user-visible (duplicate slug, bad
// input) unless WithExpected(false) is applied afterward.
func CreationErr(msg string) *Error { return newError(KindCreation, msg, true) }

// UpdatingErr builds an updating-kind error.
func UpdatingErr(msg string) *Error { return newError(KindUpdating, msg, true) }

// FetchingErr builds a fetching-kind error.
func FetchingErr(msg string) *Error { return newError(KindFetching, msg, true) }

// DeletionErr builds a deletion-kind error.
func DeletionErr(msg string) *Error { return newError(KindDeletion, msg, true) }

// UseCaseErr builds a use-case-kind error.
func UseCaseErr(msg string) *Error { return newError(KindUseCase, msg, true) }

// ExecutionErr builds an execution-kind error.
func ExecutionErr(msg string) *Error { return newError(KindExecution, msg, true) }

// InvalidRepositoryErr builds an invalid-repository-kind error.
func InvalidRepositoryErr(msg string) *Error { return newError(KindInvalidRepository, msg, false) }

// InvalidArgumentErr builds an invalid-argument-kind error.
func InvalidArgumentErr(msg string) *Error { return newError(KindInvalidArgument, msg, true) }

// DataTransferErr builds a data-transfer-layer-kind error.
func DataTransferErr(msg string) *Error { return newError(KindDataTransfer, msg, false) }

// GeneralErr builds a general-kind error.
func GeneralErr(msg string) *Error { return newError(KindGeneral, msg, false) }

// UndefinedErr builds an undefined-kind error. Used as the fallback kind
// when parsing a flat error string whose error_type tag is unrecognized.
func UndefinedErr(msg string) *Error { return newError(KindUndefined, msg, false) }

// WithCode appends a stable short code, keeping the code list sorted and
// deduplicated. "none" is treated as a no-op (mirrors ignoring an absent
// code during chained construction).
func (e *Error) WithCode(code string) *Error {
	if code == "" || code == "none" {
		return e
	}
	e.Codes = append(e.Codes, code)
	uniqueSorted(&e.Codes)
	return e
}

func uniqueSorted(codes *[]string) {
	seen := make(map[string]struct{}, len(*codes))
	out := (*codes)[:0]
	for _, c := range *codes {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	*codes = out
	// simple insertion sort; code lists are tiny (almost always 1 element)
	for i := 1; i < len(*codes); i++ {
		for j := i; j > 0 && (*codes)[j-1] > (*codes)[j]; j-- {
			(*codes)[j-1], (*codes)[j] = (*codes)[j], (*codes)[j-1]
		}
	}
}

// WithExpected overrides the expected flag. Expected errors surface as
// 4xx responses to the caller; unexpected ones become a generic 500.
func (e *Error) WithExpected(expected bool) *Error {
	e.Expected = expected
	return e
}

// WithPrevious prefixes the current message with a preceding error's
// rendering, preserving the full diagnostic chain in one flat string.
func (e *Error) WithPrevious(prev error) *Error {
	if prev == nil {
		return e
	}
	e.Message = fmt.Sprintf("[CURRENT_ERROR] %s; [PRECEDING_ERROR] %s", e.Message, prev.Error())
	return e
}

// HasCode reports whether code is present in the error's code list.
func (e *Error) HasCode(code string) bool {
	if code == "none" {
		return false
	}
	for _, c := range e.Codes {
		if c == code {
			return true
		}
	}
	return false
}

// IsIn reports whether any of codes is present in the error's code list.
func (e *Error) IsIn(codes ...string) bool {
	for _, c := range codes {
		if e.HasCode(c) {
			return true
		}
	}
	return false
}

var flatPattern = regexp.MustCompile(`^\[codes=([a-zA-Z0-9,]+|none)\s+error_type=([a-zA-Z-]+)\]\s(.+)$`)

// ParseError reverses the flat textual form produced by Error(), used by
// tooling that replays errors out of logs. Unknown kinds fall back to
// KindUndefined rather than failing the parse.
func ParseError(s string) *Error {
	m := flatPattern.FindStringSubmatch(s)
	if m == nil {
		return UndefinedErr(s)
	}
	kind := Kind(m[2])
	if !validKind(kind) {
		kind = KindUndefined
	}
	e := &Error{Kind: kind, Message: m[3], Expected: true}
	if m[1] != "none" {
		for _, c := range strings.Split(m[1], codesDelimiter) {
			e.WithCode(c)
		}
	}
	return e
}

func validKind(k Kind) bool {
	switch k {
	case KindCreation, KindUpdating, KindFetching, KindDeletion, KindUseCase,
		KindExecution, KindInvalidRepository, KindInvalidArgument,
		KindDataTransfer, KindGeneral, KindUndefined:
		return true
	}
	return false
}
