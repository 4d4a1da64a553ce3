package transaction

import (
	"errors"
	"fmt"
)

// Kind classifies why a donation could not be sent, so callers can decide how
// to react without inspecting error strings.
type Kind int

const (
	KindUnknown Kind = iota

	// KindConfig means the program interface is misconfigured. Retrying
	// doesn't help.
	KindConfig

	// KindValidation means the donation inputs can't be encoded.
	KindValidation

	// KindNetwork covers RPC transport failures and confirmation timeouts.
	KindNetwork

	// KindUserRejected means the wallet owner declined to sign.
	KindUserRejected

	// KindSigner covers wallet failures other than a rejection.
	KindSigner

	// KindProgram means the transaction failed simulation or execution.
	KindProgram
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindValidation:
		return "validation"
	case KindNetwork:
		return "network"
	case KindUserRejected:
		return "user_rejected"
	case KindSigner:
		return "signer"
	case KindProgram:
		return "program"
	default:
		return "unknown"
	}
}

// Error is returned by every Submitter operation. Cause is the underlying
// error and remains reachable through errors.Is and errors.As.
type Error struct {
	Kind  Kind
	Cause error
}

func newError(kind Kind, cause error) error {
	return &Error{Kind: kind, Cause: cause}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error: %v", e.Kind, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// KindOf returns the Kind of a Submitter error, or KindUnknown when err didn't
// come from a Submitter.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsUserRejected reports whether err was caused by the wallet owner declining
// to sign.
func IsUserRejected(err error) bool {
	return KindOf(err) == KindUserRejected
}
