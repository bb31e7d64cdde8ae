// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
)

// Kind classifies a failed action.
type Kind uint8

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindActivationNotReached
	KindInactiveProducer
	KindInvalidProxyChain
	KindCorruption
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not found"
	case KindActivationNotReached:
		return "activation not reached"
	case KindInactiveProducer:
		return "inactive producer"
	case KindInvalidProxyChain:
		return "invalid proxy chain"
	case KindCorruption:
		return "corruption"
	default:
		return "unknown"
	}
}

// Sentinels to match with errors.Is.
var (
	ErrValidation           = &Error{kind: KindValidation}
	ErrNotFound             = &Error{kind: KindNotFound}
	ErrActivationNotReached = &Error{kind: KindActivationNotReached}
	ErrInactiveProducer     = &Error{kind: KindInactiveProducer}
	ErrInvalidProxyChain    = &Error{kind: KindInvalidProxyChain}
	ErrCorruption           = &Error{kind: KindCorruption}
)

// Error aborts the enclosing action without touching state.
type Error struct {
	kind    Kind
	message string
}

func New(kind Kind, message string) *Error {
	return &Error{kind: kind, message: message}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{kind: kind, message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) *Error {
	return Newf(KindValidation, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return Newf(KindNotFound, format, args...)
}

func Corruption(format string, args ...any) *Error {
	return Newf(KindCorruption, format, args...)
}

func (e *Error) Kind() Kind {
	return e.kind
}

func (e *Error) Error() string {
	if e.message == "" {
		return e.kind.String()
	}
	return e.message
}

// Is matches any error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.kind == e.kind
}

// IsRevertErr reports whether err was caused by the caller's input rather than by
// storage failures or corrupted state.
func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var re *Error
	return errors.As(e, &re) && re.kind != KindCorruption
}

// KindOf returns the kind of err, or zero when err is not a revert.
func KindOf(err error) Kind {
	var re *Error
	if errors.As(err, &re) {
		return re.kind
	}
	return 0
}
