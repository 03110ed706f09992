package domain

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned when a session ID cannot be found in the manager.
var ErrSessionNotFound = errors.New("session not found")

// ErrRecordNotFound is returned when a commit record cannot be found in the store.
var ErrRecordNotFound = errors.New("commit record not found")

// ErrUnknownVariant is returned when a variant name is not registered.
var ErrUnknownVariant = errors.New("unknown variant")

// ErrorKey is the variant-agnostic name of a runtime failure.
// Each variant maps keys to its own numeric codes through an ErrorTable.
type ErrorKey string

const (
	KeyGeneral                  ErrorKey = "GENERAL"
	KeyInitializationFailed     ErrorKey = "INITIALIZATION_FAILED"
	KeyInitialized              ErrorKey = "INITIALIZED"
	KeyTerminated               ErrorKey = "TERMINATED"
	KeyTerminationFailure       ErrorKey = "TERMINATION_FAILURE"
	KeyTerminationBeforeInit    ErrorKey = "TERMINATION_BEFORE_INIT"
	KeyMultipleTermination      ErrorKey = "MULTIPLE_TERMINATION"
	KeyRetrieveBeforeInit       ErrorKey = "RETRIEVE_BEFORE_INIT"
	KeyRetrieveAfterTerm        ErrorKey = "RETRIEVE_AFTER_TERM"
	KeyStoreBeforeInit          ErrorKey = "STORE_BEFORE_INIT"
	KeyStoreAfterTerm           ErrorKey = "STORE_AFTER_TERM"
	KeyCommitBeforeInit         ErrorKey = "COMMIT_BEFORE_INIT"
	KeyCommitAfterTerm          ErrorKey = "COMMIT_AFTER_TERM"
	KeyArgumentError            ErrorKey = "ARGUMENT_ERROR"
	KeyChildrenError            ErrorKey = "CHILDREN_ERROR"
	KeyCountError               ErrorKey = "COUNT_ERROR"
	KeyGeneralGetFailure        ErrorKey = "GENERAL_GET_FAILURE"
	KeyGeneralSetFailure        ErrorKey = "GENERAL_SET_FAILURE"
	KeyGeneralCommitFailure     ErrorKey = "GENERAL_COMMIT_FAILURE"
	KeyUndefinedDataModel       ErrorKey = "UNDEFINED_DATA_MODEL"
	KeyUnimplementedElement     ErrorKey = "UNIMPLEMENTED_ELEMENT"
	KeyValueNotInitialized      ErrorKey = "VALUE_NOT_INITIALIZED"
	KeyInvalidSetValue          ErrorKey = "INVALID_SET_VALUE"
	KeyReadOnlyElement          ErrorKey = "READ_ONLY_ELEMENT"
	KeyWriteOnlyElement         ErrorKey = "WRITE_ONLY_ELEMENT"
	KeyTypeMismatch             ErrorKey = "TYPE_MISMATCH"
	KeyValueOutOfRange          ErrorKey = "VALUE_OUT_OF_RANGE"
	KeyDependencyNotEstablished ErrorKey = "DEPENDENCY_NOT_ESTABLISHED"
)

// Kind classifies runtime failures.
type Kind int

const (
	KindGeneral        Kind = iota // Internal fallback, transport faults included
	KindState                      // Wrong lifecycle state for the operation
	KindNotFound                   // Path does not resolve to a defined element
	KindReadOnly                   // Write on a read-only or computed element
	KindValidation                 // Value rejected by a field validator
	KindNotInitialized             // Read of something never assigned
)

func (k Kind) String() string {
	switch k {
	case KindState:
		return "state"
	case KindNotFound:
		return "not_found"
	case KindReadOnly:
		return "read_only"
	case KindValidation:
		return "validation"
	case KindNotInitialized:
		return "not_initialized"
	default:
		return "general"
	}
}

// Kind returns the taxonomy class of the key.
func (k ErrorKey) Kind() Kind {
	switch k {
	case KeyInitialized, KeyTerminated, KeyTerminationBeforeInit, KeyMultipleTermination,
		KeyRetrieveBeforeInit, KeyRetrieveAfterTerm, KeyStoreBeforeInit, KeyStoreAfterTerm,
		KeyCommitBeforeInit, KeyCommitAfterTerm:
		return KindState
	case KeyUndefinedDataModel, KeyUnimplementedElement, KeyChildrenError, KeyCountError:
		return KindNotFound
	case KeyReadOnlyElement, KeyInvalidSetValue:
		return KindReadOnly
	case KeyTypeMismatch, KeyValueOutOfRange, KeyDependencyNotEstablished, KeyWriteOnlyElement:
		return KindValidation
	case KeyValueNotInitialized:
		return KindNotInitialized
	default:
		return KindGeneral
	}
}

// Error is a runtime failure raised inside the resolver boundary.
// It is translated into the error register and never returned to content.
type Error struct {
	Key     ErrorKey
	Message string // Optional diagnostic, overrides the table text
}

// NewError builds an Error for key with an optional diagnostic message.
func NewError(key ErrorKey, message string) *Error {
	return &Error{Key: key, Message: message}
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Key)
	}
	return fmt.Sprintf("%s: %s", e.Key, e.Message)
}

// Kind is a shortcut for e.Key.Kind().
func (e *Error) Kind() Kind {
	return e.Key.Kind()
}
