package domain

import (
	"github.com/pkg/errors"
)

// Error categories. Every failure surfaced by an action handler matches exactly one of them
// through errors.Is.
var (
	ErrUserInput        = errors.New("invalid input")
	ErrWallet           = errors.New("wallet error")
	ErrTrustline        = errors.New("trustline error")
	ErrNetwork          = errors.New("network error")
	ErrTransport        = errors.New("transport error")
	ErrSubmissionFailed = errors.New("transaction submission failed")
	ErrAccountNotFound  = errors.New("account not found")
	ErrServerValidation = errors.New("server validation error")
	ErrActionPending    = errors.New("action is already pending")
)

// Wallet failures, all of them match ErrWallet.
var (
	ErrNotConnected      = subError("wallet is not connected", ErrWallet)
	ErrAlreadyConnected  = subError("wallet is already connected", ErrWallet)
	ErrUserCancelled     = subError("wallet request cancelled by user", ErrWallet)
	ErrSigningRejected   = subError("transaction signing rejected", ErrWallet)
	ErrWrongSigner       = subError("wallet cannot sign for this address", ErrWallet)
	ErrUnsupportedWallet = subError("unsupported wallet", ErrWallet)
)

type categoryError struct {
	msg    string
	parent error
}

func subError(msg string, parent error) error {
	return &categoryError{msg: msg, parent: parent}
}

func (e *categoryError) Error() string { return e.msg }

func (e *categoryError) Is(target error) bool { return target == e.parent }

// Error carries a message shown to the user verbatim on top of a category.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes both the category and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// InputError is a UserInputError: shown inline, the action is aborted before any I/O.
func InputError(message string) error {
	return &Error{Kind: ErrUserInput, Message: message}
}

// Failure wraps cause under kind with a user-facing message.
func Failure(kind error, message string, cause error) error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// ValidationError is a payload rejection by the backend; Message comes from the server.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Is matches ErrServerValidation.
func (e *ValidationError) Is(target error) bool { return target == ErrServerValidation }

var categories = []error{
	ErrUserInput,
	ErrActionPending,
	ErrWallet,
	ErrTrustline,
	ErrServerValidation,
	ErrSubmissionFailed,
	ErrAccountNotFound,
	ErrTransport,
	ErrNetwork,
}

// Classify returns the category sentinel err belongs to, nil when it belongs to none.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	for _, c := range categories {
		if errors.Is(err, c) {
			return c
		}
	}
	return nil
}

const unknownErrorMessage = "An unknown error occurred"

// UserMessage returns the human-readable cause of err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var validation *ValidationError
	if errors.As(err, &validation) {
		return validation.Message
	}

	var described *Error
	if errors.As(err, &described) && described.Message != "" {
		return described.Message
	}

	switch {
	case errors.Is(err, ErrNotConnected):
		return "Please connect wallet."
	case errors.Is(err, ErrSigningRejected):
		return "Transaction signing was rejected."
	case errors.Is(err, ErrUserCancelled):
		return "Wallet request was cancelled."
	case errors.Is(err, ErrWallet):
		return "Wallet error, please reconnect."
	case errors.Is(err, ErrActionPending):
		return "Action is already in progress."
	case errors.Is(err, ErrTrustline):
		return "Failed to add trustline."
	case errors.Is(err, ErrAccountNotFound):
		return "Account was not found on the network."
	case errors.Is(err, ErrSubmissionFailed):
		return "Transaction was rejected by the network."
	case errors.Is(err, ErrTransport), errors.Is(err, ErrNetwork):
		return "Network error, please try again."
	}
	return unknownErrorMessage
}

// NotificationLevelFor maps a failure to warning (user input, wallet) or error.
func NotificationLevelFor(err error) NotificationLevel {
	switch Classify(err) {
	case ErrUserInput, ErrWallet, ErrActionPending:
		return LevelWarning
	default:
		return LevelError
	}
}
