package models

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	ErrCodeWalletNotConnected ErrorCode = "wallet_not_connected"
	ErrCodeInvalidAddress     ErrorCode = "invalid_address"
	ErrCodeValidation         ErrorCode = "validation_error"
	ErrCodeStateConflict      ErrorCode = "state_conflict"
	ErrCodeInsufficientFunds  ErrorCode = "insufficient_funds"
	ErrCodeUserRejected       ErrorCode = "user_rejected"
	ErrCodeEscrowNotFound     ErrorCode = "escrow_not_found"
	ErrCodeExternalProgram    ErrorCode = "external_program_error"
	ErrCodeCorruptState       ErrorCode = "corrupt_state"
	ErrCodeDuplicateID        ErrorCode = "duplicate_id"
	ErrCodeNotFound           ErrorCode = "not_found"
)

// AppError is the classified error every layer surfaces to callers. The code
// is the contract; the message is for humans. Classification happens where
// the failure is observed, never by matching error text afterwards.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a classified error with a formatted message.
func NewAppError(code ErrorCode, format string, args ...any) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WrapAppError classifies an underlying error.
func WrapAppError(code ErrorCode, err error, format string, args ...any) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

// CodeOf extracts the classification of err. Unclassified errors report
// ErrCodeExternalProgram since the only unclassified failures left at the
// boundary come from the external program call.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeExternalProgram
}
