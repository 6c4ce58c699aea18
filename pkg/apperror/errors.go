package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// HasCode reports whether err is an *AppError carrying code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// Error codes referenced outside this package.
const (
	CodeBurnerNotFound     = "BURNER_001"
	CodeDuplicateAddress   = "BURNER_002"
	CodeInvalidAddress     = "BURNER_003"
	CodeDecryptionFailure  = "VAULT_001"
	CodeInsufficientFunds  = "SWEEP_001"
	CodeNetworkError       = "SWEEP_002"
	CodeSweepTimeout       = "SWEEP_003"
	CodeSweepRunning       = "SWEEP_004"
	CodeStorageUnavailable = "SYS_001"
)

// ---- Burner registry (BURNER) ----

func ErrBurnerNotFound() *AppError {
	return New(CodeBurnerNotFound, "not found or already swept", http.StatusNotFound)
}

func ErrDuplicateAddress(err error) *AppError {
	return Wrap(CodeDuplicateAddress, "Burner address already exists", http.StatusConflict, err)
}

func ErrInvalidAddress() *AppError {
	return New(CodeInvalidAddress, "Invalid wallet address", http.StatusBadRequest)
}

// ---- Key vault (VAULT) ----

func ErrDecryptionFailure(err error) *AppError {
	return Wrap(CodeDecryptionFailure, "Stored key could not be decrypted", http.StatusUnprocessableEntity, err)
}

// ---- Sweep (SWEEP) ----

func ErrInsufficientFunds(detail string) *AppError {
	return New(CodeInsufficientFunds, withDetail("Balance does not cover the network fee", detail), http.StatusUnprocessableEntity)
}

func ErrNetwork(detail string) *AppError {
	return New(CodeNetworkError, withDetail("Blockchain RPC error", detail), http.StatusBadGateway)
}

func ErrSweepTimeout(detail string) *AppError {
	return New(CodeSweepTimeout, withDetail("Timed out waiting for confirmation", detail), http.StatusGatewayTimeout)
}

func ErrSweepRunning() *AppError {
	return New(CodeSweepRunning, "sweep already running", http.StatusConflict)
}

// ---- Authentication (AUTH) ----

func ErrNoSession() *AppError {
	return New("AUTH_001", "No valid session", http.StatusUnauthorized)
}

func ErrInvalidInitData() *AppError {
	return New("AUTH_002", "Invalid Telegram init data", http.StatusUnauthorized)
}

func ErrInvalidCronSecret() *AppError {
	return New("AUTH_003", "Invalid cron secret", http.StatusUnauthorized)
}

func ErrUserNotAllowed() *AppError {
	return New("AUTH_004", "User is not allowed", http.StatusForbidden)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrStorageUnavailable(err error) *AppError {
	return Wrap(CodeStorageUnavailable, "Storage unavailable", http.StatusServiceUnavailable, err)
}

func ErrEncryptionFailure(err error) *AppError {
	return Wrap("SYS_003", "Encryption service failure", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_000 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_000", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a request validation error.
func Validation(message string) *AppError {
	return New("REQ_001", message, http.StatusBadRequest)
}

func withDetail(msg, detail string) string {
	if detail == "" {
		return msg
	}
	return msg + ": " + detail
}
