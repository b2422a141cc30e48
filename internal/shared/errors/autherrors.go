package errors

import (
	stderrors "errors"
	"net/http"
)

// Authentication-specific error types
const (
	ErrorTypeDuplicateAccount     ErrorType = "duplicate_account"
	ErrorTypeInvalidCredentials   ErrorType = "invalid_credentials"
	ErrorTypeAccountDisabled      ErrorType = "account_disabled"
	ErrorTypeTokenInvalid         ErrorType = "token_invalid"
	ErrorTypeTokenSessionMismatch ErrorType = "token_session_mismatch"
	ErrorTypeUserUnavailable      ErrorType = "user_unavailable"
	ErrorTypeSessionNotFound      ErrorType = "session_not_found"
	ErrorTypeSessionExpired       ErrorType = "session_expired"
	ErrorTypeUnauthenticated      ErrorType = "unauthenticated"
)

// AuthError represents authentication-specific errors with enhanced security context
type AuthError struct {
	*AppError
	// ShouldLog determines if this error should be logged.
	// Expected failures like a wrong password stay out of error-level logs.
	ShouldLog bool
	// SecurityEvent indicates if this should be tracked as a security event
	SecurityEvent bool
}

// Error implements the error interface
func (e *AuthError) Error() string {
	return e.AppError.Error()
}

// Unwrap allows errors.Is and errors.As to work correctly
func (e *AuthError) Unwrap() error {
	return e.AppError
}

func newAuthError(t ErrorType, code int, message string, shouldLog, securityEvent bool) *AuthError {
	return &AuthError{
		AppError: &AppError{
			Type:    t,
			Message: message,
			Code:    code,
		},
		ShouldLog:     shouldLog,
		SecurityEvent: securityEvent,
	}
}

// NewDuplicateAccountError is returned by registration when the email is taken.
func NewDuplicateAccountError() *AuthError {
	return newAuthError(ErrorTypeDuplicateAccount, http.StatusBadRequest,
		"Account with this email already exists", false, false)
}

// NewInvalidCredentialsError creates an error for invalid login credentials.
// It does not reveal whether the email or the password was wrong.
func NewInvalidCredentialsError() *AuthError {
	return newAuthError(ErrorTypeInvalidCredentials, http.StatusUnauthorized,
		"Invalid email or password", false, true)
}

// NewAccountDisabledError is kept apart from invalid credentials: 403, not 401.
func NewAccountDisabledError() *AuthError {
	return newAuthError(ErrorTypeAccountDisabled, http.StatusForbidden,
		"User account disabled", false, true)
}

// NewTokenInvalidError covers bad signatures, wrong issuer or audience, expiry and malformed input.
func NewTokenInvalidError(message string) *AuthError {
	if message == "" {
		message = "Invalid token"
	}
	return newAuthError(ErrorTypeTokenInvalid, http.StatusUnauthorized, message, true, true)
}

// NewTokenSessionMismatchError is raised when a refresh token subject differs from the session owner.
func NewTokenSessionMismatchError() *AuthError {
	return newAuthError(ErrorTypeTokenSessionMismatch, http.StatusUnauthorized,
		"Refresh token mismatch", true, true)
}

// NewUserUnavailableError is raised on refresh when the owner is gone or inactive.
func NewUserUnavailableError() *AuthError {
	return newAuthError(ErrorTypeUserUnavailable, http.StatusUnauthorized,
		"User unavailable", false, true)
}

// NewSessionNotFoundError means no session matches the presented refresh token.
func NewSessionNotFoundError() *AuthError {
	return newAuthError(ErrorTypeSessionNotFound, http.StatusUnauthorized,
		"Refresh token invalid", false, true)
}

// NewSessionExpiredError creates an error for expired sessions
func NewSessionExpiredError() *AuthError {
	return newAuthError(ErrorTypeSessionExpired, http.StatusUnauthorized,
		"Refresh token expired", false, false)
}

// NewUnauthenticatedError is used by identity resolution for every bearer failure.
func NewUnauthenticatedError(message string) *AuthError {
	return newAuthError(ErrorTypeUnauthenticated, http.StatusUnauthorized, message, false, false)
}

// IsAuthError checks if the error is an AuthError (supports wrapped errors via errors.As)
func IsAuthError(err error) bool {
	var authErr *AuthError
	return stderrors.As(err, &authErr)
}

// GetAuthError extracts AuthError from error chain (supports wrapped errors via errors.As)
func GetAuthError(err error) *AuthError {
	var authErr *AuthError
	if stderrors.As(err, &authErr) {
		return authErr
	}
	return nil
}

// ShouldLogAuthError returns true if the authentication error should be logged
func ShouldLogAuthError(err error) bool {
	if authErr := GetAuthError(err); authErr != nil {
		return authErr.ShouldLog
	}
	return true
}

// IsSecurityEvent returns true if the error should be tracked as a security event
func IsSecurityEvent(err error) bool {
	if authErr := GetAuthError(err); authErr != nil {
		return authErr.SecurityEvent
	}
	return false
}
