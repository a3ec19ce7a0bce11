package ucs

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrorKind is the failure taxonomy reported to callers.
type ErrorKind string

const (
	// KindInvalidArgument reports a malformed descriptor or an unsafe name. Always local.
	KindInvalidArgument ErrorKind = "invalid_argument"
	// KindConnection reports a failed authentication handshake.
	KindConnection ErrorKind = "connection"
	// KindRemote reports a primitive that failed after the session was established.
	KindRemote ErrorKind = "remote"
	// KindNotFound reports an object that does not exist where one was required.
	KindNotFound ErrorKind = "not_found"
)

// ErrorCategory refines a remote failure by its UCS error code.
type ErrorCategory string

const (
	ErrorCategoryTransport      ErrorCategory = "transport"
	ErrorCategoryAuthentication ErrorCategory = "authentication"
	ErrorCategoryPermission     ErrorCategory = "permission"
	ErrorCategoryNotFound       ErrorCategory = "not_found"
	ErrorCategoryConflict       ErrorCategory = "conflict"
	ErrorCategoryValidation     ErrorCategory = "validation"
	ErrorCategoryServer         ErrorCategory = "server"
	ErrorCategoryUnknown        ErrorCategory = "unknown"
)

// UCS Manager XML API error codes.
const (
	CodeTxRollback        = 102
	CodeAlreadyExists     = 103
	CodeNoSuchObject      = 107
	CodeInvalidProperty   = 108
	CodeAuthFailed        = 551
	CodeAuthRequired      = 552
	CodeSessionLimit      = 572
	CodeUnauthorizedWrite = 5001
)

// UCSError provides enhanced error information for UCS operations.
type UCSError struct {
	Operation string        // The primitive or step that failed
	Kind      ErrorKind     // Caller-facing taxonomy
	Category  ErrorCategory // Refinement for remote failures
	Code      int           // UCS errorCode, 0 when not reported by the endpoint
	Message   string        // Human-readable message
	Endpoint  string        // Endpoint identity, when known
	DN        string        // DN involved in the operation (if applicable)
	Cause     error         // Underlying error
}

func (e *UCSError) Error() string {
	var parts []string

	if e.Code > 0 {
		parts = append(parts, fmt.Sprintf("UCS %s failed (code %d)", e.Operation, e.Code))
	} else {
		parts = append(parts, fmt.Sprintf("UCS %s failed", e.Operation))
	}

	if e.Message != "" {
		parts = append(parts, e.Message)
	}

	if e.Endpoint != "" {
		parts = append(parts, fmt.Sprintf("endpoint: %s", e.Endpoint))
	}

	if e.DN != "" {
		parts = append(parts, fmt.Sprintf("DN: %s", e.DN))
	}

	return strings.Join(parts, " - ")
}

func (e *UCSError) Unwrap() error {
	return e.Cause
}

// IsRetryable reports whether a caller could reasonably retry. The engine itself never does.
func (e *UCSError) IsRetryable() bool {
	if e.Kind != KindRemote {
		return false
	}
	return e.Category == ErrorCategoryTransport || e.Category == ErrorCategoryServer
}

// NewInvalidArgumentError creates an InvalidArgument error.
func NewInvalidArgumentError(operation, format string, args ...any) *UCSError {
	return &UCSError{
		Operation: operation,
		Kind:      KindInvalidArgument,
		Category:  ErrorCategoryValidation,
		Message:   fmt.Sprintf(format, args...),
	}
}

// NewConnectionError creates a ConnectionError for a failed handshake.
func NewConnectionError(endpoint string, cause error) *UCSError {
	err := &UCSError{
		Operation: "aaaLogin",
		Kind:      KindConnection,
		Category:  ErrorCategoryAuthentication,
		Endpoint:  endpoint,
		Cause:     cause,
	}

	var remote *UCSError
	if errors.As(cause, &remote) {
		err.Code = remote.Code
		err.Message = remote.Message
		err.Category = remote.Category
	} else if cause != nil {
		err.Category = ErrorCategoryTransport
		err.Message = cause.Error()
	}

	return err
}

// NewRemoteError creates a RemoteError for a failed primitive.
func NewRemoteError(operation, endpoint string, dn DN, cause error) *UCSError {
	if cause == nil {
		return nil
	}

	var existing *UCSError
	if errors.As(cause, &existing) && existing.Kind == KindRemote {
		// Already classified by the wire layer; add context only.
		if existing.Operation == "" {
			existing.Operation = operation
		}
		if existing.Endpoint == "" {
			existing.Endpoint = endpoint
		}
		if existing.DN == "" {
			existing.DN = dn.String()
		}
		return existing
	}

	return &UCSError{
		Operation: operation,
		Kind:      KindRemote,
		Category:  categorizeGenericError(cause),
		Message:   cause.Error(),
		Endpoint:  endpoint,
		DN:        dn.String(),
		Cause:     cause,
	}
}

// newResponseError creates a RemoteError from an errorCode/errorDescr pair.
func newResponseError(operation, code, descr string) *UCSError {
	n, _ := strconv.Atoi(code)
	return &UCSError{
		Operation: operation,
		Kind:      KindRemote,
		Category:  categorizeCode(n),
		Code:      n,
		Message:   descr,
	}
}

// categorizeCode categorizes an error based on the UCS error code.
func categorizeCode(code int) ErrorCategory {
	switch code {
	case CodeAuthFailed, CodeAuthRequired, CodeSessionLimit:
		return ErrorCategoryAuthentication
	case CodeUnauthorizedWrite:
		return ErrorCategoryPermission
	case CodeNoSuchObject:
		return ErrorCategoryNotFound
	case CodeAlreadyExists:
		return ErrorCategoryConflict
	case CodeInvalidProperty, CodeTxRollback:
		return ErrorCategoryValidation
	default:
		if code >= 500 && code < 600 {
			return ErrorCategoryServer
		}
		return ErrorCategoryUnknown
	}
}

// categorizeGenericError categorizes errors not reported by the endpoint.
func categorizeGenericError(err error) ErrorCategory {
	errStr := strings.ToLower(err.Error())

	transportPatterns := []string{
		"connection",
		"network",
		"timeout",
		"broken pipe",
		"no such host",
		"eof",
		"tls",
	}

	for _, pattern := range transportPatterns {
		if strings.Contains(errStr, pattern) {
			return ErrorCategoryTransport
		}
	}

	return ErrorCategoryUnknown
}

// KindOf returns the kind of an error, or "" for foreign errors.
func KindOf(err error) ErrorKind {
	var ucsErr *UCSError
	if errors.As(err, &ucsErr) {
		return ucsErr.Kind
	}
	return ""
}

// IsInvalidArgument checks if an error is a local validation failure.
func IsInvalidArgument(err error) bool {
	return KindOf(err) == KindInvalidArgument
}

// IsConnectionError checks if an error is a failed authentication handshake.
func IsConnectionError(err error) bool {
	return KindOf(err) == KindConnection
}

// IsRemoteError checks if an error came from a primitive after authentication.
func IsRemoteError(err error) bool {
	return KindOf(err) == KindRemote
}

// IsNotFoundError checks if an error indicates a "not found" condition.
func IsNotFoundError(err error) bool {
	var ucsErr *UCSError
	if !errors.As(err, &ucsErr) {
		return false
	}
	return ucsErr.Kind == KindNotFound || ucsErr.Category == ErrorCategoryNotFound
}

// IsConflictError checks if an error indicates the object already exists.
func IsConflictError(err error) bool {
	var ucsErr *UCSError
	return errors.As(err, &ucsErr) && ucsErr.Category == ErrorCategoryConflict
}
