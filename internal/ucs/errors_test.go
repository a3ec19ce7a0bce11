package ucs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUCSError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *UCSError
		expected string
	}{
		{
			name: "remote error with code and DN",
			err: &UCSError{
				Operation: MethodConfMos,
				Kind:      KindRemote,
				Code:      CodeAlreadyExists,
				Message:   "object already exists",
				Endpoint:  "ucsm.example.com",
				DN:        "org-root/ip-pool-DC03",
			},
			expected: "UCS configConfMos failed (code 103) - object already exists - endpoint: ucsm.example.com - DN: org-root/ip-pool-DC03",
		},
		{
			name: "local error without code",
			err: &UCSError{
				Operation: "filter",
				Kind:      KindInvalidArgument,
				Message:   "filter value cannot be empty",
			},
			expected: "UCS filter failed - filter value cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestNewResponseError_Categorizes(t *testing.T) {
	tests := []struct {
		code     string
		category ErrorCategory
	}{
		{"551", ErrorCategoryAuthentication},
		{"552", ErrorCategoryAuthentication},
		{"103", ErrorCategoryConflict},
		{"107", ErrorCategoryNotFound},
		{"102", ErrorCategoryValidation},
		{"5001", ErrorCategoryPermission},
		{"599", ErrorCategoryServer},
		{"42", ErrorCategoryUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := newResponseError(MethodResolveDN, tt.code, "descr")
			assert.Equal(t, KindRemote, err.Kind)
			assert.Equal(t, tt.category, err.Category)
		})
	}
}

func TestNewConnectionError(t *testing.T) {
	t.Run("carries endpoint response details", func(t *testing.T) {
		cause := newResponseError(MethodLogin, "551", "Authentication failed")
		err := NewConnectionError("ucsm.example.com", cause)

		assert.True(t, IsConnectionError(err))
		assert.False(t, IsRemoteError(err))
		assert.Equal(t, CodeAuthFailed, err.Code)
		assert.Equal(t, "Authentication failed", err.Message)
		assert.Equal(t, "ucsm.example.com", err.Endpoint)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("transport failure", func(t *testing.T) {
		err := NewConnectionError("ucsm.example.com", errors.New("dial tcp: connection refused"))

		assert.True(t, IsConnectionError(err))
		assert.Equal(t, ErrorCategoryTransport, err.Category)
		assert.Contains(t, err.Error(), "connection refused")
	})
}

func TestNewRemoteError(t *testing.T) {
	t.Run("nil cause", func(t *testing.T) {
		assert.Nil(t, NewRemoteError(MethodResolveDN, "ucsm", "org-root", nil))
	})

	t.Run("adds context to a classified error", func(t *testing.T) {
		cause := newResponseError(MethodConfMos, "103", "exists")
		err := NewRemoteError(MethodConfMos, "ucsm", "org-root/ip-pool-DC03", cause)

		assert.Same(t, cause, err)
		assert.Equal(t, "ucsm", err.Endpoint)
		assert.Equal(t, "org-root/ip-pool-DC03", err.DN)
		assert.True(t, IsConflictError(err))
	})

	t.Run("wraps foreign errors", func(t *testing.T) {
		cause := errors.New("read tcp: i/o timeout")
		err := NewRemoteError(MethodResolveDN, "ucsm", "org-root", cause)

		assert.True(t, IsRemoteError(err))
		assert.Equal(t, ErrorCategoryTransport, err.Category)
		assert.True(t, err.IsRetryable())
		assert.ErrorIs(t, err, cause)
	})
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("block 0: %w", NewInvalidArgumentError("validate ip block", "bad"))

	assert.Equal(t, KindInvalidArgument, KindOf(wrapped))
	assert.True(t, IsInvalidArgument(wrapped))
	assert.Equal(t, ErrorKind(""), KindOf(errors.New("plain")))
	assert.Equal(t, ErrorKind(""), KindOf(nil))

	notFound := &UCSError{Kind: KindNotFound}
	require.True(t, IsNotFoundError(notFound))
	assert.False(t, notFound.IsRetryable())
}
