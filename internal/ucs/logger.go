package ucs

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/hashicorp/terraform-plugin-log/tflog"
)

// Subsystem is the tflog subsystem used by the engine.
const Subsystem = "ucs"

// LogOperation is a helper function to log an operation with timing.
func LogOperation(ctx context.Context, operation string, fields map[string]any, fn func() error) error {
	start := time.Now()

	if fields == nil {
		fields = make(map[string]any)
	}
	fields["operation"] = operation

	tflog.SubsystemDebug(ctx, Subsystem, "Starting operation", fields)

	err := fn()

	fields["duration_ms"] = time.Since(start).Milliseconds()

	if err != nil {
		errorFields(fields, err)
		tflog.SubsystemError(ctx, Subsystem, "Operation failed", fields)
	} else {
		tflog.SubsystemDebug(ctx, Subsystem, "Operation completed successfully", fields)
	}

	return err
}

// LogPerformance logs timing for a remote call.
func LogPerformance(ctx context.Context, operation string, duration time.Duration, fields map[string]any) {
	if fields == nil {
		fields = make(map[string]any)
	}

	fields["operation"] = operation
	fields["duration_ms"] = duration.Milliseconds()

	if duration > 5*time.Second {
		tflog.SubsystemWarn(ctx, Subsystem, "Slow operation detected", fields)
	} else {
		tflog.SubsystemTrace(ctx, Subsystem, "Operation performance", fields)
	}
}

// errorFields adds the classification of err to fields.
func errorFields(fields map[string]any, err error) {
	fields["error"] = err.Error()

	var ucsErr *UCSError
	if !errors.As(err, &ucsErr) {
		return
	}
	fields["error_kind"] = string(ucsErr.Kind)
	if ucsErr.Category != "" {
		fields["error_category"] = string(ucsErr.Category)
	}
	if ucsErr.Code > 0 {
		fields["ucs_error_code"] = ucsErr.Code
	}
	if ucsErr.DN != "" {
		fields["dn"] = ucsErr.DN
	}
}

// LogConnectionEvent logs session lifecycle events.
func LogConnectionEvent(ctx context.Context, event string, fields map[string]any) {
	if fields == nil {
		fields = make(map[string]any)
	}

	fields["event"] = event
	fields = SanitizeFields(fields)

	switch event {
	case "session_established", "session_reused", "session_closed":
		tflog.SubsystemInfo(ctx, Subsystem, "Connection event", fields)
	case "authentication_failed", "logout_failed":
		tflog.SubsystemError(ctx, Subsystem, "Connection event", fields)
	default:
		tflog.SubsystemDebug(ctx, Subsystem, "Connection event", fields)
	}
}

// SanitizeFields removes sensitive information from log fields.
func SanitizeFields(fields map[string]any) map[string]any {
	sanitized := make(map[string]any, len(fields))

	sensitiveKeys := map[string]bool{
		"password":   true,
		"passwd":     true,
		"secret":     true,
		"token":      true,
		"cookie":     true,
		"outcookie":  true,
		"credential": true,
	}

	for k, v := range fields {
		if sensitiveKeys[strings.ToLower(k)] {
			sanitized[k] = "[REDACTED]"
			continue
		}
		if str, ok := v.(string); ok && containsSensitivePattern(str) {
			sanitized[k] = "[REDACTED]"
			continue
		}
		sanitized[k] = v
	}

	return sanitized
}

// containsSensitivePattern checks if a string contains patterns that might be sensitive.
func containsSensitivePattern(s string) bool {
	patterns := []string{
		"password=",
		"inpassword=",
		"cookie=",
		"outcookie=",
	}

	lower := strings.ToLower(s)
	for _, pattern := range patterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}

	return false
}
