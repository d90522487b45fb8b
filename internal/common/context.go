package common

import (
	"context"
)

// Context keys for storing values in context
type contextKey string

const (
	ContextKeyRequestID   contextKey = "request_id"
	ContextKeyHouseholdID contextKey = "household_id"
	ContextKeyUserID      contextKey = "user_id"
)

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// RequestIDFromContext extracts the request ID from context
func RequestIDFromContext(ctx context.Context) string {
	if requestID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return requestID
	}
	return ""
}

// WithHouseholdID adds a household ID to the context
func WithHouseholdID(ctx context.Context, householdID string) context.Context {
	return context.WithValue(ctx, ContextKeyHouseholdID, householdID)
}

// HouseholdIDFromContext extracts the household ID from context
func HouseholdIDFromContext(ctx context.Context) string {
	if householdID, ok := ctx.Value(ContextKeyHouseholdID).(string); ok {
		return householdID
	}
	return ""
}
