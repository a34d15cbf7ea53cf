package api

import (
	"errors"
	"time"

	"github.com/socialhealth/healthscore/internal/api/params"
	"github.com/socialhealth/healthscore/internal/scoring"
	"github.com/socialhealth/healthscore/internal/service"
)

// Standard JSON-RPC error codes
const (
	ErrParseError     = -32700
	ErrInvalidRequest = -32600
	ErrMethodNotFound = -32601
	ErrInvalidParams  = -32602
	ErrServerError    = -32000
)

// Application error codes
const (
	ErrCooldownActive  = -32001
	ErrPremiumRequired = -32003
	ErrNotFound        = -32004
)

// toRPCError maps a method error onto a JSON-RPC error object
func toRPCError(err error) *JSONRPCError {
	if ce, ok := service.IsCooldown(err); ok {
		return &JSONRPCError{
			Code:    ErrCooldownActive,
			Message: "Cooldown active",
			Data: map[string]interface{}{
				"message":           err.Error(),
				"next_available_at": ce.NextAvailableAt.UTC().Format(time.RFC3339),
			},
		}
	}

	switch {
	case errors.Is(err, params.ErrInvalidParams), errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, scoring.ErrConfiguration):
		return &JSONRPCError{Code: ErrInvalidParams, Message: "Invalid params", Data: err.Error()}
	case errors.Is(err, service.ErrPremiumRequired):
		return &JSONRPCError{Code: ErrPremiumRequired, Message: "Premium required", Data: err.Error()}
	case errors.Is(err, service.ErrAccountNotFound), errors.Is(err, service.ErrScoreNotFound),
		errors.Is(err, service.ErrPostNotFound):
		return &JSONRPCError{Code: ErrNotFound, Message: "Not found", Data: err.Error()}
	default:
		return &JSONRPCError{Code: ErrServerError, Message: "Server error", Data: err.Error()}
	}
}
