package service

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrScoreNotFound   = errors.New("score not found")
	ErrPostNotFound    = errors.New("post not found")
	ErrPremiumRequired = errors.New("premium plan required")
	ErrCooldown        = errors.New("score recalculation is cooling down")
	ErrInvalidInput    = errors.New("invalid input")
)

// CooldownError reports when the next calculation will be accepted
type CooldownError struct {
	AccountID       int64
	NextAvailableAt time.Time
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("account %d: %s until %s", e.AccountID, ErrCooldown, e.NextAvailableAt.Format(time.RFC3339))
}

func (e *CooldownError) Is(target error) bool {
	return target == ErrCooldown
}

func invalidInput(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
