package commands

import (
	"errors"
	"time"

	"meddispatch/internal/pkg/errs"
	"meddispatch/internal/pkg/guard"
)

var ErrExpireStaleAttemptsCommandIsNotConstructed = errors.New(
	"ExpireStaleAttemptsCommand must be created via NewExpireStaleAttemptsCommand constructor",
)

// ExpireStaleAttemptsCommand represents a sweep over orders whose pending
// offer has gone unanswered longer than the response window. Issued
// periodically by the attempt timeout job.
type ExpireStaleAttemptsCommand struct { //nolint:recvcheck //using for validation
	timeout time.Duration

	guard guard.ConstructorGuard
}

// NewExpireStaleAttemptsCommand creates a sweep command with the response
// window candidates are granted before their silence counts as a rejection.
func NewExpireStaleAttemptsCommand(timeout time.Duration) (ExpireStaleAttemptsCommand, error) {
	if timeout <= 0 {
		return ExpireStaleAttemptsCommand{}, errs.NewValueIsInvalidError("timeout")
	}

	return ExpireStaleAttemptsCommand{
		timeout: timeout,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ExpireStaleAttemptsCommand) Validate() error {
	return c.guard.Validate(ErrExpireStaleAttemptsCommandIsNotConstructed)
}

// Timeout returns the response window.
func (c ExpireStaleAttemptsCommand) Timeout() time.Duration {
	return c.timeout
}
