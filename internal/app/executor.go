package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jsamuelsen/quotevault/internal/platform/logging"
)

// Transactional pattern: Validate → Perform → Verify → Archive → Respond.
// Validation runs before any state change; the performed result is
// verified before it is persisted; persistence happens before the
// response is built. Bulk mutations of the collection run through
// this so a bad payload can never leave partial state behind.

// ExecutionStep identifies a step in the transactional pattern.
type ExecutionStep string

const (
	StepValidate ExecutionStep = "validate"
	StepPerform  ExecutionStep = "perform"
	StepVerify   ExecutionStep = "verify"
	StepArchive  ExecutionStep = "archive"
	StepRespond  ExecutionStep = "respond"
)

// ExecutionError wraps errors with the step where they occurred.
type ExecutionError struct {
	Step    ExecutionStep
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Step, e.Message, e.Cause)
	}

	return fmt.Sprintf("%s failed: %s", e.Step, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

func stepError(step ExecutionStep, message string, cause error) error {
	return &ExecutionError{Step: step, Message: message, Cause: cause}
}

// Executor runs operations through the transactional pattern with
// step-level logging.
type Executor struct {
	logger *slog.Logger
}

// NewExecutor creates a new executor with the given logger.
func NewExecutor(logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}

	return &Executor{logger: logger}
}

// Operation defines the functions for each step. Nil steps are
// skipped. I is the input, P the performed result, V the verified
// result, O the response.
type Operation[I, P, V, O any] struct {
	// Name identifies this operation for logging.
	Name string

	// Validate checks inputs and preconditions before any state change.
	Validate func(ctx context.Context, input I) error

	// Perform executes the main operation.
	Perform func(ctx context.Context, input I) (P, error)

	// Verify confirms the performed result upholds the invariants.
	Verify func(ctx context.Context, input I, performed P) (V, error)

	// Archive persists the verified state.
	Archive func(ctx context.Context, input I, verified V) error

	// Respond builds the caller-facing result.
	Respond func(ctx context.Context, input I, verified V) (O, error)
}

// Execute runs an operation through the full transactional pattern.
// The returned error carries the failing step via ExecutionError.
func Execute[I, P, V, O any](ctx context.Context, exec *Executor, op Operation[I, P, V, O], input I) (O, error) {
	var zero O

	logger := logging.FromContext(ctx)
	if logger == nil {
		logger = exec.logger
	}

	logger = logger.With(slog.String("operation", op.Name))
	start := time.Now()

	if op.Validate != nil {
		if err := op.Validate(ctx, input); err != nil {
			logger.WarnContext(ctx, "validation failed", slog.Any("error", err))

			return zero, stepError(StepValidate, "input validation failed", err)
		}
	}

	var performed P

	if op.Perform != nil {
		var err error

		performed, err = op.Perform(ctx, input)
		if err != nil {
			logger.WarnContext(ctx, "perform failed", slog.Any("error", err))

			return zero, stepError(StepPerform, "operation failed", err)
		}
	}

	var verified V

	if op.Verify != nil {
		var err error

		verified, err = op.Verify(ctx, input, performed)
		if err != nil {
			logger.ErrorContext(ctx, "verification failed", slog.Any("error", err))

			return zero, stepError(StepVerify, "verification failed", err)
		}
	}

	if op.Archive != nil {
		if err := op.Archive(ctx, input, verified); err != nil {
			logger.ErrorContext(ctx, "archive failed", slog.Any("error", err))

			return zero, stepError(StepArchive, "state persistence failed", err)
		}
	}

	var result O

	if op.Respond != nil {
		var err error

		result, err = op.Respond(ctx, input, verified)
		if err != nil {
			logger.WarnContext(ctx, "respond formatting failed", slog.Any("error", err))

			return zero, stepError(StepRespond, "response formatting failed", err)
		}
	}

	logger.InfoContext(ctx, "operation completed",
		slog.Duration("duration", time.Since(start)),
	)

	return result, nil
}

// IsExecutionError checks if an error occurred during execution.
func IsExecutionError(err error) bool {
	var execErr *ExecutionError

	return errors.As(err, &execErr)
}

// GetExecutionStep extracts the step from an execution error.
func GetExecutionStep(err error) (ExecutionStep, bool) {
	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		return execErr.Step, true
	}

	return "", false
}
