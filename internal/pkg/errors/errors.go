package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is a generic sentinel for auth failures.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrAccessDenied means policy evaluation produced no granted scopes.
	ErrAccessDenied = errors.New("access denied")
	// ErrPermissionInsufficient means read access was granted but the
	// requested capability (e.g. propose) was not.
	ErrPermissionInsufficient = errors.New("permission insufficient")
	// ErrInvalidTransition means a proposal is already resolved or the
	// transition is not available to the caller.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrPolicyConstraintViolated means an ancestor enforced rule rejected
	// a policy change.
	ErrPolicyConstraintViolated = errors.New("policy constraint violated")
	// ErrExpiredPolicy means every policy matching the actor has expired.
	ErrExpiredPolicy = errors.New("policy expired")
)
