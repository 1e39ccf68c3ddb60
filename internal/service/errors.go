package service

import "errors"

// Centralized service layer errors.
// All errors returned by service methods are defined here for consistency
// and to make error handling in the Discord layer predictable.

// ===== Assignment Errors =====
var (
	ErrConfigMissing         = errors.New("guild is not configured")
	ErrSlotNotConfigured     = errors.New("slot has no role bound")
	ErrNotAuthorized         = errors.New("not authorized to manage assignments")
	ErrRoleNotFound          = errors.New("role not found")
	ErrRecipientNotEligible  = errors.New("recipient lacks a required role")
	ErrCapacityExceeded      = errors.New("role capacity exceeded")
	ErrInsufficientPrivilege = errors.New("bot cannot manage this role")
	ErrNotGrantOwner         = errors.New("membership was granted by someone else")
)

// ===== Configuration Errors =====
var (
	ErrInvalidSlot  = errors.New("invalid slot")
	ErrInvalidLimit = errors.New("limit must be at least 1")
	ErrNoRolesGiven = errors.New("at least one role is required")
)

// ===== Platform Errors =====
var (
	// ErrPlatform wraps failures of the chat platform or the persistence
	// layer, as opposed to rule violations by the invoker.
	ErrPlatform = errors.New("platform error")
)
