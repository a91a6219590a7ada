package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Configuration errors (catalog/request mismatch, fatal to the request)
	ErrMsgUnknownBox    = "unknown box"
	ErrMsgEmptyBox      = "box has no eligible weapons"
	ErrMsgUnknownWeapon = "unknown weapon"

	// Economic errors (expected, user-facing)
	ErrMsgInsufficientFunds = "insufficient funds"

	// Player errors
	ErrMsgPlayerNotFound = "player not found"
	ErrMsgPlayerExists   = "player already exists"

	// Inventory errors
	ErrMsgItemNotFound = "item not found"
	ErrMsgItemNotOwned = "item not owned by player"
	ErrMsgItemLocked   = "item is locked"
	ErrMsgItemListed   = "item is listed on the market"

	// Market errors
	ErrMsgListingNotFound = "listing not found"
	ErrMsgListingOwn      = "cannot buy own listing"

	// Consistency errors (at-most-once guarantee violated, fatal/alerting)
	ErrMsgConsistency = "consistency violation"

	// Validation errors
	ErrMsgInvalidInput = "invalid input"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	ErrUnknownBox    = errors.New(ErrMsgUnknownBox)
	ErrEmptyBox      = errors.New(ErrMsgEmptyBox)
	ErrUnknownWeapon = errors.New(ErrMsgUnknownWeapon)

	ErrInsufficientFunds = errors.New(ErrMsgInsufficientFunds)

	ErrPlayerNotFound = errors.New(ErrMsgPlayerNotFound)
	ErrPlayerExists   = errors.New(ErrMsgPlayerExists)

	ErrItemNotFound = errors.New(ErrMsgItemNotFound)
	ErrItemNotOwned = errors.New(ErrMsgItemNotOwned)
	ErrItemLocked   = errors.New(ErrMsgItemLocked)
	ErrItemListed   = errors.New(ErrMsgItemListed)

	ErrListingNotFound = errors.New(ErrMsgListingNotFound)
	ErrListingOwn      = errors.New(ErrMsgListingOwn)

	// ErrConsistency marks a state where a partial commit may have become
	// observable. Never swallow it; it must surface as an alert.
	ErrConsistency = errors.New(ErrMsgConsistency)

	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)
