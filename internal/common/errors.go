// Package common — errors.go defines the sentinel errors shared across
// features. Handlers match on these to tell the user which resource is
// missing instead of replying with a generic failure.
package common

import "errors"

// Economy errors (dream dust, gifts, bets)
var (
	// ErrInsufficientBalance — not enough dream dust for the operation
	ErrInsufficientBalance = errors.New("not enough dream dust")
	// ErrInvalidAmount — zero or negative amount
	ErrInvalidAmount = errors.New("amount must be positive")
	// ErrSelfGift — attempt to gift to yourself
	ErrSelfGift = errors.New("cannot gift to yourself")
	// ErrInvalidSide — coinflip call that is neither heads nor tails
	ErrInvalidSide = errors.New("side must be heads or tails")
	// ErrAccountNotFound — no account row for the user in this guild
	ErrAccountNotFound = errors.New("account not found")
)

// Item and shop errors
var (
	// ErrInsufficientItems — inventory holds fewer items than requested
	ErrInsufficientItems = errors.New("not enough items in inventory")
	// ErrUnknownItem — item is not in the catalog or shop
	ErrUnknownItem = errors.New("unknown item")
	// ErrNotSellable — catalog entry has no positive sell value
	ErrNotSellable = errors.New("item cannot be sold")
	// ErrOutOfStock — shop listing has less stock than requested
	ErrOutOfStock = errors.New("not enough stock")
)

// Crafting errors
var (
	// ErrUnknownRecipe — no recipe with that name
	ErrUnknownRecipe = errors.New("unknown recipe")
)
