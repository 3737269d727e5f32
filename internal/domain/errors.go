package domain

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrNoOrder           = errors.New("no order placed yet")
	ErrPublish           = errors.New("order event not delivered")
	ErrEmptyItem         = errors.New("item name is empty")
	ErrUnknownItem       = errors.New("item is not on the menu")
	ErrUnknownCategory   = errors.New("unknown menu category")
	ErrUnknownPreference = errors.New("unknown dietary preference")

	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrNotLoggedIn        = errors.New("session is not logged in")
	ErrForbidden          = errors.New("admin role required")
	ErrSessionNotFound    = errors.New("session not found")
	ErrUserNotFound       = errors.New("user not found")
)
