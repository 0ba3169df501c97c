package domain

import "errors"

var (
	// ErrIdentityNotFound is returned by the profile store when no record
	// exists for the given id or phone.
	ErrIdentityNotFound = errors.New("identity not found")

	// ErrInvalidCredentials covers every credential failure at login —
	// unknown identifier and wrong password alike, so the response never
	// reveals whether an account exists.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrThrottled is mapped to a 429 with a literal wait message by the
	// error handler; the minutes travel next to it, not inside it.
	ErrThrottled = errors.New("too many login attempts")

	// ErrIPBlocked rejects a login from a denylisted address.
	ErrIPBlocked = errors.New("access denied")
)
