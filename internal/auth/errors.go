package auth

import "github.com/studyhive/studyhive/internal/fault"

var (
	// ErrUserNameOrEmailExists is returned when attempting to register a user
	// with a username or email that already exists.
	ErrUserNameOrEmailExists = fault.New(fault.Validation, "user with username or email already exists")

	// ErrInvalidCredentials is returned when the username or password is wrong
	// during authentication. Deliberately indistinguishable between the two.
	ErrInvalidCredentials = fault.New(fault.Unauthorized, "invalid username or password")

	// ErrMissingToken is returned when a gated route is called without a
	// bearer credential.
	ErrMissingToken = fault.New(fault.Unauthorized, "missing bearer token")

	// ErrInvalidToken is returned when a bearer credential fails verification.
	ErrInvalidToken = fault.New(fault.Unauthorized, "invalid or expired bearer token")
)
