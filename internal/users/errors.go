package users

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrUsernameRequired   = errors.New("username is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrPasswordTooShort   = errors.New("password is too short")
	ErrInvalidRole        = errors.New("invalid role")
	ErrScopeRequired      = errors.New("company and department are required for this role")
	ErrSelfDeleteRefused  = errors.New("cannot delete own account")
	ErrInvalidCredentials = errors.New("invalid username or password")
)
