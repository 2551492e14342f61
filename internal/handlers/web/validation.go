package web

import (
	"errors"
	"regexp"

	"github.com/efidev/issuetracker/params"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,32}$`)

func validateUsername(username string) error {
	if username == "" {
		return errors.New("Username is required.")
	}
	if !usernameRegex.MatchString(username) {
		return errors.New("Username can only contain letters, numbers, and underscores.")
	}
	return nil
}

func validatePassword(password, confirm string) error {
	if len(password) < params.PasswordMinLength {
		return errors.New(MsgPasswordTooShort)
	}
	if password != confirm {
		return errors.New(MsgPasswordMismatch)
	}
	return nil
}
