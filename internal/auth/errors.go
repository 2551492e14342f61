package auth

import "errors"

var (
	// ErrPermissionDenied means the actor's role lacks the capability.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrScopeDenied means the role allows the action but the target issue
	// lies outside the actor's company/department scope.
	ErrScopeDenied = errors.New("issue outside actor scope")
)
