package issues

import "errors"

var (
	ErrIssueNotFound    = errors.New("issue not found")
	ErrTitleRequired    = errors.New("title is required")
	ErrDescriptionEmpty = errors.New("description is required")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrInvalidPriority  = errors.New("invalid priority")
	ErrInvalidStatus    = errors.New("invalid status")
)
