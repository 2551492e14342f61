package lookups

import "errors"

var (
	ErrNotFound     = errors.New("entry not found")
	ErrNameTaken    = errors.New("name already exists")
	ErrNameRequired = errors.New("name is required")
)
