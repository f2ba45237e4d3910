package postlist

import "errors"

var (
	ErrResourceNotFound  = errors.New("resource not found")
	ErrDesignNotFound    = errors.New("design not found")
	ErrInvalidPreset     = errors.New("invalid preset")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrMissingStore      = errors.New("missing store")
)
