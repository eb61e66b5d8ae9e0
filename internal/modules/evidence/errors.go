package evidence

import "errors"

var (
	ErrNotFound        = errors.New("evidence asset not found")
	ErrNotOwner        = errors.New("caller does not own this evidence asset")
	ErrFileTooLarge    = errors.New("file exceeds maximum allowed size")
	ErrInvalidMimeType = errors.New("file type is not allowed as evidence")
	ErrEmptyFile       = errors.New("file is empty")
)
