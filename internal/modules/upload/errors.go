package upload

import "errors"

var (
	ErrEmptyFile       = errors.New("empty file")
	ErrFileTooLarge    = errors.New("file too large")
	ErrInvalidMimeType = errors.New("mime type not allowed")
)
