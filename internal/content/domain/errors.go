package domain

import "errors"

var (
	ErrContentNotFound      = errors.New("content not found")
	ErrBodyRequired         = errors.New("diary entries need body text")
	ErrFileRequired         = errors.New("image and video items need a file")
	ErrFileTooLarge         = errors.New("file exceeds the upload size limit")
	ErrUnsupportedMediaType = errors.New("unsupported file type")
	ErrStorageUnavailable   = errors.New("object storage is not configured")
)
