package tempstore

import "errors"

var (
	ErrNotFound   = errors.New("entry not found")
	ErrSaveFailed = errors.New("save failed")
)
