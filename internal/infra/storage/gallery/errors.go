package gallery

import "errors"

var (
	ErrItemNotFound = errors.New("gallery.repository: item not found")
	ErrBuildQuery   = errors.New("gallery.repository: failed to build query")
	ErrExecQuery    = errors.New("gallery.repository: failed to execute query")
	ErrScanRow      = errors.New("gallery.repository: failed to scan row")
)
