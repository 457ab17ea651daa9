package cache

import "errors"

// ErrStoreClosed is returned when writing to a store after Close.
var ErrStoreClosed = errors.New("snapshot store is closed")
