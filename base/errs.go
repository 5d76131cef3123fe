package base

import "errors"

var ErrTruncated = errors.New("compressed data truncated")
var ErrInvalidCode = errors.New("invalid dictionary code")
var ErrInvalidFormat = errors.New("invalid byte list format")
var ErrNotFound = errors.New("key not found")
var ErrClosed = errors.New("store is closed")
var ErrOutputLimit = errors.New("decompressed output limit exceeded")
