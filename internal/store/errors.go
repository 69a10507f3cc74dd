package store

import "errors"

var ErrUnknownCollection = errors.New("Unknown collection")
