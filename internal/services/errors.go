package services

import "errors"

// ErrDatasetNotFound is returned for an ID that is not in the store.
var ErrDatasetNotFound = errors.New("dataset not found")
