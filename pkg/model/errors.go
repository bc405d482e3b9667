package model

import "errors"

// ErrInvalidInput is returned for values outside their allowed vocabulary.
var ErrInvalidInput = errors.New("invalid input")
