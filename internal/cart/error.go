package cart

import "errors"

var ErrMalformedState = errors.New("malformed persisted cart")
