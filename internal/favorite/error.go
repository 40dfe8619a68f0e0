package favorite

import "errors"

var ErrMalformedFavorites = errors.New("malformed persisted favorites")
