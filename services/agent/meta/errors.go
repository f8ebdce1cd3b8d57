package meta

import "errors"

// ErrInvalidCatalog signals a catalog document that can not be loaded
var ErrInvalidCatalog = errors.New("invalid metric catalog")
