package api

import (
	"errors"
	"fmt"
)

// ErrBadRequest marks request bodies the API could not accept.
var ErrBadRequest = errors.New("bad request")

// WrapKind tags err with the operation and kind, keeping both matchable.
func WrapKind(op string, kind, err error) error {
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}
