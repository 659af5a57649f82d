package collection

import "errors"

var (
	ErrEmptyRegistry      = errors.New("collection: no registered objects")
	ErrDegenerateTemplate = errors.New("collection: template has no usable bounds")
	ErrInvalidConfig      = errors.New("collection: invalid configuration")
)
