package placement

import "errors"

var (
	ErrSessionNotInitialized = errors.New("placement: solver session not initialized")
	ErrInvalidQuery          = errors.New("placement: invalid query")
	ErrUnknownObjectType     = errors.New("placement: unknown object type")
)
