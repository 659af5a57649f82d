package remote

import (
	"encoding/json"
	"errors"
)

// isDecodeError reports whether err came from a malformed envelope rather than the link.
func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, ErrProtocol)
}
