package placement

import "context"

// Gateway is the boundary to the geometric solver.
//
// Init starts a fresh session and must precede any Place call in that session. Place is
// synchronous: it returns (result, true, nil) on success and (Result{}, false, nil) when the
// solver cannot satisfy the query. A non-nil error means the gateway itself failed
// (transport, protocol, or ErrSessionNotInitialized).
type Gateway interface {
	Init(ctx context.Context) error
	Place(ctx context.Context, q Query) (Result, bool, error)
}
