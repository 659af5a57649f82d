package remote

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zeusync/artrainer/internal/core/observability/log"
	"github.com/zeusync/artrainer/internal/core/placement"
)

// DefaultTimeout bounds a single round trip when the caller's context has no deadline.
const DefaultTimeout = 5 * time.Second

type roundTripper interface {
	roundTrip(ctx context.Context, req Request) (Response, error)
	close() error
}

// client implements placement.Gateway over any roundTripper. Calls are serialised so that
// responses pair with their requests.
type client struct {
	mu      sync.Mutex
	rt      roundTripper
	session uuid.UUID
	closed  bool
	timeout time.Duration
	logger  log.Log
}

func newClient(rt roundTripper, timeout time.Duration, logger log.Log) *client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &client{rt: rt, timeout: timeout, logger: logger}
}

func (c *client) call(ctx context.Context, req Request) (Response, error) {
	if c.closed {
		return Response{}, ErrClosed
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	resp, err := c.rt.roundTrip(ctx, req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Response{}, ctxErr
		}
		return Response{}, err
	}
	return resp, nil
}

func (c *client) Init(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	resp, err := c.call(ctx, Request{Op: OpInit})
	if err != nil {
		return err
	}
	if err := resp.Err(); err != nil {
		return err
	}
	if resp.Session == uuid.Nil {
		return fmt.Errorf("%w: init returned no session", ErrProtocol)
	}
	c.session = resp.Session
	c.logger.Debug("remote session started", log.String("session", c.session.String()))
	return nil
}

func (c *client) Place(ctx context.Context, q placement.Query) (placement.Result, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == uuid.Nil {
		return placement.Result{}, false, placement.ErrSessionNotInitialized
	}
	resp, err := c.call(ctx, Request{Op: OpPlace, Session: c.session, Query: &q})
	if err != nil {
		return placement.Result{}, false, err
	}
	if err := resp.Err(); err != nil {
		return placement.Result{}, false, err
	}
	if resp.Session != c.session {
		return placement.Result{}, false, fmt.Errorf("%w: response for session %s", ErrProtocol, resp.Session)
	}
	if resp.Result == nil {
		return placement.Result{}, false, nil
	}
	return *resp.Result, true, nil
}

func (c *client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.rt.close()
}
