package remote

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/zeusync/artrainer/internal/core/observability/log"
	"github.com/zeusync/artrainer/internal/core/placement"
)

// GatewayFactory builds the solver backing one client connection.
type GatewayFactory func() (placement.Gateway, error)

// session is the server side of one connection. Requests are handled one at a time.
type session struct {
	gateway placement.Gateway
	id      uuid.UUID
	logger  log.Log
}

func newSession(factory GatewayFactory, logger log.Log) (*session, error) {
	gw, err := factory()
	if err != nil {
		return nil, fmt.Errorf("remote: create solver: %w", err)
	}
	return &session{gateway: gw, logger: logger}, nil
}

func (s *session) handle(ctx context.Context, req Request) Response {
	switch req.Op {
	case OpInit:
		if err := s.gateway.Init(ctx); err != nil {
			s.logger.Warn("solver init failed", log.Error(err))
			return errorResponse(uuid.Nil, err)
		}
		s.id = uuid.New()
		s.logger.Debug("solver session started", log.String("session", s.id.String()))
		return Response{OK: true, Session: s.id}

	case OpPlace:
		if s.id == uuid.Nil || req.Session != s.id {
			return errorResponse(req.Session, placement.ErrSessionNotInitialized)
		}
		if req.Query == nil {
			return errorResponse(s.id, fmt.Errorf("%w: place without query", ErrProtocol))
		}
		result, ok, err := s.gateway.Place(ctx, *req.Query)
		if err != nil {
			return errorResponse(s.id, err)
		}
		resp := Response{OK: true, Session: s.id}
		if ok {
			resp.Result = &result
		}
		return resp

	default:
		return errorResponse(req.Session, fmt.Errorf("%w: unknown op %q", ErrProtocol, req.Op))
	}
}
