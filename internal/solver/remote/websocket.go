package remote

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zeusync/artrainer/internal/core/observability/log"
	"github.com/zeusync/artrainer/internal/core/placement"
)

// WebSocketGateway is a placement.Gateway backed by a solver reached over WebSocket.
type WebSocketGateway struct {
	*client
}

var _ placement.Gateway = (*WebSocketGateway)(nil)

type wsTransport struct {
	conn *websocket.Conn
}

// DialWebSocket connects to a solver endpoint such as ws://host:port/solver.
func DialWebSocket(ctx context.Context, url string, timeout time.Duration, logger log.Log) (*WebSocketGateway, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("remote: dial %s: %w", url, err)
	}
	conn.SetReadLimit(DefaultMaxMessageSize)
	logger = logger.Named("solver.websocket").With(log.String("url", url))
	logger.Info("connected to solver")
	return &WebSocketGateway{client: newClient(&wsTransport{conn: conn}, timeout, logger)}, nil
}

func (t *wsTransport) roundTrip(ctx context.Context, req Request) (Response, error) {
	if deadline, ok := ctx.Deadline(); ok {
		_ = t.conn.SetWriteDeadline(deadline)
		_ = t.conn.SetReadDeadline(deadline)
	}
	if err := t.conn.WriteJSON(req); err != nil {
		return Response{}, fmt.Errorf("remote: write request: %w", err)
	}
	var resp Response
	if err := t.conn.ReadJSON(&resp); err != nil {
		if isDecodeError(err) {
			return Response{}, fmt.Errorf("%w: %v", ErrProtocol, err)
		}
		return Response{}, fmt.Errorf("remote: read response: %w", err)
	}
	return resp, nil
}

func (t *wsTransport) close() error {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = t.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	return t.conn.Close()
}

// Server serves solver sessions. Each connection gets its own gateway from the factory.
type Server struct {
	factory  GatewayFactory
	upgrader websocket.Upgrader
	active   atomic.Int64
	logger   log.Log
}

func NewServer(factory GatewayFactory, logger log.Log) *Server {
	return &Server{
		factory: factory,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
		logger: logger.Named("solverd"),
	}
}

// ActiveSessions reports the number of connections currently being served.
func (s *Server) ActiveSessions() int64 { return s.active.Load() }

// ServeHTTP upgrades the request and serves the connection until the client leaves.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", log.Error(err))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(DefaultMaxMessageSize)

	logger := s.logger.With(log.String("remote_addr", conn.RemoteAddr().String()), log.String("transport", "websocket"))
	sess, err := newSession(s.factory, logger)
	if err != nil {
		logger.Error("session setup failed", log.Error(err))
		return
	}
	s.active.Add(1)
	defer s.active.Add(-1)
	logger.Info("client connected")

	for {
		var req Request
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Info("client disconnected")
				return
			}
			if !isDecodeError(err) {
				logger.Debug("connection ended", log.Error(err))
				return
			}
			if werr := conn.WriteJSON(errorResponse(req.Session, fmt.Errorf("%w: %v", ErrProtocol, err))); werr != nil {
				return
			}
			continue
		}
		if err := conn.WriteJSON(sess.handle(r.Context(), req)); err != nil {
			logger.Debug("write response failed", log.Error(err))
			return
		}
	}
}
