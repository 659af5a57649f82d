package remote

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/quic-go/quic-go"
	"golang.org/x/sync/errgroup"

	"github.com/zeusync/artrainer/internal/core/observability/log"
	"github.com/zeusync/artrainer/internal/core/placement"
)

const (
	DefaultIdleTimeout = 30 * time.Second
	DefaultKeepAlive   = 15 * time.Second
)

func quicConfig() *quic.Config {
	return &quic.Config{
		MaxIncomingStreams:   100,
		MaxIdleTimeout:       DefaultIdleTimeout,
		KeepAlivePeriod:      DefaultKeepAlive,
		HandshakeIdleTimeout: 10 * time.Second,
	}
}

// QUICGateway is a placement.Gateway backed by a solver reached over QUIC. Every request
// travels on its own bidirectional stream.
type QUICGateway struct {
	*client
}

var _ placement.Gateway = (*QUICGateway)(nil)

type quicTransport struct {
	conn *quic.Conn
}

func DialQUIC(ctx context.Context, addr string, tlsConfig *tls.Config, timeout time.Duration, logger log.Log) (*QUICGateway, error) {
	tlsConfig = tlsConfig.Clone()
	if tlsConfig.ServerName == "" {
		if host, _, err := net.SplitHostPort(addr); err == nil {
			tlsConfig.ServerName = host
		} else {
			tlsConfig.ServerName = addr
		}
	}

	conn, err := quic.DialAddr(ctx, addr, tlsConfig, quicConfig())
	if err != nil {
		return nil, fmt.Errorf("remote: dial %s: %w", addr, err)
	}
	logger = logger.Named("solver.quic").With(
		log.String("local_addr", conn.LocalAddr().String()),
		log.String("remote_addr", conn.RemoteAddr().String()))
	logger.Info("connected to solver")
	return &QUICGateway{client: newClient(&quicTransport{conn: conn}, timeout, logger)}, nil
}

func (t *quicTransport) roundTrip(ctx context.Context, req Request) (Response, error) {
	stream, err := t.conn.OpenStreamSync(ctx)
	if err != nil {
		return Response{}, fmt.Errorf("remote: open stream: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = stream.SetDeadline(deadline)
	}

	if err := writeFrame(stream, req); err != nil {
		stream.CancelRead(0)
		_ = stream.Close()
		return Response{}, fmt.Errorf("remote: write request: %w", err)
	}
	// closing the send side tells the server the request is complete
	if err := stream.Close(); err != nil {
		return Response{}, err
	}

	var resp Response
	if err := readFrame(stream, &resp); err != nil {
		stream.CancelRead(0)
		return Response{}, fmt.Errorf("remote: read response: %w", err)
	}
	stream.CancelRead(0)
	return resp, nil
}

func (t *quicTransport) close() error {
	return t.conn.CloseWithError(0, "closed")
}

// ServeQUIC accepts connections on ln until ctx is done. Streams on one connection are
// handled in arrival order against that connection's session.
func (s *Server) ServeQUIC(ctx context.Context, ln *quic.Listener) error {
	s.logger.Info("serving QUIC", log.String("addr", ln.Addr().String()))
	ctx, cancel := context.WithCancel(ctx)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-ctx.Done()
		return ln.Close()
	})

	var acceptErr error
	for {
		conn, err := ln.Accept(ctx)
		if err != nil {
			if ctx.Err() == nil && !errors.Is(err, quic.ErrServerClosed) {
				s.logger.Error("accept failed", log.Error(err))
				acceptErr = fmt.Errorf("remote: accept: %w", err)
			}
			break
		}
		g.Go(func() error {
			s.serveQUICConn(ctx, conn)
			return nil
		})
	}

	cancel()
	_ = g.Wait()
	return acceptErr
}

func (s *Server) serveQUICConn(ctx context.Context, conn *quic.Conn) {
	logger := s.logger.With(log.String("remote_addr", conn.RemoteAddr().String()), log.String("transport", "quic"))
	sess, err := newSession(s.factory, logger)
	if err != nil {
		logger.Error("session setup failed", log.Error(err))
		_ = conn.CloseWithError(1, "session setup failed")
		return
	}
	s.active.Add(1)
	defer s.active.Add(-1)
	logger.Info("client connected")

	for {
		stream, err := conn.AcceptStream(ctx)
		if err != nil {
			logger.Debug("connection ended", log.Error(err))
			return
		}
		s.serveStream(ctx, sess, stream, logger)
	}
}

func (s *Server) serveStream(ctx context.Context, sess *session, stream *quic.Stream, logger log.Log) {
	defer stream.Close()

	var req Request
	var resp Response
	if err := readFrame(stream, &req); err != nil {
		if !errors.Is(err, ErrProtocol) {
			logger.Debug("read request failed", log.Error(err))
			stream.CancelWrite(0)
			return
		}
		resp = errorResponse(uuid.Nil, err)
	} else {
		stream.CancelRead(0)
		resp = sess.handle(ctx, req)
	}
	if err := writeFrame(stream, resp); err != nil {
		logger.Debug("write response failed", log.Error(err))
	}
}

// ListenQUIC opens a QUIC listener for ServeQUIC.
func ListenQUIC(addr string, tlsConfig *tls.Config) (*quic.Listener, error) {
	return quic.ListenAddr(addr, tlsConfig, quicConfig())
}
