// Package remote carries the placement gateway over the network. A solver process serves a
// placement.Gateway per connection; clients talk to it over WebSocket or QUIC using one JSON
// envelope per request and exactly one per response.
package remote

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/zeusync/artrainer/internal/core/placement"
	"github.com/zeusync/artrainer/pkg/generic"
)

var (
	ErrProtocol = errors.New("remote: protocol violation")
	ErrClosed   = errors.New("remote: gateway closed")
)

// DefaultMaxMessageSize bounds a single envelope.
const DefaultMaxMessageSize = 1024 * 1024

type Op string

const (
	OpInit  Op = "init"
	OpPlace Op = "place"
)

// Error codes that map back to placement sentinels on the client.
const (
	codeSessionNotInitialized = "session_not_initialized"
	codeInvalidQuery          = "invalid_query"
	codeInternal              = "internal"
	codeProtocol              = "protocol"
)

type Request struct {
	Op      Op               `json:"op"`
	Session uuid.UUID        `json:"session"`
	Query   *placement.Query `json:"query,omitempty"`
}

// Response is the answer to one Request. OK with a nil Result means the solver found no
// location.
type Response struct {
	OK      bool              `json:"ok"`
	Session uuid.UUID         `json:"session"`
	Result  *placement.Result `json:"result,omitempty"`
	Code    string            `json:"code,omitempty"`
	Error   string            `json:"error,omitempty"`
}

func errorResponse(session uuid.UUID, err error) Response {
	code := codeInternal
	switch {
	case errors.Is(err, placement.ErrSessionNotInitialized):
		code = codeSessionNotInitialized
	case errors.Is(err, placement.ErrInvalidQuery):
		code = codeInvalidQuery
	case errors.Is(err, ErrProtocol):
		code = codeProtocol
	}
	return Response{Session: session, Code: code, Error: err.Error()}
}

// Err rebuilds the error a failed response stands for.
func (r Response) Err() error {
	if r.OK {
		return nil
	}
	var base error
	switch r.Code {
	case codeSessionNotInitialized:
		base = placement.ErrSessionNotInitialized
	case codeInvalidQuery:
		base = placement.ErrInvalidQuery
	case codeProtocol:
		base = ErrProtocol
	default:
		return fmt.Errorf("remote: solver error: %s", r.Error)
	}
	return fmt.Errorf("%w (remote: %s)", base, r.Error)
}

// writeFrame writes v as a length-prefixed JSON frame.
var frames = generic.NewPool(func() *bytes.Buffer { return new(bytes.Buffer) }, (*bytes.Buffer).Reset)

func writeFrame(w io.Writer, v any) error {
	buf := frames.Get()
	defer frames.Put(buf)

	buf.Write([]byte{0, 0, 0, 0})
	if err := json.NewEncoder(buf).Encode(v); err != nil {
		return err
	}
	frame := buf.Bytes()
	// drop the encoder's trailing newline
	frame = frame[:len(frame)-1]
	n := len(frame) - 4
	if n > DefaultMaxMessageSize {
		return fmt.Errorf("%w: frame of %d bytes exceeds limit", ErrProtocol, n)
	}
	binary.BigEndian.PutUint32(frame, uint32(n))
	_, err := w.Write(frame)
	return err
}

func readFrame(r io.Reader, v any) error {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return err
	}
	n := binary.BigEndian.Uint32(header[:])
	if n > DefaultMaxMessageSize {
		return fmt.Errorf("%w: frame of %d bytes exceeds limit", ErrProtocol, n)
	}
	data := make([]byte, n)
	if _, err := io.ReadFull(r, data); err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrProtocol, err)
	}
	return nil
}
