package neohub

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

const handshakeTimeout = 10 * time.Second

// Conn is a websocket connection to a hub. It is not safe for concurrent use.
type Conn struct {
	ws *websocket.Conn
}

// NewConn dials addr. For wss:// addresses trust decides which server
// certificates are accepted; a nil policy means AcceptAnyCertificate.
func NewConn(ctx context.Context, addr string, trust TrustPolicy) (*Conn, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: handshakeTimeout,
	}
	if strings.HasPrefix(addr, "wss://") {
		if trust == nil {
			trust = AcceptAnyCertificate
		}
		dialer.TLSClientConfig = trust.TLSConfig()
	}

	ws, resp, err := dialer.DialContext(ctx, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %w", ErrTransport, addr, err)
	}
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	return &Conn{ws: ws}, nil
}

// RoundTrip writes frame as a single text message and returns the next
// message received. The context deadline bounds the write and the read
// together; cancelling ctx interrupts either.
func (c *Conn) RoundTrip(ctx context.Context, frame []byte) ([]byte, error) {
	deadline, _ := ctx.Deadline()
	stop := context.AfterFunc(ctx, c.interrupt)
	defer stop()

	if err := c.ws.SetWriteDeadline(deadline); err != nil {
		return nil, classify(ctx, "write", err)
	}
	if err := c.ws.WriteMessage(websocket.TextMessage, frame); err != nil {
		return nil, classify(ctx, "write", err)
	}

	if err := c.ws.SetReadDeadline(deadline); err != nil {
		return nil, classify(ctx, "read", err)
	}
	_, data, err := c.ws.ReadMessage()
	if err != nil {
		return nil, classify(ctx, "read", err)
	}
	return data, nil
}

// Close performs the websocket close handshake: it sends a normal closure
// and waits, until the ctx deadline, for the peer to answer with its own
// close frame. The underlying connection is always released.
func (c *Conn) Close(ctx context.Context) error {
	defer c.ws.Close()

	deadline, _ := ctx.Deadline()
	stop := context.AfterFunc(ctx, c.interrupt)
	defer stop()

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := c.ws.WriteControl(websocket.CloseMessage, msg, deadline); err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		return classify(ctx, "close", err)
	}
	if err := c.ws.SetReadDeadline(deadline); err != nil {
		return classify(ctx, "close", err)
	}
	for {
		// frames the hub sent before it saw our close frame are dropped
		if _, _, err := c.ws.ReadMessage(); err != nil {
			var ce *websocket.CloseError
			if errors.As(err, &ce) {
				return nil
			}
			return classify(ctx, "close", err)
		}
	}
}

// Abort drops the connection without a close handshake.
func (c *Conn) Abort() error {
	return c.ws.Close()
}

func (c *Conn) interrupt() {
	_ = c.ws.NetConn().SetDeadline(time.Now())
}

func classify(ctx context.Context, op string, err error) error {
	switch ctxErr := ctx.Err(); {
	case errors.Is(ctxErr, context.DeadlineExceeded):
		return fmt.Errorf("%w: %s: %w", ErrTimeout, op, err)
	case ctxErr != nil:
		return fmt.Errorf("%w: %s: %w", ErrTransport, op, ctxErr)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return fmt.Errorf("%w: %s: %w", ErrTimeout, op, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrTransport, op, err)
}
