package neohub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

type state int

const (
	stateConnected state = iota
	stateBroken
	stateClosed
)

func (s state) String() string {
	switch s {
	case stateConnected:
		return "connected"
	case stateBroken:
		return "broken"
	case stateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Client is a session with one hub. Exchanges are serialized: the hub
// protocol has no request ids beyond a constant, so at most one command is
// ever outstanding on the connection.
//
// A timeout or transport failure leaves the session unusable; only
// Disconnect may be called afterwards.
type Client struct {
	token   string
	timeout time.Duration
	logger  *slog.Logger

	mu    sync.Mutex
	conn  *Conn
	state state
}

func newClient(conn *Conn, token string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		token:   token,
		timeout: timeout,
		logger:  logger,
		conn:    conn,
	}
}

// Exchange sends one command and waits for its reply. It returns the hub's
// device id and the response payload, still JSON encoded.
func (c *Client) Exchange(ctx context.Context, command string) (deviceID, response string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.usable(); err != nil {
		return "", "", err
	}
	// nothing is on the wire yet, so the session stays usable
	if err := ctx.Err(); err != nil {
		return "", "", fmt.Errorf("exchange not started: %w", err)
	}

	frame, err := EncodeRequest(c.token, command)
	if err != nil {
		return "", "", err
	}

	logger := c.logger.With(
		slog.String("exchange", uuid.NewString()),
		slog.String("command", command),
	)
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	logger.Debug("sending command", slog.Int("size", len(frame)))
	data, err := c.conn.RoundTrip(ctx, frame)
	if err != nil {
		c.state = stateBroken
		logger.Error("exchange failed", slog.Any("error", err), slog.Duration("elapsed", time.Since(start)))
		return "", "", err
	}
	logger.Debug("received response", slog.Int("size", len(data)), slog.Duration("elapsed", time.Since(start)))

	resp, err := DecodeResponse(data)
	if err != nil {
		logger.Warn("rejected response", slog.Any("error", err))
		return "", "", err
	}
	return resp.DeviceID, resp.Response, nil
}

// Disconnect closes the session. For a healthy session this is a close
// handshake bounded by the session timeout; a broken session is simply
// dropped. The client cannot be used afterwards.
func (c *Client) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case stateClosed:
		return ErrClosed
	case stateBroken:
		c.state = stateClosed
		_ = c.conn.Abort()
		return nil
	}
	c.state = stateClosed

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if err := c.conn.Close(ctx); err != nil {
		c.logger.Warn("close handshake failed", slog.Any("error", err))
		return err
	}
	c.logger.Debug("disconnected")
	return nil
}

func (c *Client) usable() error {
	switch c.state {
	case stateConnected:
		return nil
	case stateClosed:
		return ErrClosed
	default:
		return ErrSessionUnusable
	}
}

// CommandVoid runs a command without an argument and decodes the response
// into T.
func CommandVoid[T any](ctx context.Context, c *Client, name Command) (T, error) {
	return command[T](ctx, c, VoidCommand(name))
}

// CommandString runs a command with a single string argument and decodes the
// response into T.
func CommandString[T any](ctx context.Context, c *Client, name Command, arg string) (T, error) {
	return command[T](ctx, c, StringCommand(name, arg))
}

func command[T any](ctx context.Context, c *Client, text string) (T, error) {
	var v T
	_, resp, err := c.Exchange(ctx, text)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal([]byte(resp), &v); err != nil {
		return v, &PayloadError{Command: text, Raw: resp, Err: err}
	}
	return v, nil
}

// IsFatal reports whether err left the session unusable.
func IsFatal(err error) bool {
	return errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrTransport) ||
		errors.Is(err, ErrSessionUnusable)
}
