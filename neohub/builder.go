package neohub

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const DefaultTimeout = 15 * time.Second

// Builder collects connection parameters. Nothing touches the network until
// Connect.
type Builder struct {
	url     string
	token   string
	timeout time.Duration
	trust   TrustPolicy
	logger  *slog.Logger
}

func Build(url, token string) *Builder {
	return &Builder{
		url:     url,
		token:   token,
		timeout: DefaultTimeout,
		trust:   AcceptAnyCertificate,
	}
}

// FromEnv builds from NEOHUB_URL and NEOHUB_TOKEN. It fails with ErrConfig if
// either is missing.
func FromEnv() (*Builder, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	return cfg.Builder()
}

// Timeout bounds every exchange, and the connect and disconnect handshakes.
func (b *Builder) Timeout(d time.Duration) *Builder {
	b.timeout = d
	return b
}

func (b *Builder) Trust(p TrustPolicy) *Builder {
	b.trust = p
	return b
}

func (b *Builder) Logger(l *slog.Logger) *Builder {
	b.logger = l
	return b
}

func (b *Builder) Connect(ctx context.Context) (*Client, error) {
	if b.url == "" {
		return nil, fmt.Errorf("%w: url is required", ErrConfig)
	}
	if b.token == "" {
		return nil, fmt.Errorf("%w: token is required", ErrConfig)
	}
	if b.timeout <= 0 {
		return nil, fmt.Errorf("%w: timeout must be positive, got %v", ErrConfig, b.timeout)
	}
	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("url", b.url))

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	logger.Info("attempting connection...", slog.Any("trust", b.trust))
	conn, err := NewConn(ctx, b.url, b.trust)
	if err != nil {
		return nil, err
	}
	logger.Info("connection successful")
	return newClient(conn, b.token, b.timeout, logger), nil
}
