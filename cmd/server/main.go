package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"go.chrisrx.dev/x/log"
	"go.chrisrx.dev/x/run"

	"go.chrisrx.dev/neohub/internal/cli"
	"go.chrisrx.dev/neohub/neohub"
)

var opts struct {
	cli.Flags
	Addr    string
	Refresh time.Duration
}

type commandRequest struct {
	Command string  `json:"command"`
	Arg     *string `json:"arg,omitempty"`
	Raw     string  `json:"raw,omitempty"`
}

type state struct {
	mu       sync.RWMutex
	identity *neohub.Identity
	updated  time.Time
	err      error
}

func (s *state) set(id neohub.Identity, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
	if err == nil {
		s.identity = &id
		s.updated = time.Now()
	}
}

func (s *state) MarshalJSON() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v := map[string]any{
		"identity": s.identity,
		"updated":  s.updated,
	}
	if s.err != nil {
		v["error"] = s.err.Error()
	}
	return json.Marshal(v)
}

func main() {
	cmd := &cobra.Command{
		Use:          "server",
		Short:        "HTTP bridge to a neohub",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger := log.New(log.WithFormat(log.JSONFormat))

			b, err := opts.Builder()
			if err != nil {
				return err
			}
			client, err := b.Logger(logger).Connect(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if err := client.Disconnect(context.Background()); err != nil {
					logger.Error("cannot disconnect", slog.Any("error", err))
				}
			}()

			st := &state{}
			go run.Every(ctx, func() error {
				id, err := client.Identify(ctx)
				if err != nil {
					logger.Error("cannot refresh identity", slog.Any("error", err))
				}
				st.set(id, err)
				return nil
			}, opts.Refresh)

			e := echo.New()
			e.HideBanner = true
			e.HidePort = true
			e.Use(middleware.Logger())
			e.Use(middleware.Recover())

			// routes
			e.GET("/identify", func(c echo.Context) error {
				id, err := client.Identify(hubContext(c))
				if err != nil {
					return fail(c, err)
				}
				return c.JSON(http.StatusOK, id)
			})

			e.GET("/state", func(c echo.Context) error {
				return c.JSON(http.StatusOK, st)
			})

			e.GET("/live", func(c echo.Context) error {
				data, err := client.LiveData(hubContext(c))
				if err != nil {
					return fail(c, err)
				}
				return c.JSON(http.StatusOK, data)
			})

			e.GET("/profiles", func(c echo.Context) error {
				profiles, err := client.Profiles(hubContext(c))
				if err != nil {
					return fail(c, err)
				}
				return c.JSON(http.StatusOK, profiles)
			})

			e.POST("/command", func(c echo.Context) error {
				var req commandRequest
				if err := c.Bind(&req); err != nil {
					return err
				}
				ctx := hubContext(c)
				var (
					resp json.RawMessage
					err  error
				)
				switch {
				case req.Raw != "":
					_, raw, err := client.Exchange(ctx, req.Raw)
					if err != nil {
						return fail(c, err)
					}
					return c.JSONBlob(http.StatusOK, []byte(raw))
				case req.Command == "":
					return c.JSON(http.StatusBadRequest, map[string]any{
						"status": http.StatusBadRequest,
						"error":  "command or raw is required",
					})
				case req.Arg != nil:
					resp, err = neohub.CommandString[json.RawMessage](ctx, client, neohub.Command(req.Command), *req.Arg)
				default:
					resp, err = neohub.CommandVoid[json.RawMessage](ctx, client, neohub.Command(req.Command))
				}
				if err != nil {
					return fail(c, err)
				}
				return c.JSONBlob(http.StatusOK, resp)
			})

			// run
			go func() {
				<-ctx.Done()
				sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = e.Shutdown(sctx)
			}()
			if err := e.Start(opts.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	opts.Flags.Register(cmd)
	cmd.Flags().StringVar(&opts.Addr, "addr", ":8080", "http listen address")
	cmd.Flags().DurationVar(&opts.Refresh, "refresh", time.Minute, "identity refresh interval")

	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

// hubContext detaches a hub exchange from the HTTP request. The client is
// shared, and a cancelled exchange leaves it unusable, so an HTTP client
// hanging up must not cancel it. The session timeout still bounds it.
func hubContext(c echo.Context) context.Context {
	return context.WithoutCancel(c.Request().Context())
}

func fail(c echo.Context, err error) error {
	code := statusCode(err)
	return c.JSON(code, map[string]any{
		"status": code,
		"error":  err.Error(),
	})
}

func statusCode(err error) int {
	switch {
	case errors.Is(err, neohub.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, neohub.ErrTransport),
		errors.Is(err, neohub.ErrSessionUnusable),
		errors.Is(err, neohub.ErrClosed):
		return http.StatusServiceUnavailable
	case errors.Is(err, neohub.ErrProtocol),
		errors.Is(err, neohub.ErrPayload),
		errors.Is(err, neohub.ErrRejected):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
