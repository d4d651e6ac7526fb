package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.chrisrx.dev/x/log"

	"go.chrisrx.dev/neohub/internal/cli"
	"go.chrisrx.dev/neohub/neohub"
)

var opts struct {
	cli.Flags
	Debug bool
}

func main() {
	cmd := &cobra.Command{
		Use:          "neohub",
		Short:        "Send commands to a neohub",
		SilenceUsage: true,
	}
	opts.Flags.Register(cmd)
	cmd.PersistentFlags().BoolVar(&opts.Debug, "debug", false, "log protocol traffic")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "identify",
			Short: "Print the hub device id and firmware version",
			Args:  cobra.NoArgs,
			RunE: withClient(func(ctx context.Context, c *neohub.Client, _ []string) (any, error) {
				return c.Identify(ctx)
			}),
		},
		&cobra.Command{
			Use:   "raw COMMAND",
			Short: "Send command text as is",
			Args:  cobra.ExactArgs(1),
			RunE: withClient(func(ctx context.Context, c *neohub.Client, args []string) (any, error) {
				deviceID, resp, err := c.Exchange(ctx, args[0])
				if err != nil {
					return nil, err
				}
				return map[string]any{
					"device_id": deviceID,
					"response":  json.RawMessage(resp),
				}, nil
			}),
		},
		&cobra.Command{
			Use:   "void NAME",
			Short: "Send a command without an argument",
			Args:  cobra.ExactArgs(1),
			RunE: withClient(func(ctx context.Context, c *neohub.Client, args []string) (any, error) {
				return neohub.CommandVoid[json.RawMessage](ctx, c, neohub.Command(args[0]))
			}),
		},
		&cobra.Command{
			Use:   "str NAME ARG",
			Short: "Send a command with a string argument",
			Args:  cobra.ExactArgs(2),
			RunE: withClient(func(ctx context.Context, c *neohub.Client, args []string) (any, error) {
				return neohub.CommandString[json.RawMessage](ctx, c, neohub.Command(args[0]), args[1])
			}),
		},
		&cobra.Command{
			Use:   "live",
			Short: "Print live zone data",
			Args:  cobra.NoArgs,
			RunE: withClient(func(ctx context.Context, c *neohub.Client, _ []string) (any, error) {
				return c.LiveData(ctx)
			}),
		},
		&cobra.Command{
			Use:   "profiles",
			Short: "Print stored heating profiles",
			Args:  cobra.NoArgs,
			RunE: withClient(func(ctx context.Context, c *neohub.Client, _ []string) (any, error) {
				return c.Profiles(ctx)
			}),
		},
		&cobra.Command{
			Use:       "away on|off",
			Short:     "Switch away mode",
			Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
			ValidArgs: []string{"on", "off"},
			RunE: withClient(func(ctx context.Context, c *neohub.Client, args []string) (any, error) {
				return c.Away(ctx, args[0] == "on")
			}),
		},
		&cobra.Command{
			Use:   "profile NAME",
			Short: "Run a heating profile",
			Args:  cobra.ExactArgs(1),
			RunE: withClient(func(ctx context.Context, c *neohub.Client, args []string) (any, error) {
				return c.ActivateProfile(ctx, args[0])
			}),
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		log.Fatal(err)
	}
}

type action func(ctx context.Context, c *neohub.Client, args []string) (any, error)

func withClient(fn action) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		level := slog.LevelWarn
		if opts.Debug {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

		b, err := opts.Builder()
		if err != nil {
			return err
		}
		client, err := b.Logger(logger).Connect(ctx)
		if err != nil {
			return err
		}

		v, err := fn(ctx, client, args)
		if derr := client.Disconnect(ctx); derr != nil && err == nil {
			err = fmt.Errorf("disconnect: %w", derr)
		}
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}
