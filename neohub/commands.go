package neohub

import (
	"context"
	"fmt"
)

type Command string

const (
	Firmware    Command = "FIRMWARE"
	GetLiveData Command = "GET_LIVE_DATA"
	GetProfiles Command = "GET_PROFILES"
	AwayOn      Command = "AWAY_ON"
	AwayOff     Command = "AWAY_OFF"
	RunProfile  Command = "RUN_PROFILE"
)

// Result is the reply to commands that change hub state.
type Result struct {
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

func (r Result) err(name Command) error {
	if r.Error != "" {
		return fmt.Errorf("%w: %s: %s", ErrRejected, name, r.Error)
	}
	return nil
}

func (c *Client) LiveData(ctx context.Context) (*LiveData, error) {
	data, err := CommandVoid[LiveData](ctx, c, GetLiveData)
	if err != nil {
		return nil, err
	}
	return &data, nil
}

// Profiles returns the stored heating profiles keyed by name.
func (c *Client) Profiles(ctx context.Context) (map[string]Profile, error) {
	return CommandVoid[map[string]Profile](ctx, c, GetProfiles)
}

func (c *Client) Away(ctx context.Context, on bool) (Result, error) {
	name := AwayOff
	if on {
		name = AwayOn
	}
	return c.run(ctx, name, VoidCommand(name))
}

func (c *Client) ActivateProfile(ctx context.Context, profile string) (Result, error) {
	return c.run(ctx, RunProfile, StringCommand(RunProfile, profile))
}

func (c *Client) run(ctx context.Context, name Command, text string) (Result, error) {
	r, err := command[Result](ctx, c, text)
	if err != nil {
		return r, err
	}
	return r, r.err(name)
}
