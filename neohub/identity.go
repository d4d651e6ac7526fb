package neohub

import (
	"context"
	"encoding/json"
	"fmt"
)

const firmwareVersionField = "firmware version"

type Identity struct {
	// DeviceID is the hub's hardware id, shaped like a MAC address.
	DeviceID string `json:"device_id"`

	// FirmwareVersion is nil when the hub does not report one.
	FirmwareVersion *string `json:"firmware_version,omitempty"`
}

// Identify asks the hub for its firmware version.
func (c *Client) Identify(ctx context.Context) (Identity, error) {
	deviceID, resp, err := c.Exchange(ctx, VoidCommand(Firmware))
	if err != nil {
		return Identity{}, fmt.Errorf("requesting %s version: %w", Firmware, err)
	}
	return parseIdentity(deviceID, resp)
}

// parseIdentity reads the firmware version from any JSON reply. Only invalid
// JSON is an error; a reply that is not an object has no version.
func parseIdentity(deviceID, resp string) (Identity, error) {
	var v any
	if err := json.Unmarshal([]byte(resp), &v); err != nil {
		return Identity{}, &PayloadError{Command: VoidCommand(Firmware), Raw: resp, Err: err}
	}
	id := Identity{DeviceID: deviceID}
	if fields, ok := v.(map[string]any); ok {
		if version, ok := fields[firmwareVersionField].(string); ok {
			id.FirmwareVersion = &version
		}
	}
	return id, nil
}
