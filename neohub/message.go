package neohub

import (
	"encoding/json"
	"fmt"
)

type MessageType string

const (
	CommandQueueMessageType    MessageType = "hm_get_command_queue"
	CommandResponseMessageType MessageType = "hm_set_command_response"
)

// CommandID tags every request. Only one command is ever in flight on a
// connection, so the tag is constant and replies are matched against it.
const CommandID = 1

// Request is the outer frame. Message holds the JSON text of an
// innerRequest, not a nested object.
type Request struct {
	Type    MessageType `json:"message_type"`
	Message string      `json:"message"`
}

type innerRequest struct {
	Token    string          `json:"token"`
	Commands []QueuedCommand `json:"COMMANDS"`
}

type QueuedCommand struct {
	Command string `json:"COMMAND"`
	ID      int64  `json:"COMMANDID"`
}

// Response is the reply frame. Response holds the command result as JSON
// text.
type Response struct {
	CommandID int64       `json:"command_id"`
	DeviceID  string      `json:"device_id"`
	Type      MessageType `json:"message_type"`
	Response  string      `json:"response"`
}

func EncodeRequest(token, command string) ([]byte, error) {
	inner, err := json.Marshal(innerRequest{
		Token: token,
		Commands: []QueuedCommand{
			{Command: command, ID: CommandID},
		},
	})
	if err != nil {
		return nil, err
	}
	return json.Marshal(Request{
		Type:    CommandQueueMessageType,
		Message: string(inner),
	})
}

func DecodeResponse(frame []byte) (*Response, error) {
	var resp Response
	if err := json.Unmarshal(frame, &resp); err != nil {
		return nil, &ProtocolError{Reason: "cannot decode response", Frame: frame, Err: err}
	}
	if resp.Type != CommandResponseMessageType {
		return nil, &ProtocolError{
			Reason:   fmt.Sprintf("expected %s, received %s", CommandResponseMessageType, resp.Type),
			Frame:    frame,
			Response: &resp,
		}
	}
	if resp.CommandID != CommandID {
		return nil, &ProtocolError{
			Reason:   fmt.Sprintf("expected command id %d, received %d", CommandID, resp.CommandID),
			Frame:    frame,
			Response: &resp,
		}
	}
	return &resp, nil
}

// VoidCommand returns the command text for a command without an argument,
// e.g. {"AWAY_ON":0}.
func VoidCommand(name Command) string {
	return mustObject(map[Command]int{name: 0})
}

// StringCommand returns the command text for a command with a single string
// argument, e.g. {"RUN_PROFILE":"Winter"}.
func StringCommand(name Command, arg string) string {
	return mustObject(map[Command]string{name: arg})
}

func mustObject(v any) string {
	// single key maps of strings and ints always marshal
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}
