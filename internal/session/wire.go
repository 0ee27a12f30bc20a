package session

import (
	"encoding/json"
	"fmt"
)

// TargetPrefix starts every SSM target string for ECS containers.
const TargetPrefix = "ecs:"

// ExecSession is the single-use credential bundle returned by ExecuteCommand.
// It is handed to the plugin and never persisted.
type ExecSession struct {
	SessionID  string
	StreamURL  string
	TokenValue string
}

// sessionPayload is the plugin's session argument. Key casing is part of
// the plugin contract.
type sessionPayload struct {
	SessionID  string `json:"SessionId"`
	StreamURL  string `json:"StreamUrl"`
	TokenValue string `json:"TokenValue"`
}

// startSessionPayload is the plugin's StartSession request argument. Unset
// fields are encoded as null, matching the SSM StartSession input shape.
type startSessionPayload struct {
	DocumentName *string             `json:"DocumentName"`
	Parameters   map[string][]string `json:"Parameters"`
	Reason       *string             `json:"Reason"`
	Target       string              `json:"Target"`
}

// Target builds the SSM target for a container. Field order and the
// underscore separators are fixed by the plugin.
func Target(clusterName, taskName, runtimeID string) string {
	return TargetPrefix + clusterName + "_" + taskName + "_" + runtimeID
}

// EncodeSession serializes s for the plugin's first argument.
func EncodeSession(s ExecSession) ([]byte, error) {
	data, err := json.Marshal(sessionPayload{
		SessionID:  s.SessionID,
		StreamURL:  s.StreamURL,
		TokenValue: s.TokenValue,
	})
	if err != nil {
		return nil, fmt.Errorf("encode session payload: %w", err)
	}
	return data, nil
}

// EncodeStartSession serializes the StartSession request for target.
func EncodeStartSession(target string) ([]byte, error) {
	data, err := json.Marshal(startSessionPayload{Target: target})
	if err != nil {
		return nil, fmt.Errorf("encode start-session payload: %w", err)
	}
	return data, nil
}
