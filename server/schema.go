package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const joinSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["type"],
  "properties": {
    "type":     {"const": "join"},
    "role":     {"type": ["string", "null"], "maxLength": 32},
    "username": {"type": ["string", "null"], "maxLength": 64},
    "team":     {"type": ["string", "null"], "maxLength": 32},
    "token":    {"type": ["string", "null"], "maxLength": 2048},
    "encoding": {"enum": ["json", "msgpack", ""]}
  }
}`

const actionSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["type", "a", "b"],
  "properties": {
    "type": {"const": "action"},
    "a":    {"type": "integer"},
    "b":    {"type": "integer"}
  }
}`

var errUnknownMessage = errors.New("unknown message type")

// MessageValidator checks inbound frames against the protocol schemas
type MessageValidator struct {
	join   *jsonschema.Schema
	action *jsonschema.Schema
}

// NewMessageValidator compiles the built-in schemas
func NewMessageValidator() (*MessageValidator, error) {
	join, err := jsonschema.CompileString("join.schema.json", joinSchema)
	if err != nil {
		return nil, fmt.Errorf("compile join schema: %w", err)
	}
	action, err := jsonschema.CompileString("action.schema.json", actionSchema)
	if err != nil {
		return nil, fmt.Errorf("compile action schema: %w", err)
	}
	return &MessageValidator{join: join, action: action}, nil
}

// Kind validates raw and returns its message type. Keys and the type value
// are matched case-insensitively, as clients send both "Type" and "type".
func (v *MessageValidator) Kind(raw []byte) (string, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return "", err
	}
	norm := make(map[string]interface{}, len(doc))
	for k, val := range doc {
		norm[strings.ToLower(k)] = val
	}
	kind, _ := norm["type"].(string)
	kind = strings.ToLower(kind)
	norm["type"] = kind

	switch kind {
	case MsgJoin:
		return kind, v.join.Validate(norm)
	case MsgAction:
		return kind, v.action.Validate(norm)
	}
	return "", errUnknownMessage
}

// joinRejection maps a join that failed its schema to the rejection the
// client is told about. Role problems win over username, username over team.
func joinRejection(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return ErrInvalidRole
	}
	fields := make(map[string]bool)
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if loc := strings.TrimPrefix(e.InstanceLocation, "/"); loc != "" {
			fields[strings.SplitN(loc, "/", 2)[0]] = true
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(ve)

	switch {
	case fields["role"]:
		return ErrInvalidRole
	case fields["username"]:
		return ErrMissingUsername
	case fields["team"]:
		return ErrMissingTeam
	}
	return ErrInvalidRole
}
