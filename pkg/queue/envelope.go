package queue

import (
	"encoding/json"
	"fmt"
)

// Reserved envelope field names. Everything else in a callback body is
// forwarded verbatim as the task payload.
const (
	fieldTaskName  = "task_name"
	fieldTaskID    = "task_id"
	fieldSecretKey = "secret_key"
)

// Envelope is the opaque unit handed to a Dispatcher. On the wire it is a
// single flat JSON object: the payload fields plus the three reserved
// routing fields.
type Envelope struct {
	TaskName  string
	SecretKey string
	Payload   json.RawMessage
	TaskID    int64
}

// MarshalJSON flattens the payload and the reserved fields into one object.
// The payload must be a JSON object (or empty); reserved keys inside it are
// overwritten by the envelope's own values.
func (e Envelope) MarshalJSON() ([]byte, error) {
	body := make(map[string]any)
	if len(e.Payload) > 0 {
		if err := json.Unmarshal(e.Payload, &body); err != nil {
			return nil, fmt.Errorf("%w: payload must be a JSON object: %v", ErrInvalidEnvelope, err)
		}
	}

	body[fieldTaskName] = e.TaskName
	body[fieldTaskID] = e.TaskID
	body[fieldSecretKey] = e.SecretKey

	return json.Marshal(body)
}

// ParseEnvelope is the inverse of MarshalJSON: it splits a callback body
// into the reserved routing fields and the remaining payload fields.
func ParseEnvelope(data []byte) (*Envelope, error) {
	var body map[string]json.RawMessage
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
	}

	var env Envelope

	rawName, ok := body[fieldTaskName]
	if !ok {
		return nil, fmt.Errorf("%w: missing %s", ErrInvalidEnvelope, fieldTaskName)
	}
	if err := json.Unmarshal(rawName, &env.TaskName); err != nil || env.TaskName == "" {
		return nil, fmt.Errorf("%w: %s must be a non-empty string", ErrInvalidEnvelope, fieldTaskName)
	}

	rawID, ok := body[fieldTaskID]
	if !ok {
		return nil, fmt.Errorf("%w: missing %s", ErrInvalidEnvelope, fieldTaskID)
	}
	if err := json.Unmarshal(rawID, &env.TaskID); err != nil {
		return nil, fmt.Errorf("%w: %s must be an integer", ErrInvalidEnvelope, fieldTaskID)
	}

	rawSecret, ok := body[fieldSecretKey]
	if !ok {
		return nil, fmt.Errorf("%w: missing %s", ErrInvalidEnvelope, fieldSecretKey)
	}
	if err := json.Unmarshal(rawSecret, &env.SecretKey); err != nil {
		return nil, fmt.Errorf("%w: %s must be a string", ErrInvalidEnvelope, fieldSecretKey)
	}

	delete(body, fieldTaskName)
	delete(body, fieldTaskID)
	delete(body, fieldSecretKey)

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
	}
	env.Payload = payload

	return &env, nil
}
