package queue

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelope_MarshalJSON(t *testing.T) {
	t.Parallel()

	env := Envelope{
		TaskName:  "send_email",
		TaskID:    42,
		SecretKey: "s3cret",
		Payload:   json.RawMessage(`{"to":"a@b.com","name":"Ann"}`),
	}

	data, err := json.Marshal(env)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, "send_email", body["task_name"])
	assert.Equal(t, float64(42), body["task_id"])
	assert.Equal(t, "s3cret", body["secret_key"])
	assert.Equal(t, "a@b.com", body["to"])
	assert.Equal(t, "Ann", body["name"])
}

func TestEnvelope_MarshalJSON_EmptyPayload(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(Envelope{TaskName: "t", TaskID: 1, SecretKey: "s"})
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Len(t, body, 3, "only the reserved fields")
}

func TestEnvelope_MarshalJSON_NonObjectPayload(t *testing.T) {
	t.Parallel()

	_, err := json.Marshal(Envelope{TaskName: "t", TaskID: 1, SecretKey: "s", Payload: json.RawMessage(`[1,2]`)})
	require.ErrorIs(t, err, ErrInvalidEnvelope)
}

func TestParseEnvelope_RoundTrip(t *testing.T) {
	t.Parallel()

	original := Envelope{
		TaskName:  "send_email",
		TaskID:    42,
		SecretKey: "s3cret",
		Payload:   json.RawMessage(`{"to":"a@b.com"}`),
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)

	parsed, err := ParseEnvelope(data)
	require.NoError(t, err)
	assert.Equal(t, original.TaskName, parsed.TaskName)
	assert.Equal(t, original.TaskID, parsed.TaskID)
	assert.Equal(t, original.SecretKey, parsed.SecretKey)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(parsed.Payload, &payload))
	assert.Equal(t, map[string]string{"to": "a@b.com"}, payload)
}

func TestParseEnvelope_Invalid(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body string
	}{
		{"not json", `{{`},
		{"missing task_name", `{"task_id":1,"secret_key":"s"}`},
		{"empty task_name", `{"task_name":"","task_id":1,"secret_key":"s"}`},
		{"missing task_id", `{"task_name":"t","secret_key":"s"}`},
		{"non-integer task_id", `{"task_name":"t","task_id":"one","secret_key":"s"}`},
		{"missing secret_key", `{"task_name":"t","task_id":1}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseEnvelope([]byte(tc.body))
			require.ErrorIs(t, err, ErrInvalidEnvelope)
		})
	}
}
