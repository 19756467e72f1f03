package outbox

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopicForDerivesFromEventNamePrefix(t *testing.T) {
	w := &Worker{}
	assert.Equal(t, "reservation.events.v1", w.topicFor("reservation.accepted"))
	assert.Equal(t, "availability.events.v1", w.topicFor("availability.block_added"))
	assert.Equal(t, "property.events.v1", w.topicFor("property.status_changed"))

	w.TopicPrefix = "dev."
	assert.Equal(t, "dev.reservation.events.v1", w.topicFor("reservation.accepted"))
}

func TestFormatPayloadWrapsCloudEvent(t *testing.T) {
	w := &Worker{}
	occurred := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	doc := &EventDocument{
		ID:         "evt-1",
		Name:       "reservation.accepted",
		Payload:    []byte(`{"booking_id":"bk-1"}`),
		OccurredAt: occurred,
		Aggregate:  "bk-1",
		Headers:    map[string]string{"traceparent": "00-abc-def-01"},
	}

	payload, headers, err := w.formatPayload(doc)
	require.NoError(t, err)
	assert.Equal(t, "application/cloudevents+json", headers["content-type"])
	assert.Equal(t, "00-abc-def-01", headers["traceparent"])

	var evt map[string]any
	require.NoError(t, json.Unmarshal(payload, &evt))
	assert.Equal(t, "1.0", evt["specversion"])
	assert.Equal(t, "reservation.accepted.v1", evt["type"])
	assert.Equal(t, "app://rently", evt["source"])
	assert.NotEmpty(t, evt["id"])
	data, ok := evt["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "bk-1", data["booking_id"])
}

func TestFormatPayloadRejectsMalformedPayload(t *testing.T) {
	w := &Worker{}
	_, _, err := w.formatPayload(&EventDocument{Payload: []byte("not json")})
	assert.Error(t, err)
}

func TestNextRetryWalksBackoffSchedule(t *testing.T) {
	w := &Worker{Backoff: []time.Duration{time.Second, 5 * time.Second}}
	now := time.Now()

	first := w.nextRetry(0)
	assert.WithinDuration(t, now.Add(time.Second), first, 200*time.Millisecond)

	second := w.nextRetry(1)
	assert.WithinDuration(t, now.Add(5*time.Second), second, 200*time.Millisecond)

	// Past the schedule the last step repeats.
	third := w.nextRetry(9)
	assert.WithinDuration(t, now.Add(5*time.Second), third, 200*time.Millisecond)
}

func TestRunRequiresDependencies(t *testing.T) {
	w := &Worker{}
	assert.ErrorIs(t, w.Run(context.Background()), ErrWorkerNotConfigured)
}
