package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkoutCompletedPayload struct {
	OrderID    string `json:"order_id"`
	FinalTotal int64  `json:"final_total"`
}

func TestNewEvent_PopulatesEnvelope(t *testing.T) {
	payload := checkoutCompletedPayload{OrderID: "ord-1", FinalTotal: 90}

	event, err := NewEvent("checkout.completed", "ord-1", "order", "pricing-engine", payload)
	require.NoError(t, err)

	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, "checkout.completed", event.EventType)
	assert.Equal(t, "ord-1", event.AggregateID)
	assert.Equal(t, "order", event.AggregateType)
	assert.Equal(t, 1, event.Version)
	assert.Equal(t, "pricing-engine", event.Source)
	assert.False(t, event.Timestamp.IsZero())
}

func TestEvent_RoundTripWithData(t *testing.T) {
	event, err := NewEvent("checkout.completed", "ord-2", "order", "pricing-engine",
		checkoutCompletedPayload{OrderID: "ord-2", FinalTotal: 50})
	require.NoError(t, err)

	event.WithCorrelationID("corr-42").WithMetadata("region", "UK")

	raw, err := event.Marshal()
	require.NoError(t, err)

	decoded, err := UnmarshalEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, "corr-42", decoded.CorrelationID)
	assert.Equal(t, "UK", decoded.Metadata["region"])

	var payload checkoutCompletedPayload
	require.NoError(t, decoded.UnmarshalData(&payload))
	assert.Equal(t, int64(50), payload.FinalTotal)
}
